package forecast

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// rankTolerance 奇异值相对最大奇异值低于该比例视为 0
const rankTolerance = 1e-10

// Regression 已拟合的线性回归参数，只读
type Regression struct {
	Intercept float64
	Coef      []float64
}

// BuildWindows 构造滑动窗口训练集：第 i 行特征为 scaled[i-lookback:i]，目标为 scaled[i]
func BuildWindows(scaled []float64, lookback int) (*mat.Dense, []float64, error) {
	if lookback <= 0 {
		return nil, nil, fmt.Errorf("lookback window must be positive, got %d", lookback)
	}
	if len(scaled) <= lookback {
		return nil, nil, &InsufficientDataError{Have: len(scaled), Need: lookback + 1}
	}

	rows := len(scaled) - lookback
	features := make([]float64, 0, rows*lookback)
	targets := make([]float64, 0, rows)
	for i := lookback; i < len(scaled); i++ {
		features = append(features, scaled[i-lookback:i]...)
		targets = append(targets, scaled[i])
	}
	return mat.NewDense(rows, lookback, features), targets, nil
}

// FitOLS 带截距的最小二乘拟合。
// 对列中心化后用 SVD 求最小范数解，秩亏（常数序列、完全线性序列）时结果仍确定。
func FitOLS(x mat.Matrix, y []float64) (*Regression, error) {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.New("empty design matrix")
	}
	if rows != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows but %d targets", rows, len(y))
	}

	xMean := make([]float64, cols)
	for j := range xMean {
		xMean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	yMean := stat.Mean(y, nil)

	centered := mat.NewDense(rows, cols, nil)
	centered.Apply(func(_, j int, v float64) float64 { return v - xMean[j] }, x)
	yc := make([]float64, rows)
	for i, v := range y {
		yc[i] = v - yMean
	}

	var svd mat.SVD
	if !svd.Factorize(centered, mat.SVDThin) {
		return nil, errors.New("svd factorization failed")
	}

	coef := make([]float64, cols)
	if rank := svd.Rank(rankTolerance); rank > 0 {
		var beta mat.VecDense
		svd.SolveVecTo(&beta, mat.NewVecDense(rows, yc), rank)
		for j := range coef {
			coef[j] = beta.AtVec(j)
		}
	}

	return &Regression{
		Intercept: yMean - floats.Dot(coef, xMean),
		Coef:      coef,
	}, nil
}

// Predict 对一个窗口做单步预测
func (r *Regression) Predict(window []float64) float64 {
	return r.Intercept + floats.Dot(r.Coef, window)
}
