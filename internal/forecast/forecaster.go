// Package forecast 滑动窗口线性回归预测。
//
// 每次调用都会重新计算缩放参数并重新拟合，调用之间不保留任何状态，
// 同一个 Forecaster 可以被多个 goroutine 同时使用。
package forecast

import (
	"fmt"

	"price-forecast/internal/model"
)

// DefaultLookback 默认回看天数
const DefaultLookback = 60

// Forecaster 预测器，仅持有回看窗口配置
type Forecaster struct {
	lookback int
}

// New 创建预测器
func New(lookback int) (*Forecaster, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("lookback window must be positive, got %d", lookback)
	}
	return &Forecaster{lookback: lookback}, nil
}

// Lookback 回看窗口长度
func (f *Forecaster) Lookback() int {
	return f.lookback
}

// FitAndForecast 在 series 上拟合并向后递推 horizon 天。
// 每一步的缩放后预测值会作为下一步窗口的最后一个元素。
func (f *Forecaster) FitAndForecast(series []model.PricePoint, horizon int) ([]model.ForecastPoint, error) {
	if len(series) <= f.lookback {
		return nil, &InsufficientDataError{Have: len(series), Need: f.lookback + 1}
	}
	if horizon <= 0 {
		return nil, &InvalidHorizonError{Horizon: horizon}
	}

	closes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Close
	}

	scaler, err := NewScalingTransform(closes)
	if err != nil {
		return nil, err
	}
	scaled := scaler.ScaleAll(closes)

	x, y, err := BuildWindows(scaled, f.lookback)
	if err != nil {
		return nil, err
	}
	reg, err := FitOLS(x, y)
	if err != nil {
		return nil, fmt.Errorf("fit regression: %w", err)
	}

	window := make([]float64, f.lookback)
	copy(window, scaled[len(scaled)-f.lookback:])

	lastDate := series[len(series)-1].Date
	points := make([]model.ForecastPoint, 0, horizon)
	for step := 1; step <= horizon; step++ {
		next := reg.Predict(window)
		points = append(points, model.ForecastPoint{
			Date:           lastDate.AddDate(0, 0, step),
			PredictedClose: scaler.Unscale(next),
		})

		copy(window, window[1:])
		window[len(window)-1] = next
	}

	return points, nil
}
