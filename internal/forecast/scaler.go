package forecast

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ScalingTransform 由观测到的最小/最大收盘价确定的 min-max 仿射变换
type ScalingTransform struct {
	Min float64
	Max float64
}

// NewScalingTransform 从价格序列计算缩放参数
func NewScalingTransform(prices []float64) (ScalingTransform, error) {
	if len(prices) == 0 {
		return ScalingTransform{}, errors.New("cannot fit scaling transform on empty prices")
	}
	return ScalingTransform{Min: floats.Min(prices), Max: floats.Max(prices)}, nil
}

// span 区间宽度为 0 时按 1 处理，所有价格映射到 0
func (t ScalingTransform) span() float64 {
	if d := t.Max - t.Min; d != 0 {
		return d
	}
	return 1
}

// Scale 原始价格 -> [0,1]
func (t ScalingTransform) Scale(price float64) float64 {
	return (price - t.Min) / t.span()
}

// Unscale [0,1] -> 原始价格
func (t ScalingTransform) Unscale(scaled float64) float64 {
	return scaled*t.span() + t.Min
}

// ScaleAll 对整段序列做缩放，返回新切片
func (t ScalingTransform) ScaleAll(prices []float64) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = t.Scale(p)
	}
	return out
}
