package forecast

import "fmt"

// InsufficientDataError 序列长度不足以构造一个滑动窗口样本
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d prices, have %d", e.Need, e.Have)
}

// InvalidHorizonError 预测天数必须为正
type InvalidHorizonError struct {
	Horizon int
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("invalid horizon %d: must be a positive number of days", e.Horizon)
}
