package stockdata

import (
	"fmt"
	"math"
	"sort"

	"price-forecast/internal/model"
)

// CleanBars 丢弃含非有限值的行，按日期排序，同一日期保留最后出现的一条
func CleanBars(bars []model.Bar) []model.Bar {
	valid := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if !finite(b.Open, b.High, b.Low, b.Close, b.Volume) {
			continue
		}
		b.Date = model.Day(b.Date)
		valid = append(valid, b)
	}

	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Date.Before(valid[j].Date) })

	out := valid[:0]
	for _, b := range valid {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// SeriesFromBars 取收盘价构造预测输入序列，要求日期严格递增
func SeriesFromBars(bars []model.Bar) ([]model.PricePoint, error) {
	series := make([]model.PricePoint, len(bars))
	for i, b := range bars {
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("price series not strictly increasing at %s", b.Date.Format(model.DateLayout))
		}
		series[i] = model.PricePoint{Date: b.Date, Close: b.Close}
	}
	return series, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
