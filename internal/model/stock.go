package model

import "time"

// Stock 股票基本信息
type Stock struct {
	Symbol string `json:"symbol" yaml:"symbol"` // Yahoo 代码，如 RELIANCE.NS
	Name   string `json:"name" yaml:"name"`
	Ticker string `json:"ticker" yaml:"ticker"` // 交易所代码
}

// Bar 日线数据
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PricePoint 收盘价序列中的一个点
type PricePoint struct {
	Date  time.Time
	Close float64
}

// ForecastPoint 预测点
type ForecastPoint struct {
	Date           time.Time
	PredictedClose float64
}

// DateLayout 对外统一的日期格式
const DateLayout = "2006-01-02"

// Day 截断到自然日（UTC）
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
