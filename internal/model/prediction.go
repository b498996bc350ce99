package model

// PredictRequest 预测请求
type PredictRequest struct {
	Symbol    string `json:"symbol"`
	DaysAhead *int   `json:"days_ahead"` // 未传时使用默认值
}

// HistoricalBar 历史日线（字段名与前端保持一致）
type HistoricalBar struct {
	Date   string  `json:"Date"`
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume float64 `json:"Volume"`
}

// PredictionItem 单日预测
type PredictionItem struct {
	Date           string  `json:"Date"`
	PredictedClose float64 `json:"Predicted_Close"`
}

// StockInfo 数据概况
type StockInfo struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name,omitempty"`
	DataPoints int    `json:"data_points"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// PredictResponse 预测响应
type PredictResponse struct {
	Historical  []HistoricalBar  `json:"historical"`
	Predictions []PredictionItem `json:"predictions"`
	StockInfo   StockInfo        `json:"stock_info"`
	Success     bool             `json:"success"`
}

// HistoryResponse 历史数据响应
type HistoryResponse struct {
	Historical []HistoricalBar `json:"historical"`
	StockInfo  StockInfo       `json:"stock_info"`
	FromCache  bool            `json:"fromCache"`
}

// NewHistoricalBars 转换为对外格式
func NewHistoricalBars(bars []Bar) []HistoricalBar {
	out := make([]HistoricalBar, len(bars))
	for i, b := range bars {
		out[i] = HistoricalBar{
			Date:   b.Date.Format(DateLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return out
}

// NewPredictionItems 转换为对外格式
func NewPredictionItems(points []ForecastPoint) []PredictionItem {
	out := make([]PredictionItem, len(points))
	for i, p := range points {
		out[i] = PredictionItem{
			Date:           p.Date.Format(DateLayout),
			PredictedClose: p.PredictedClose,
		}
	}
	return out
}

// NewStockInfo 根据完整历史生成概况
func NewStockInfo(symbol, name string, bars []Bar) StockInfo {
	info := StockInfo{Symbol: symbol, Name: name, DataPoints: len(bars)}
	if len(bars) > 0 {
		info.StartDate = bars[0].Date.Format(DateLayout)
		info.EndDate = bars[len(bars)-1].Date.Format(DateLayout)
	}
	return info
}

// Tail 取最后 n 条
func Tail(bars []Bar, n int) []Bar {
	if n <= 0 || len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}
