package model

import "time"

// PredictTaskRequest 批量预测任务请求
type PredictTaskRequest struct {
	Symbols   []string `json:"symbols" binding:"required"`
	DaysAhead *int     `json:"days_ahead"`
	RequestID string   `json:"request_id"`
}

// TaskResult 单只股票的预测结果
type TaskResult struct {
	Symbol      string           `json:"symbol"`
	Predictions []PredictionItem `json:"predictions"`
	StockInfo   StockInfo        `json:"stock_info"`
}

// PredictTaskStatus 任务状态
type PredictTaskStatus struct {
	TaskID    string       `json:"task_id"`
	Status    string       `json:"status"`
	Current   string       `json:"current_symbol,omitempty"`
	Done      int          `json:"done"`
	Total     int          `json:"total"`
	Results   []TaskResult `json:"results,omitempty"`
	Error     string       `json:"error,omitempty"`
	ExpiresAt time.Time    `json:"expires_at"`
}
