package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"price-forecast/internal/forecast"
	"price-forecast/internal/model"
	"price-forecast/internal/stockdata"
)

var (
	// ErrSymbolRequired 未提供股票代码
	ErrSymbolRequired = errors.New("stock symbol is required")
	// ErrHorizonTooLarge 预测天数超过上限
	ErrHorizonTooLarge = errors.New("days_ahead exceeds the allowed maximum")
)

// HistoryGetter 历史数据来源，由 stockdata.HistoryService 实现
type HistoryGetter interface {
	GetHistory(ctx context.Context, symbol string, refresh bool) ([]model.Bar, bool, error)
}

// PredictorConfig 预测参数
type PredictorConfig struct {
	Lookback       int
	MaxDaysAhead   int
	HistoricalTail int // 响应中返回的历史日线条数
}

// Predictor 单只股票预测：取历史 -> 拟合 -> 递推
type Predictor struct {
	history HistoryGetter
	stocks  *stockdata.StockList
	cfg     PredictorConfig
	log     *zap.Logger
}

// NewPredictor 创建预测服务
func NewPredictor(history HistoryGetter, stocks *stockdata.StockList, cfg PredictorConfig, log *zap.Logger) *Predictor {
	if cfg.Lookback <= 0 {
		cfg.Lookback = forecast.DefaultLookback
	}
	if cfg.MaxDaysAhead <= 0 {
		cfg.MaxDaysAhead = 365
	}
	if cfg.HistoricalTail <= 0 {
		cfg.HistoricalTail = 365
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Predictor{history: history, stocks: stocks, cfg: cfg, log: log}
}

// ValidateRequest 在取数之前检查参数
func (p *Predictor) ValidateRequest(symbol string, daysAhead int) error {
	if strings.TrimSpace(symbol) == "" {
		return ErrSymbolRequired
	}
	if daysAhead <= 0 {
		return &forecast.InvalidHorizonError{Horizon: daysAhead}
	}
	if daysAhead > p.cfg.MaxDaysAhead {
		return fmt.Errorf("%w: %d > %d", ErrHorizonTooLarge, daysAhead, p.cfg.MaxDaysAhead)
	}
	return nil
}

// Predict 预测 symbol 未来 daysAhead 天的收盘价
func (p *Predictor) Predict(ctx context.Context, symbol string, daysAhead int) (*model.PredictResponse, error) {
	if err := p.ValidateRequest(symbol, daysAhead); err != nil {
		return nil, err
	}
	symbol = stockdata.NormalizeSymbol(symbol)
	started := time.Now()

	bars, fromCache, err := p.history.GetHistory(ctx, symbol, false)
	if err != nil {
		return nil, err
	}
	series, err := stockdata.SeriesFromBars(bars)
	if err != nil {
		return nil, err
	}

	f, err := forecast.New(p.cfg.Lookback)
	if err != nil {
		return nil, err
	}
	points, err := f.FitAndForecast(series, daysAhead)
	if err != nil {
		return nil, err
	}

	p.log.Info("forecast done",
		zap.String("symbol", symbol),
		zap.Int("bars", len(bars)),
		zap.Int("days_ahead", daysAhead),
		zap.Bool("from_cache", fromCache),
		zap.Duration("elapsed", time.Since(started)))

	return &model.PredictResponse{
		Historical:  model.NewHistoricalBars(model.Tail(bars, p.cfg.HistoricalTail)),
		Predictions: model.NewPredictionItems(points),
		StockInfo:   model.NewStockInfo(symbol, p.stockName(symbol), bars),
		Success:     true,
	}, nil
}

// History 返回清洗后的历史日线
func (p *Predictor) History(ctx context.Context, symbol string, refresh bool) (*model.HistoryResponse, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, ErrSymbolRequired
	}
	symbol = stockdata.NormalizeSymbol(symbol)

	bars, fromCache, err := p.history.GetHistory(ctx, symbol, refresh)
	if err != nil {
		return nil, err
	}
	return &model.HistoryResponse{
		Historical: model.NewHistoricalBars(model.Tail(bars, p.cfg.HistoricalTail)),
		StockInfo:  model.NewStockInfo(symbol, p.stockName(symbol), bars),
		FromCache:  fromCache,
	}, nil
}

func (p *Predictor) stockName(symbol string) string {
	if p.stocks == nil {
		return ""
	}
	if s, ok := p.stocks.LookupStock(symbol); ok {
		return s.Name
	}
	return ""
}
