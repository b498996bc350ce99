package stockdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"price-forecast/internal/model"
)

// Fetcher 日线数据源
type Fetcher interface {
	Name() string
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error)
}

// BarStore 日线本地存储
type BarStore interface {
	SaveBars(ctx context.Context, symbol string, bars []model.Bar) error
	LoadBars(ctx context.Context, symbol string, since time.Time) ([]model.Bar, error)
}

// HistoryService 历史数据获取：缓存 -> 数据源 -> 本地存储兜底
type HistoryService struct {
	fetcher Fetcher
	cache   CacheProvider
	store   BarStore
	years   int
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// HistoryOption 可选配置
type HistoryOption func(*HistoryService)

// WithStore 成功获取后写入本地存储，数据源失败时从中读取
func WithStore(store BarStore) HistoryOption {
	return func(s *HistoryService) { s.store = store }
}

// WithHistoryYears 回溯年数
func WithHistoryYears(years int) HistoryOption {
	return func(s *HistoryService) {
		if years > 0 {
			s.years = years
		}
	}
}

// WithCacheTTL 缓存有效期
func WithCacheTTL(ttl time.Duration) HistoryOption {
	return func(s *HistoryService) { s.ttl = ttl }
}

// WithLogger 设置日志
func WithLogger(log *zap.Logger) HistoryOption {
	return func(s *HistoryService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock 替换时钟，测试用
func WithClock(now func() time.Time) HistoryOption {
	return func(s *HistoryService) { s.now = now }
}

// NewHistoryService 创建历史数据服务
func NewHistoryService(fetcher Fetcher, cache CacheProvider, opts ...HistoryOption) *HistoryService {
	s := &HistoryService{
		fetcher: fetcher,
		cache:   cache,
		years:   10,
		ttl:     time.Hour,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeSymbol 统一代码格式
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *HistoryService) cacheKey(symbol string) string {
	return fmt.Sprintf("history:%s:%d:%s", symbol, s.years, s.now().Format(model.DateLayout))
}

// GetHistory 获取清洗后的日线，第二个返回值表示是否命中缓存。
// refresh 为 true 时跳过缓存，数据源失败直接返回错误
func (s *HistoryService) GetHistory(ctx context.Context, symbol string, refresh bool) ([]model.Bar, bool, error) {
	symbol = NormalizeSymbol(symbol)
	key := s.cacheKey(symbol)

	if !refresh && s.cache != nil {
		var cached []model.Bar
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, true, nil
		}
	}

	end := s.now()
	start := end.AddDate(-s.years, 0, 0)

	s.log.Info("fetching history",
		zap.String("symbol", symbol),
		zap.String("source", s.fetcher.Name()),
		zap.String("start", start.Format(model.DateLayout)))

	bars, err := s.fetcher.FetchDailyBars(ctx, symbol, start, end)
	if err == nil {
		bars = CleanBars(bars)
		if len(bars) == 0 {
			err = fmt.Errorf("%w for %s", ErrNoData, symbol)
		}
	}
	if err != nil {
		// 强制刷新要求拿到新数据，失败时不使用本地存储兜底
		if refresh {
			return nil, false, err
		}
		if stale := s.loadStored(ctx, symbol, start); len(stale) > 0 {
			s.log.Warn("data source failed, serving stored history",
				zap.String("symbol", symbol),
				zap.Int("bars", len(stale)),
				zap.Error(err))
			return stale, false, nil
		}
		return nil, false, err
	}

	if s.store != nil {
		if err := s.store.SaveBars(ctx, symbol, bars); err != nil {
			s.log.Warn("save history failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, bars, s.ttl); err != nil {
			s.log.Warn("cache history failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return bars, false, nil
}

func (s *HistoryService) loadStored(ctx context.Context, symbol string, since time.Time) []model.Bar {
	if s.store == nil || ctx.Err() != nil {
		return nil
	}
	bars, err := s.store.LoadBars(ctx, symbol, since)
	if err != nil {
		s.log.Warn("load stored history failed", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}
	return CleanBars(bars)
}

// StoreFetcher 把本地存储当作数据源，用于离线预测
type StoreFetcher struct {
	Store BarStore
}

func (f StoreFetcher) Name() string { return "sqlite" }

func (f StoreFetcher) FetchDailyBars(ctx context.Context, symbol string, start, _ time.Time) ([]model.Bar, error) {
	bars, err := f.Store.LoadBars(ctx, symbol, start)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}
	return bars, nil
}
