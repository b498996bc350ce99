// Package app 组装数据源、缓存、存储与预测服务，供 HTTP 服务和命令行共用
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"price-forecast/internal/cache"
	"price-forecast/internal/config"
	"price-forecast/internal/service"
	"price-forecast/internal/stockdata"
	"price-forecast/internal/store"
)

// Options 组装参数
type Options struct {
	Offline  bool // 只使用本地 SQLite 数据
	Lookback int  // >0 时覆盖配置
}

// App 运行期依赖
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Stocks    *stockdata.StockList
	Store     *store.Store // 打开失败时为 nil
	History   *stockdata.HistoryService
	Predictor *service.Predictor

	closers []func() error
}

// Build 按配置组装依赖
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	a := &App{
		Config: cfg,
		Log:    log,
		Stocks: stockdata.NewStockList(cfg.Stocks),
	}

	if cfg.Store.SQLitePath != "" {
		st, err := store.Open(cfg.Store.SQLitePath)
		if err != nil {
			if opts.Offline {
				return nil, fmt.Errorf("open store: %w", err)
			}
			log.Warn("sqlite store unavailable, running without it", zap.Error(err))
		} else {
			a.Store = st
			a.closers = append(a.closers, st.Close)
		}
	}
	if opts.Offline && a.Store == nil {
		return nil, errors.New("offline mode requires store.sqlite_path")
	}

	provider, err := a.cacheProvider(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var fetcher stockdata.Fetcher
	if opts.Offline {
		fetcher = stockdata.StoreFetcher{Store: a.Store}
	} else {
		fetcher = stockdata.NewYahooFetcher(cfg.Yahoo.BaseURL, cfg.Yahoo.Proxy, cfg.Yahoo.Timeout)
	}

	historyOpts := []stockdata.HistoryOption{
		stockdata.WithHistoryYears(cfg.Forecast.HistoryYears),
		stockdata.WithCacheTTL(cfg.Cache.TTL),
		stockdata.WithLogger(log),
	}
	if a.Store != nil && !opts.Offline {
		historyOpts = append(historyOpts, stockdata.WithStore(a.Store))
	}
	a.History = stockdata.NewHistoryService(fetcher, provider, historyOpts...)

	lookback := cfg.Forecast.Lookback
	if opts.Lookback > 0 {
		lookback = opts.Lookback
	}
	a.Predictor = service.NewPredictor(a.History, a.Stocks, service.PredictorConfig{
		Lookback:       lookback,
		MaxDaysAhead:   cfg.Forecast.MaxDaysAhead,
		HistoricalTail: cfg.Forecast.HistoricalTail,
	}, log)
	return a, nil
}

// cacheProvider 配置了 Redis 且可连通时使用 Redis，否则使用进程内 LRU
func (a *App) cacheProvider(ctx context.Context) (stockdata.CacheProvider, error) {
	cfg := a.Config
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			a.Log.Info("using redis cache", zap.String("addr", cfg.Redis.Addr))
			a.closers = append(a.closers, rc.Close)
			return rc, nil
		}
		a.Log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
	}
	return stockdata.NewInMemoryCacheProvider(cfg.Cache.Size)
}

// Close 释放资源
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
