// Package backfill 批量拉取日线并写入本地存储
package backfill

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"price-forecast/internal/model"
	"price-forecast/internal/stockdata"
)

// 运行模式
const (
	ModeRebuild     = "rebuild"     // 拉取完整回溯区间
	ModeIncremental = "incremental" // 从已存储的最后日期往前重叠几天开始拉取
)

// incrementalOverlap 增量模式下与已有数据重叠的天数，用于覆盖修正过的日线
const incrementalOverlap = 7

// Store 写入目标
type Store interface {
	SaveBars(ctx context.Context, symbol string, bars []model.Bar) error
	LastDate(ctx context.Context, symbol string) (time.Time, bool, error)
}

// Options 运行参数
type Options struct {
	Mode          string
	Years         int
	RetryCount    int
	RetryInterval time.Duration
	Pause         time.Duration // 每只股票之间的间隔
	Now           func() time.Time
}

// Result 单只股票结果
type Result struct {
	Symbol   string
	Bars     int
	From     time.Time
	To       time.Time
	Attempts int
	Err      error
}

// Run 逐只股票拉取并写入，单只失败不影响其他股票
func Run(ctx context.Context, fetcher stockdata.Fetcher, store Store, symbols []string, opts Options, log *zap.Logger) ([]Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Mode == "" {
		opts.Mode = ModeIncremental
	}
	if opts.Mode != ModeRebuild && opts.Mode != ModeIncremental {
		return nil, fmt.Errorf("unknown backfill mode %q", opts.Mode)
	}
	if opts.Years <= 0 {
		opts.Years = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	log.Info("backfill start",
		zap.String("mode", opts.Mode),
		zap.String("source", fetcher.Name()),
		zap.Int("symbols", len(symbols)))

	startAt := time.Now()
	results := make([]Result, 0, len(symbols))
	for idx, symbol := range symbols {
		if idx > 0 {
			if err := wait(ctx, opts.Pause); err != nil {
				return results, err
			}
		}
		res := runSymbol(ctx, fetcher, store, stockdata.NormalizeSymbol(symbol), opts, log)
		results = append(results, res)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		if (idx+1)%10 == 0 {
			log.Info("backfill progress",
				zap.Int("done", idx+1),
				zap.Int("total", len(symbols)),
				zap.Duration("elapsed", time.Since(startAt).Truncate(time.Second)))
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info("backfill done",
		zap.Int("symbols", len(symbols)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(startAt).Truncate(time.Second)))
	return results, nil
}

func runSymbol(ctx context.Context, fetcher stockdata.Fetcher, store Store, symbol string, opts Options, log *zap.Logger) Result {
	end := opts.Now()
	res := Result{Symbol: symbol, From: end.AddDate(-opts.Years, 0, 0), To: end}

	if opts.Mode == ModeIncremental {
		last, ok, err := store.LastDate(ctx, symbol)
		if err != nil {
			res.Err = fmt.Errorf("read last date: %w", err)
			return res
		}
		if ok {
			if from := last.AddDate(0, 0, -incrementalOverlap); from.After(res.From) {
				res.From = from
			}
		}
	}

	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			log.Info("backfill retry", zap.String("symbol", symbol), zap.Int("attempt", attempt))
			if err := wait(ctx, opts.RetryInterval); err != nil {
				res.Err = err
				return res
			}
		}
		res.Attempts = attempt + 1

		bars, err := fetcher.FetchDailyBars(ctx, symbol, res.From, res.To)
		if err == nil {
			bars = stockdata.CleanBars(bars)
			err = store.SaveBars(ctx, symbol, bars)
		}
		if err == nil {
			res.Bars = len(bars)
			res.Err = nil
			log.Debug("backfill symbol", zap.String("symbol", symbol), zap.Int("bars", len(bars)))
			return res
		}
		res.Err = err
		log.Warn("backfill symbol failed", zap.String("symbol", symbol), zap.Error(err))
		if ctx.Err() != nil {
			return res
		}
	}
	return res
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
