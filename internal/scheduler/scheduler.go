// Package scheduler 收盘后刷新历史数据，预热缓存并写入本地存储
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"price-forecast/internal/holiday"
	"price-forecast/internal/model"
)

// Refresher 强制刷新单只股票历史数据，由 stockdata.HistoryService 实现
type Refresher interface {
	GetHistory(ctx context.Context, symbol string, refresh bool) ([]model.Bar, bool, error)
}

// Options 调度配置
type Options struct {
	Spec          string        // 带秒的 cron 表达式
	RetryCount    int           // 整轮失败后的重试次数
	RetryInterval time.Duration // 重试间隔
	Pause         time.Duration // 每只股票之间的间隔，避免被限流
}

// Scheduler 定时刷新任务
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	symbols   []string
	calendar  *holiday.Calendar
	opts      Options
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex // 同一时间只跑一轮
	now    func() time.Time
}

// New 创建调度器并注册刷新任务
func New(refresher Refresher, symbols []string, calendar *holiday.Calendar, opts Options, log *zap.Logger) (*Scheduler, error) {
	if calendar == nil {
		calendar = holiday.NewCalendar(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RetryCount < 0 {
		opts.RetryCount = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(calendar.Location())),
		refresher: refresher,
		symbols:   symbols,
		calendar:  calendar,
		opts:      opts,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(opts.Spec, s.job); err != nil {
		cancel()
		return nil, fmt.Errorf("register refresh task %q: %w", opts.Spec, err)
	}
	return s, nil
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started",
		zap.String("spec", s.opts.Spec),
		zap.Int("symbols", len(s.symbols)),
		zap.Int("retry_count", s.opts.RetryCount),
		zap.Duration("retry_interval", s.opts.RetryInterval))
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) job() {
	if !s.calendar.IsTradingDay(s.now()) {
		s.log.Info("not a trading day, skip refresh")
		return
	}
	s.RefreshWithRetry(s.ctx)
}

// RefreshWithRetry 执行刷新，失败时按间隔重试
func (s *Scheduler) RefreshWithRetry(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for i := 0; i <= s.opts.RetryCount; i++ {
		if i > 0 {
			s.log.Info("retrying history refresh", zap.Int("attempt", i))
		}
		if err = s.RefreshAll(ctx); err == nil {
			return nil
		}
		s.log.Warn("history refresh failed", zap.Error(err))
		if i < s.opts.RetryCount {
			if werr := sleep(ctx, s.opts.RetryInterval); werr != nil {
				return werr
			}
		}
	}
	s.log.Error("history refresh gave up", zap.Int("retries", s.opts.RetryCount), zap.Error(err))
	return err
}

// RefreshAll 逐只刷新；失败数量超过一半时返回错误以触发重试
func (s *Scheduler) RefreshAll(ctx context.Context) error {
	if len(s.symbols) == 0 {
		return nil
	}
	start := time.Now()
	failed := 0

	for i, symbol := range s.symbols {
		if i > 0 {
			if err := sleep(ctx, s.opts.Pause); err != nil {
				return err
			}
		}
		bars, _, err := s.refresher.GetHistory(ctx, symbol, true)
		if err != nil {
			failed++
			s.log.Warn("refresh symbol failed", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		s.log.Debug("refresh symbol done", zap.String("symbol", symbol), zap.Int("bars", len(bars)))
	}

	s.log.Info("history refresh finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("ok", len(s.symbols)-failed),
		zap.Int("failed", failed))

	if failed > len(s.symbols)/2 {
		return fmt.Errorf("too many failures: %d/%d", failed, len(s.symbols))
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
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
