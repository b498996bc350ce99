package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"price-forecast/internal/app"
	"price-forecast/internal/config"
	"price-forecast/internal/handler"
	"price-forecast/internal/holiday"
	"price-forecast/internal/logger"
	"price-forecast/internal/scheduler"
	"price-forecast/internal/service"
)

func main() {
	// 手动加载 .env 文件，系统环境变量优先级更低
	config.LoadDotEnv(".env", ".env.local")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zl, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, zl, app.Options{})
	if err != nil {
		zl.Fatal("初始化服务失败", zap.Error(err))
	}
	defer a.Close()

	tasks := service.NewTaskManager(a.Predictor, cfg.Server.RequestTimeout, zl)

	if cfg.Scheduler.Enabled {
		cal := holiday.NewCalendar(nil)
		n, err := cal.LoadCustomHolidays(cfg.Scheduler.HolidaysFile)
		if err != nil {
			zl.Warn("加载节假日配置失败", zap.Error(err))
		} else if n > 0 {
			zl.Info("加载自定义节假日", zap.Int("count", n))
		}

		sched, err := scheduler.New(a.History, a.Stocks.Symbols(), cal, scheduler.Options{
			Spec:          cfg.Scheduler.RefreshCron,
			RetryCount:    cfg.Scheduler.RetryCount,
			RetryInterval: cfg.Scheduler.RetryInterval,
			Pause:         time.Second,
		}, zl)
		if err != nil {
			zl.Fatal("启动定时任务失败", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	h := handler.New(a.Predictor, tasks, a.Stocks, handler.Options{
		DefaultDaysAhead: cfg.Forecast.DefaultDaysAhead,
		RequestTimeout:   cfg.Server.RequestTimeout,
	}, zl)
	r := handler.NewRouter(h, handler.RouterOptions{
		AllowOrigins: cfg.Server.AllowOrigins,
		APIToken:     cfg.Server.APIToken,
		StaticDir:    cfg.Server.StaticDir,
	}, zl)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("服务启动", zap.String("port", cfg.Server.Port), zap.Int("stocks", len(a.Stocks.Symbols())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("关闭服务失败", zap.Error(err))
	}
}
