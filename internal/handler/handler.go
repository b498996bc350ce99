// Package handler HTTP 接口
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"price-forecast/internal/forecast"
	"price-forecast/internal/service"
	"price-forecast/internal/stockdata"
)

// Options 接口参数
type Options struct {
	DefaultDaysAhead int
	RequestTimeout   time.Duration
}

// Handler 持有各接口依赖的服务
type Handler struct {
	predictor *service.Predictor
	tasks     *service.TaskManager
	stocks    *stockdata.StockList
	opts      Options
	log       *zap.Logger
}

// New 创建 Handler
func New(predictor *service.Predictor, tasks *service.TaskManager, stocks *stockdata.StockList, opts Options, log *zap.Logger) *Handler {
	if opts.DefaultDaysAhead <= 0 {
		opts.DefaultDaysAhead = 30
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{predictor: predictor, tasks: tasks, stocks: stocks, opts: opts, log: log}
}

// Health 存活检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestContext 请求级超时
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.opts.RequestTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.opts.RequestTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "success": false})
}

// writeError 按错误类型映射状态码
func (h *Handler) writeError(c *gin.Context, err error, symbol string) {
	var (
		insufficient *forecast.InsufficientDataError
		horizon      *forecast.InvalidHorizonError
	)
	status, msg := http.StatusInternalServerError, err.Error()

	switch {
	case errors.Is(err, service.ErrSymbolRequired):
		status, msg = http.StatusBadRequest, "Stock symbol is required"
	case errors.As(err, &horizon), errors.Is(err, service.ErrHorizonTooLarge), errors.Is(err, service.ErrTooManySymbols):
		status = http.StatusBadRequest
	case errors.Is(err, stockdata.ErrNoData):
		status, msg = http.StatusNotFound, fmt.Sprintf("No data found for %s", symbol)
	case errors.Is(err, service.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.As(err, &insufficient):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "request timed out"
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.String("symbol", symbol), zap.Error(err))
	}
	abortWithError(c, status, msg)
}
