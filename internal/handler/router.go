package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions 路由配置
type RouterOptions struct {
	AllowOrigins []string
	APIToken     string
	StaticDir    string // 为空或不存在时不提供静态页面
}

// NewRouter 注册所有路由
func NewRouter(h *Handler, opts RouterOptions, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))

	r.GET("/healthz", h.Health)

	api := r.Group("/api", AuthMiddleware(opts.APIToken))
	{
		// 股票相关
		api.GET("/stocks", h.GetStocks)
		api.GET("/stocks/:symbol/history", h.GetHistory)

		// 预测相关
		api.POST("/predict", h.Predict)
		api.POST("/predict/tasks", h.CreatePredictTask)
		api.GET("/predict/tasks/:task_id", h.GetPredictTask)
		api.DELETE("/predict/tasks/:task_id", h.CancelPredictTask)
	}

	if opts.StaticDir != "" {
		if fi, err := os.Stat(opts.StaticDir); err == nil && fi.IsDir() {
			// index.html 及其他静态资源
			r.NoRoute(gin.WrapH(http.FileServer(http.Dir(opts.StaticDir))))
		}
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
