package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"price-forecast/internal/model"
)

// Config 应用配置
type Config struct {
	Server struct {
		Port           string        `yaml:"port"`
		AllowOrigins   []string      `yaml:"allow_origins"`
		StaticDir      string        `yaml:"static_dir"`
		APIToken       string        `yaml:"api_token"` // 为空时不校验
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"server"`

	Forecast struct {
		Lookback         int `yaml:"lookback"`
		DefaultDaysAhead int `yaml:"default_days_ahead"`
		MaxDaysAhead     int `yaml:"max_days_ahead"`
		HistoryYears     int `yaml:"history_years"`
		HistoricalTail   int `yaml:"historical_tail"` // 响应中返回的历史天数
	} `yaml:"forecast"`

	Yahoo struct {
		BaseURL string        `yaml:"base_url"`
		Proxy   string        `yaml:"proxy"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"yahoo"`

	// Redis 地址为空时使用进程内缓存
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Cache struct {
		TTL  time.Duration `yaml:"ttl"`
		Size int           `yaml:"size"`
	} `yaml:"cache"`

	Store struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`

	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`

	// 收盘后预热历史数据缓存
	Scheduler struct {
		Enabled       bool          `yaml:"enabled"`
		RefreshCron   string        `yaml:"refresh_cron"` // 带秒的 cron 表达式
		RetryCount    int           `yaml:"retry_count"`
		RetryInterval time.Duration `yaml:"retry_interval"`
		HolidaysFile  string        `yaml:"holidays_file"`
	} `yaml:"scheduler"`

	// 为空时使用内置股票列表
	Stocks []model.Stock `yaml:"stocks"`
}

// Default 默认配置
func Default() *Config {
	cfg := &Config{}

	cfg.Server.Port = "5000"
	cfg.Server.AllowOrigins = []string{"*"}
	cfg.Server.StaticDir = "static"
	cfg.Server.RequestTimeout = 60 * time.Second

	cfg.Forecast.Lookback = 60
	cfg.Forecast.DefaultDaysAhead = 30
	cfg.Forecast.MaxDaysAhead = 365
	cfg.Forecast.HistoryYears = 10
	cfg.Forecast.HistoricalTail = 365

	cfg.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	cfg.Yahoo.Timeout = 30 * time.Second

	cfg.Cache.TTL = time.Hour
	cfg.Cache.Size = 256

	cfg.Store.SQLitePath = "data/prices.db"

	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 7
	cfg.Log.MaxAgeDays = 30

	cfg.Scheduler.Enabled = true
	cfg.Scheduler.RefreshCron = "0 30 16 * * 1-5"
	cfg.Scheduler.RetryCount = 3
	cfg.Scheduler.RetryInterval = 10 * time.Minute

	return cfg
}

// Load 读取 YAML 配置（文件不存在时只用默认值），再应用环境变量覆盖
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvString("PORT", c.Server.Port)
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		c.Server.AllowOrigins = splitList(v)
	}
	c.Server.StaticDir = getEnvString("STATIC_DIR", c.Server.StaticDir)
	c.Server.APIToken = getEnvString("API_TOKEN", c.Server.APIToken)
	c.Server.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout)

	c.Forecast.Lookback = getEnvInt("LOOKBACK_WINDOW", c.Forecast.Lookback)
	c.Forecast.DefaultDaysAhead = getEnvInt("DEFAULT_DAYS_AHEAD", c.Forecast.DefaultDaysAhead)
	c.Forecast.MaxDaysAhead = getEnvInt("MAX_DAYS_AHEAD", c.Forecast.MaxDaysAhead)
	c.Forecast.HistoryYears = getEnvInt("HISTORY_YEARS", c.Forecast.HistoryYears)
	c.Forecast.HistoricalTail = getEnvInt("HISTORICAL_TAIL", c.Forecast.HistoricalTail)

	c.Yahoo.BaseURL = getEnvString("YAHOO_BASE_URL", c.Yahoo.BaseURL)
	c.Yahoo.Proxy = getEnvString("HTTPS_PROXY", c.Yahoo.Proxy)
	c.Yahoo.Timeout = getEnvDuration("YAHOO_TIMEOUT", c.Yahoo.Timeout)

	c.Redis.Addr = getEnvString("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvString("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Cache.TTL = getEnvDuration("CACHE_TTL", c.Cache.TTL)
	c.Cache.Size = getEnvInt("CACHE_SIZE", c.Cache.Size)

	c.Store.SQLitePath = getEnvString("SQLITE_PATH", c.Store.SQLitePath)

	c.Log.Level = getEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnvString("LOG_FILE", c.Log.File)

	c.Scheduler.Enabled = getEnvBool("SCHEDULER_ENABLED", c.Scheduler.Enabled)
	c.Scheduler.RefreshCron = getEnvString("REFRESH_CRON", c.Scheduler.RefreshCron)
	c.Scheduler.RetryCount = getEnvInt("REFRESH_RETRY_COUNT", c.Scheduler.RetryCount)
	c.Scheduler.RetryInterval = getEnvDuration("REFRESH_RETRY_INTERVAL", c.Scheduler.RetryInterval)
	c.Scheduler.HolidaysFile = getEnvString("HOLIDAYS_FILE", c.Scheduler.HolidaysFile)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Forecast.Lookback <= 0 {
		return fmt.Errorf("forecast.lookback must be positive")
	}
	if c.Forecast.DefaultDaysAhead <= 0 {
		return fmt.Errorf("forecast.default_days_ahead must be positive")
	}
	if c.Forecast.MaxDaysAhead < c.Forecast.DefaultDaysAhead {
		return fmt.Errorf("forecast.max_days_ahead must not be below default_days_ahead")
	}
	if c.Forecast.HistoryYears <= 0 {
		return fmt.Errorf("forecast.history_years must be positive")
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive")
	}
	return nil
}

// LoadDotEnv 加载 .env 风格文件到环境变量，文件不存在时忽略
func LoadDotEnv(files ...string) {
	for _, name := range files {
		file, err := os.Open(name)
		if err != nil {
			continue
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				os.Setenv(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
			}
		}
		file.Close()
	}
}

// 辅助函数
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
