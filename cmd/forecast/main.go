package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"price-forecast/internal/config"
	"price-forecast/internal/logger"
)

var (
	configPath string

	backfillMode  string
	backfillRetry int
	backfillPause string

	predictDays     int
	predictLookback int
	predictOffline  bool

	cfg *config.Config
	zl  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "forecast",
	Short:         "Stock price forecasting tools",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv(".env", ".env.local")

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		zl, err = logger.New(logger.Options{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zl != nil {
			_ = zl.Sync()
		}
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill [symbols...]",
	Short: "Fetch daily history into the local SQLite store (all configured stocks by default)",
	RunE:  runBackfill,
}

var predictCmd = &cobra.Command{
	Use:   "predict SYMBOL",
	Short: "Forecast closing prices for one stock",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredict,
}

var stocksCmd = &cobra.Command{
	Use:   "stocks [keyword]",
	Short: "List configured stocks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStocks,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the local SQLite store holds",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "config file path")

	backfillCmd.Flags().StringVar(&backfillMode, "mode", "incremental", "incremental or rebuild")
	backfillCmd.Flags().IntVar(&backfillRetry, "retry", 3, "retries per symbol")
	backfillCmd.Flags().StringVar(&backfillPause, "pause", "1s", "pause between symbols")

	predictCmd.Flags().IntVarP(&predictDays, "days", "d", 0, "days ahead (default from config)")
	predictCmd.Flags().IntVar(&predictLookback, "lookback", 0, "lookback window (default from config)")
	predictCmd.Flags().BoolVar(&predictOffline, "offline", false, "use only the local SQLite store")

	rootCmd.AddCommand(backfillCmd, predictCmd, stocksCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
