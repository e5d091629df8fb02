package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashesh8500/fractal/config"
	"github.com/ashesh8500/fractal/internal/log"
	"github.com/ashesh8500/fractal/marketdata"
)

var rootCmd = &cobra.Command{
	Use:   "fractal",
	Short: "A portfolio backtesting engine with pluggable strategies",
	Long: `Fractal simulates how a trading strategy would have performed against
historical price series.

It provides tools for:
  - Walk-forward backtests over daily OHLCV data
  - Pluggable rebalancing strategies (momentum, mean reversion, bollinger, ...)
  - Ledger accounting with commission and slippage costs
  - Performance and risk metrics against a benchmark
  - A SQLite journal of past runs with CSV export`,
}

var (
	cfgPath  string
	logLevel string
	verbose  bool
)

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "console logging with debug level")
}

// loadConfig returns the file config when --config was given, otherwise the
// defaults.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

// newLogger builds the process logger from the global flags.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return log.New("debug", true)
	}
	return log.New(logLevel, false)
}

// buildProvider wires the configured market data provider, wrapping it in
// the Parquet cache when a cache dir is set.
func buildProvider(cfg *config.Config, logger *zap.Logger) (marketdata.Provider, error) {
	var provider marketdata.Provider
	switch cfg.Data.Provider {
	case "alpaca":
		provider = marketdata.NewAlpaca(marketdata.AlpacaOpts{
			Key:     cfg.Data.AlpacaKey,
			Secret:  cfg.Data.AlpacaSecret,
			BaseURL: cfg.Data.AlpacaBaseURL,
			Feed:    cfg.Data.AlpacaFeed,
		})
	case "csv":
		provider = marketdata.NewCSVDir(cfg.Data.CSVDir)
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.Data.Provider)
	}

	if cfg.Data.CacheDir != "" {
		provider = marketdata.NewCache(provider, cfg.Data.CacheDir, logger.Named("cache"))
	}
	return provider, nil
}
