// Package config loads and validates the run configuration for the fractal
// CLI: data source, backtest parameters, strategy settings, and journaling.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ashesh8500/fractal/backtest"
	"github.com/ashesh8500/fractal/strategy"
)

// Config represents the complete backtest run configuration.
type Config struct {
	Data     DataConfig         `json:"data" yaml:"data"`
	Backtest BacktestConfig     `json:"backtest" yaml:"backtest"`
	Strategy StrategyConfig     `json:"strategy" yaml:"strategy"`
	Holdings map[string]float64 `json:"holdings" yaml:"holdings"`
	Journal  JournalConfig      `json:"journal" yaml:"journal"`
}

// DataConfig selects and parameterizes the market data provider.
type DataConfig struct {
	Provider string `json:"provider" yaml:"provider"` // "alpaca" or "csv"
	CSVDir   string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`

	AlpacaKey     string `json:"alpaca_key,omitempty" yaml:"alpaca_key,omitempty"`
	AlpacaSecret  string `json:"alpaca_secret,omitempty" yaml:"alpaca_secret,omitempty"`
	AlpacaBaseURL string `json:"alpaca_base_url,omitempty" yaml:"alpaca_base_url,omitempty"`
	AlpacaFeed    string `json:"alpaca_feed,omitempty" yaml:"alpaca_feed,omitempty"`
}

// BacktestConfig carries the run window and cost model. Dates are YYYY-MM-DD.
type BacktestConfig struct {
	Start          string  `json:"start" yaml:"start"`
	End            string  `json:"end" yaml:"end"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	Commission     float64 `json:"commission" yaml:"commission"`
	Slippage       float64 `json:"slippage" yaml:"slippage"`
	Benchmark      string  `json:"benchmark" yaml:"benchmark"`
}

// StrategyConfig selects and parameterizes the strategy.
type StrategyConfig struct {
	Name               string             `json:"name" yaml:"name"`
	Parameters         map[string]float64 `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RebalanceFrequency string             `json:"rebalance_frequency" yaml:"rebalance_frequency"`
	RiskTolerance      float64            `json:"risk_tolerance" yaml:"risk_tolerance"`
	MaxPositionSize    float64            `json:"max_position_size" yaml:"max_position_size"`
}

// JournalConfig controls run persistence.
type JournalConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	switch c.Data.Provider {
	case "alpaca":
		if c.Data.AlpacaKey == "" || c.Data.AlpacaSecret == "" {
			return fmt.Errorf("data.alpaca_key and data.alpaca_secret required for alpaca provider")
		}
	case "csv":
		if c.Data.CSVDir == "" {
			return fmt.Errorf("data.csv_dir required for csv provider")
		}
	default:
		return fmt.Errorf("data.provider must be 'alpaca' or 'csv', got %q", c.Data.Provider)
	}

	if _, err := c.BacktestRun(); err != nil {
		return err
	}

	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if _, err := strategy.ByName(c.Strategy.Name); err != nil {
		return err
	}
	if c.Strategy.RiskTolerance < 0 || c.Strategy.RiskTolerance > 1 {
		return fmt.Errorf("strategy.risk_tolerance must be between 0 and 1")
	}
	if c.Strategy.MaxPositionSize < 0.1 || c.Strategy.MaxPositionSize > 1 {
		return fmt.Errorf("strategy.max_position_size must be between 0.1 and 1")
	}
	switch strings.ToLower(c.Strategy.RebalanceFrequency) {
	case "daily", "weekly", "monthly", "quarterly":
	default:
		return fmt.Errorf("strategy.rebalance_frequency must be daily, weekly, monthly or quarterly")
	}

	if len(c.Holdings) == 0 {
		return fmt.Errorf("holdings must name at least one symbol")
	}
	for sym, shares := range c.Holdings {
		if shares < 0 {
			return fmt.Errorf("holdings.%s must be >= 0", sym)
		}
	}
	return nil
}

// BacktestRun converts the date strings into an engine config and validates
// it.
func (c *Config) BacktestRun() (backtest.Config, error) {
	start, err := time.Parse("2006-01-02", c.Backtest.Start)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("backtest.start: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Backtest.End)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("backtest.end: %w", err)
	}

	cfg := backtest.Config{
		StartDate:      start,
		EndDate:        end,
		InitialCapital: c.Backtest.InitialCapital,
		Commission:     c.Backtest.Commission,
		Slippage:       c.Backtest.Slippage,
		Benchmark:      c.Backtest.Benchmark,
	}
	if err := cfg.Validate(); err != nil {
		return backtest.Config{}, err
	}
	return cfg, nil
}

// StrategyRun converts the strategy section into the engine-facing strategy
// config.
func (c *Config) StrategyRun() strategy.Config {
	return strategy.Config{
		Name:               c.Strategy.Name,
		Parameters:         c.Strategy.Parameters,
		RebalanceFrequency: c.Strategy.RebalanceFrequency,
		RiskTolerance:      c.Strategy.RiskTolerance,
		MaxPositionSize:    c.Strategy.MaxPositionSize,
	}
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)
	return &Config{
		Data: DataConfig{
			Provider: "csv",
			CSVDir:   "./data",
			CacheDir: "./cache",
		},
		Backtest: BacktestConfig{
			Start:          start.Format("2006-01-02"),
			End:            end.Format("2006-01-02"),
			InitialCapital: 100_000,
			Commission:     0.001,
			Slippage:       0.0005,
			Benchmark:      "SPY",
		},
		Strategy: StrategyConfig{
			Name:               "momentum",
			RebalanceFrequency: "monthly",
			RiskTolerance:      0.5,
			MaxPositionSize:    0.4,
		},
		Holdings: map[string]float64{
			"AAPL": 10,
			"MSFT": 10,
		},
		Journal: JournalConfig{
			DBPath: "./fractal.db",
		},
	}
}
