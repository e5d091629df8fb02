package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	yaml := `
data:
  provider: csv
  csv_dir: ./data
backtest:
  start: 2024-01-01
  end: 2024-12-31
  initial_capital: 50000
  commission: 0.001
  slippage: 0.0005
  benchmark: SPY
strategy:
  name: momentum
  rebalance_frequency: weekly
  risk_tolerance: 0.5
  max_position_size: 0.4
  parameters:
    lookback_period: 60
    top_n: 2
holdings:
  AAPL: 25
  MSFT: 10
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Data.Provider)
	assert.Equal(t, 25.0, cfg.Holdings["AAPL"])

	run, err := cfg.BacktestRun()
	require.NoError(t, err)
	assert.Equal(t, 50_000.0, run.InitialCapital)
	assert.Equal(t, "SPY", run.Benchmark)

	sc := cfg.StrategyRun()
	assert.Equal(t, "momentum", sc.Name)
	assert.Equal(t, 60.0, sc.Parameters["lookback_period"])
	assert.Equal(t, "weekly", sc.RebalanceFrequency)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.Data.Provider = "bloomberg" }, "data.provider"},
		{"csv without dir", func(c *Config) { c.Data.CSVDir = "" }, "csv_dir"},
		{"bad dates", func(c *Config) { c.Backtest.Start = "2025-01-01"; c.Backtest.End = "2024-01-01" }, "start date"},
		{"unknown strategy", func(c *Config) { c.Strategy.Name = "astrology" }, "unknown strategy"},
		{"risk out of range", func(c *Config) { c.Strategy.RiskTolerance = 1.5 }, "risk_tolerance"},
		{"position size too small", func(c *Config) { c.Strategy.MaxPositionSize = 0.05 }, "max_position_size"},
		{"bad frequency", func(c *Config) { c.Strategy.RebalanceFrequency = "hourly" }, "rebalance_frequency"},
		{"no holdings", func(c *Config) { c.Holdings = nil }, "holdings"},
		{"negative holding", func(c *Config) { c.Holdings = map[string]float64{"AAPL": -1} }, "holdings.AAPL"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yml")
	orig := Default()
	require.NoError(t, orig.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Backtest, loaded.Backtest)
	assert.Equal(t, orig.Strategy, loaded.Strategy)
	assert.Equal(t, orig.Holdings, loaded.Holdings)
}
