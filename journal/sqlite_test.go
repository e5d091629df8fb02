package journal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashesh8500/fractal/backtest"
	"github.com/ashesh8500/fractal/portfolio"
)

func sampleResult() *backtest.Result {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return &backtest.Result{
		StrategyName: "momentum",
		Config: backtest.Config{
			StartDate:      day(1),
			EndDate:        day(3),
			InitialCapital: 100_000,
			Commission:     0.001,
			Slippage:       0.0005,
			Benchmark:      "SPY",
		},
		StartDate: day(1),
		EndDate:   day(3),

		TotalReturn:      0.05,
		AnnualizedReturn: 0.42,
		Volatility:       0.18,
		SharpeRatio:      1.3,
		MaxDrawdown:      0.02,
		BenchmarkReturn:  0.03,
		Beta:             1.0,

		TotalTrades:   2,
		WinningTrades: 1,
		LosingTrades:  0,

		PortfolioValues: []float64{100_000, 102_000, 105_000},
		DailyReturns:    []float64{0.02, 0.0294117647},
		Timestamps:      []time.Time{day(1), day(2), day(3)},

		ExecutedTrades: []portfolio.Execution{
			{Symbol: "AAPL", Action: "buy", Shares: 100, WeightFraction: 0.5,
				Price: 100, Gross: 10_000, Commission: 10, Slippage: 5,
				TotalCost: 15, CashDelta: -10_015, Time: day(1)},
			{Symbol: "AAPL", Action: "sell", Shares: 50, WeightFraction: 0.25,
				Price: 105, Gross: 5_250, Commission: 5.25, Slippage: 2.625,
				TotalCost: 7.875, CashDelta: 5_242.125, Winning: true, Time: day(2)},
		},
	}
}

func newTestJournal(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)
	ctx := context.Background()

	runID, err := j.SaveResult(ctx, sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	rec, err := j.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "momentum", rec.Strategy)
	assert.Equal(t, "SPY", rec.Benchmark)
	assert.Equal(t, 0.05, rec.TotalReturn)
	assert.Equal(t, 1.0, rec.Beta)
	assert.Equal(t, 2, rec.TotalTrades)
	assert.Equal(t, 105_000.0, rec.FinalValue)

	_, err = j.GetRun(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRunsNewestFirst(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)
	ctx := context.Background()

	first, err := j.SaveResult(ctx, sampleResult())
	require.NoError(t, err)
	second, err := j.SaveResult(ctx, sampleResult())
	require.NoError(t, err)

	runs, err := j.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].RunID)
	assert.Equal(t, first, runs[1].RunID)
}

func TestListTradesAndEquity(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)
	ctx := context.Background()

	runID, err := j.SaveResult(ctx, sampleResult())
	require.NoError(t, err)

	trades, err := j.ListTrades(ctx, runID)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "buy", trades[0].Action)
	assert.Equal(t, "sell", trades[1].Action)
	assert.True(t, trades[1].Winning)
	assert.Equal(t, 100.0, trades[0].Shares)

	equity, err := j.ListEquity(ctx, runID)
	require.NoError(t, err)
	require.Len(t, equity, 3)
	assert.Equal(t, 100_000.0, equity[0].Value)
	assert.Zero(t, equity[0].DailyReturn)
	assert.InDelta(t, 0.02, equity[1].DailyReturn, 1e-12)
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	j := newTestJournal(t)
	ctx := context.Background()

	runID, err := j.SaveResult(ctx, sampleResult())
	require.NoError(t, err)

	var trades bytes.Buffer
	require.NoError(t, ExportTradesCSV(ctx, j, runID, &trades))
	lines := strings.Split(strings.TrimSpace(trades.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "symbol,action,quantity_shares"))
	assert.Contains(t, lines[1], "AAPL,buy")

	var equity bytes.Buffer
	require.NoError(t, ExportEquityCSV(ctx, j, runID, &equity))
	lines = strings.Split(strings.TrimSpace(equity.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "time,value,daily_return", lines[0])
}
