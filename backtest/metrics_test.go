package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashesh8500/fractal/market"
)

func TestComputeMetricsFlatCurve(t *testing.T) {
	t.Parallel()

	values := []float64{100, 100, 100, 100}
	returns := []float64{0, 0, 0}

	m := computeMetrics(values, returns, 0)
	assert.Zero(t, m.TotalReturn)
	assert.Zero(t, m.AnnualizedReturn)
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.SharpeRatio)
	assert.Zero(t, m.MaxDrawdown)
	assert.Zero(t, m.Alpha)
	assert.Equal(t, 1.0, m.Beta)
}

func TestComputeMetricsGrowth(t *testing.T) {
	t.Parallel()

	values := []float64{100, 110, 121}
	returns := []float64{0.1, 0.1}

	m := computeMetrics(values, returns, 0.05)
	assert.InDelta(t, 0.21, m.TotalReturn, 1e-12)
	assert.InDelta(t, math.Pow(1.21, 252.0/3)-1, m.AnnualizedReturn, 1e-9)
	// Identical returns have zero variance, so sharpe degrades to 0.
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.SharpeRatio)
	assert.Zero(t, m.MaxDrawdown)
	assert.Equal(t, 0.05, m.BenchmarkReturn)
}

func TestComputeMetricsVolatilityAndSharpe(t *testing.T) {
	t.Parallel()

	values := []float64{100, 102, 100.98}
	returns := []float64{0.02, -0.01}

	m := computeMetrics(values, returns, 0)

	mean := (0.02 - 0.01) / 2
	std := math.Sqrt((math.Pow(0.02-mean, 2) + math.Pow(-0.01-mean, 2)) / 1)
	wantVol := std * math.Sqrt(252)

	assert.InDelta(t, wantVol, m.Volatility, 1e-12)
	assert.InDelta(t, mean*252/wantVol, m.SharpeRatio, 1e-12)
}

func TestComputeMetricsDegenerate(t *testing.T) {
	t.Parallel()

	m := computeMetrics([]float64{100}, nil, 0.5)
	assert.Equal(t, emptyMetrics(), m)
	assert.Equal(t, 1.0, m.Beta)
	assert.Zero(t, m.BenchmarkReturn)
}

func TestBenchmarkReturn(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	h := market.History{
		"SPY": market.NewSeries("SPY", []market.Bar{
			{Time: day(1), Close: 100},
			{Time: day(2), Close: 105},
			{Time: day(3), Close: 110},
		}),
	}

	got := benchmarkReturn(h, "SPY", day(1), day(3))
	assert.InDelta(t, 0.1, got, 1e-12)

	// Range restriction changes the endpoints.
	got = benchmarkReturn(h, "SPY", day(2), day(3))
	assert.InDelta(t, (110.0-105)/105, got, 1e-12)

	// Unknown symbol and too-few observations both give 0.
	assert.Zero(t, benchmarkReturn(h, "QQQ", day(1), day(3)))
	assert.Zero(t, benchmarkReturn(h, "SPY", day(3), day(3)))
}

func TestRebalancePeriodDays(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, rebalancePeriodDays("daily"))
	require.Equal(t, 7, rebalancePeriodDays("Weekly"))
	require.Equal(t, 30, rebalancePeriodDays("monthly"))
	require.Equal(t, 90, rebalancePeriodDays("quarterly"))
	require.Equal(t, 30, rebalancePeriodDays("fortnightly"))
	require.Equal(t, 30, rebalancePeriodDays(""))
}
