package backtest

import (
	"math"
	"time"

	"github.com/ashesh8500/fractal/indicators"
	"github.com/ashesh8500/fractal/market"
)

// tradingDaysPerYear is the annualization factor used throughout.
const tradingDaysPerYear = 252

// metrics holds the scalar performance numbers derived from an equity curve.
type metrics struct {
	TotalReturn      float64
	AnnualizedReturn float64
	Volatility       float64
	SharpeRatio      float64
	MaxDrawdown      float64
	BenchmarkReturn  float64
	Alpha            float64
	Beta             float64
}

// emptyMetrics is the documented neutral default for degenerate runs with no
// daily returns.
func emptyMetrics() metrics {
	return metrics{Beta: 1.0}
}

// computeMetrics derives the performance numbers from the recorded portfolio
// values and daily returns. benchmarkReturn is computed separately and
// passed in. Alpha and beta stay at their 0.0/1.0 placeholders; downstream
// consumers depend on these exact values, so they must not be replaced with a
// regression estimate.
func computeMetrics(values, returns []float64, benchmarkReturn float64) metrics {
	if len(returns) == 0 || len(values) == 0 {
		return emptyMetrics()
	}

	totalReturn := (values[len(values)-1] - values[0]) / values[0]
	days := float64(len(values))
	annualized := math.Pow(1+totalReturn, tradingDaysPerYear/days) - 1

	mean, std := indicators.MeanStd(returns)
	volatility := std * math.Sqrt(tradingDaysPerYear)

	sharpe := 0.0
	if volatility > 0 {
		sharpe = mean * tradingDaysPerYear / volatility
	}

	return metrics{
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualized,
		Volatility:       volatility,
		SharpeRatio:      sharpe,
		MaxDrawdown:      indicators.MaxDrawdown(values),
		BenchmarkReturn:  benchmarkReturn,
		Alpha:            0.0,
		Beta:             1.0,
	}
}

// benchmarkReturn is the close-price ratio of the benchmark symbol between
// the first and last observation inside [start, end]. Fewer than 2
// observations yield 0.
func benchmarkReturn(history market.History, symbol string, start, end time.Time) float64 {
	series, ok := history[symbol]
	if !ok {
		return 0
	}
	window := series.UpTo(end).TrimBefore(start)
	if window.Len() < 2 {
		return 0
	}
	first, _ := window.First()
	last, _ := window.Last()
	if first.Close == 0 {
		return 0
	}
	return (last.Close - first.Close) / first.Close
}
