package backtest

import (
	"time"

	"github.com/ashesh8500/fractal/portfolio"
)

// RebalanceDetail is the diagnostic record of one rebalance: when it fired,
// what the strategy proposed, and which trades actually executed with their
// resolved prices.
type RebalanceDetail struct {
	Time         time.Time             `json:"timestamp"`
	StrategyName string                `json:"strategy_name"`
	NewWeights   map[string]float64    `json:"new_weights"`
	Trades       []portfolio.Execution `json:"trades"`
}

// Result is the sole artifact of a backtest run. It is created once at the
// end of Engine.Run and never mutated afterwards; every field serializes to
// plain JSON so the result can cross any boundary losslessly.
type Result struct {
	StrategyName string    `json:"strategy_name"`
	Config       Config    `json:"config"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`

	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	BenchmarkReturn  float64 `json:"benchmark_return"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`

	TotalTrades   int `json:"total_trades"`
	WinningTrades int `json:"winning_trades"`
	LosingTrades  int `json:"losing_trades"`

	// Parallel series, one entry per simulated date (DailyReturns has one
	// fewer, starting at the second date).
	PortfolioValues []float64            `json:"portfolio_values"`
	DailyReturns    []float64            `json:"daily_returns"`
	Timestamps      []time.Time          `json:"timestamps"`
	HoldingsHistory []map[string]float64 `json:"holdings_history"`

	RebalanceDetails []RebalanceDetail     `json:"rebalance_details"`
	ExecutedTrades   []portfolio.Execution `json:"executed_trades"`
}

// FinalValue returns the last recorded portfolio value, zero for an empty
// series.
func (r *Result) FinalValue() float64 {
	if len(r.PortfolioValues) == 0 {
		return 0
	}
	return r.PortfolioValues[len(r.PortfolioValues)-1]
}
