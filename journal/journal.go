// Package journal persists backtest runs so results can be listed, compared
// and exported after the fact. SQLite is the storage backend; CSV export is
// layered on top for spreadsheet work.
package journal

import (
	"context"
	"time"

	"github.com/ashesh8500/fractal/backtest"
	"github.com/ashesh8500/fractal/portfolio"
)

// RunRecord mirrors one row of the backtest_runs table: the scalar summary
// of a completed run.
type RunRecord struct {
	RunID   string
	Created time.Time

	Strategy  string
	Benchmark string
	Start     time.Time
	End       time.Time

	InitialCapital float64
	Commission     float64
	Slippage       float64

	TotalReturn      float64
	AnnualizedReturn float64
	Volatility       float64
	SharpeRatio      float64
	MaxDrawdown      float64
	BenchmarkReturn  float64
	Alpha            float64
	Beta             float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	FinalValue    float64
}

// EquityPoint is one sample of a run's equity curve.
type EquityPoint struct {
	Time        time.Time
	Value       float64
	DailyReturn float64
}

// Journal is what the CLI depends on for persistence.
type Journal interface {
	SaveResult(ctx context.Context, res *backtest.Result) (runID string, err error)
	GetRun(ctx context.Context, runID string) (RunRecord, error)
	ListRuns(ctx context.Context) ([]RunRecord, error)
	ListTrades(ctx context.Context, runID string) ([]portfolio.Execution, error)
	ListEquity(ctx context.Context, runID string) ([]EquityPoint, error)
	Close() error
}
