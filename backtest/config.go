// Package backtest implements the walk-forward simulation engine: it drives a
// strategy across an aligned date axis, executes its weight-delta trades
// against a ledger under transaction costs, and derives performance metrics
// from the resulting equity curve.
package backtest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fatal precondition errors. Both abort a run before any ledger mutation.
var (
	ErrNoPriceData      = errors.New("backtest: no price data for symbol universe")
	ErrInsufficientData = errors.New("backtest: fewer than 2 aligned simulation dates")
)

// Config holds the run parameters of a single backtest.
type Config struct {
	StartDate      time.Time `json:"start_date" yaml:"start_date"`
	EndDate        time.Time `json:"end_date" yaml:"end_date"`
	InitialCapital float64   `json:"initial_capital" yaml:"initial_capital"`
	Commission     float64   `json:"commission" yaml:"commission"`
	Slippage       float64   `json:"slippage" yaml:"slippage"`
	Benchmark      string    `json:"benchmark" yaml:"benchmark"`
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("backtest: start date %s must be before end date %s",
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("backtest: initial capital must be positive, got %g", c.InitialCapital)
	}
	if c.Commission < 0 {
		return fmt.Errorf("backtest: commission rate must be >= 0, got %g", c.Commission)
	}
	if c.Slippage < 0 {
		return fmt.Errorf("backtest: slippage rate must be >= 0, got %g", c.Slippage)
	}
	if c.Benchmark == "" {
		return errors.New("backtest: benchmark symbol is required")
	}
	return nil
}

// rebalancePeriodDays maps a rebalance frequency to the minimum day gap
// between strategy calls. Unknown frequencies fall back to monthly.
func rebalancePeriodDays(frequency string) int {
	switch strings.ToLower(strings.TrimSpace(frequency)) {
	case "daily":
		return 1
	case "weekly":
		return 7
	case "monthly":
		return 30
	case "quarterly":
		return 90
	default:
		return 30
	}
}
