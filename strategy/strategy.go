// Package strategy defines the contract between the backtest engine and
// pluggable trading strategies, plus an explicit registry of built-in
// implementations.
package strategy

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/ashesh8500/fractal/market"
)

// Action is the side of a trade.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Trade is a single rebalancing intent emitted by a strategy. Quantity is a
// weight fraction of total portfolio value (0..1), not a share count; the
// engine converts it to shares at execution time.
type Trade struct {
	Symbol   string    `json:"symbol"`
	Action   Action    `json:"action"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price,omitempty"`
	Time     time.Time `json:"timestamp,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// Config carries strategy parameters into Execute. It is treated as
// immutable once handed to the engine.
type Config struct {
	Name               string             `json:"name" yaml:"name"`
	Parameters         map[string]float64 `json:"parameters" yaml:"parameters"`
	RebalanceFrequency string             `json:"rebalance_frequency" yaml:"rebalance_frequency"`
	RiskTolerance      float64            `json:"risk_tolerance" yaml:"risk_tolerance"`
	MaxPositionSize    float64            `json:"max_position_size" yaml:"max_position_size"`
}

// Param returns the named parameter or def when absent.
func (c Config) Param(name string, def float64) float64 {
	if v, ok := c.Parameters[name]; ok {
		return v
	}
	return def
}

// ParamInt is Param truncated to int.
func (c Config) ParamInt(name string, def int) int {
	if v, ok := c.Parameters[name]; ok {
		return int(v)
	}
	return def
}

// Result is what a strategy hands back from one Execute call. It is created
// fresh per call and never mutated afterwards.
type Result struct {
	StrategyName   string             `json:"strategy_name"`
	Time           time.Time          `json:"timestamp"`
	Trades         []Trade            `json:"trades"`
	NewWeights     map[string]float64 `json:"new_weights"`
	ExpectedReturn float64            `json:"expected_return"`
	Confidence     float64            `json:"confidence"`
	Scores         map[string]float64 `json:"scores,omitempty"`
}

// Strategy produces weight-delta trade intents from a snapshot of the
// portfolio and the price history up to the current simulated date. Inputs
// are read-only; implementations must not mutate them.
type Strategy interface {
	Name() string
	Execute(weights map[string]float64, history market.History, prices map[string]float64, cfg Config) (*Result, error)
}

// ErrEmptyInput is returned when Execute is called with empty weights,
// history, or prices. The engine treats it (like any Execute error) as a
// skipped rebalance.
var ErrEmptyInput = errors.New("strategy: weights, history and prices must be non-empty")

func validateInputs(weights map[string]float64, history market.History, prices map[string]float64) error {
	if len(weights) == 0 || len(history) == 0 || len(prices) == 0 {
		return ErrEmptyInput
	}
	return nil
}

// tradesFromDelta emits one trade per symbol whose target weight differs from
// the current weight by more than eps. The union of both maps is considered
// so positions being opened and closed both generate trades.
func tradesFromDelta(current, target map[string]float64, eps float64) []Trade {
	symbols := make(map[string]struct{}, len(current)+len(target))
	for s := range current {
		symbols[s] = struct{}{}
	}
	for s := range target {
		symbols[s] = struct{}{}
	}

	ordered := make([]string, 0, len(symbols))
	for s := range symbols {
		ordered = append(ordered, s)
	}
	sort.Strings(ordered)

	var trades []Trade
	for _, sym := range ordered {
		delta := target[sym] - current[sym]
		if math.Abs(delta) <= eps {
			continue
		}
		action := Buy
		if delta < 0 {
			action = Sell
		}
		trades = append(trades, Trade{
			Symbol:   sym,
			Action:   action,
			Quantity: math.Abs(delta),
		})
	}
	return trades
}

// normalizeWeights scales weights so they sum to 1. A non-positive sum
// returns the input unchanged.
func normalizeWeights(w map[string]float64) map[string]float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	if total <= 0 {
		return w
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v / total
	}
	return out
}
