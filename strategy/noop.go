package strategy

import (
	"time"

	"github.com/ashesh8500/fractal/market"
)

// Noop keeps the current allocation and never trades. Useful as a baseline
// and for exercising the engine without strategy effects.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (n Noop) Execute(weights map[string]float64, history market.History, prices map[string]float64, cfg Config) (*Result, error) {
	if err := validateInputs(weights, history, prices); err != nil {
		return nil, err
	}
	target := make(map[string]float64, len(weights))
	for sym, w := range weights {
		target[sym] = w
	}
	return &Result{
		StrategyName: n.Name(),
		Time:         time.Now().UTC(),
		NewWeights:   target,
		Confidence:   1,
	}, nil
}
