package strategy

import (
	"time"

	talib "github.com/markcheno/go-talib"

	"github.com/ashesh8500/fractal/market"
)

// Bollinger scores each symbol by how close its price sits to the lower
// Bollinger band (%b). Lower %b means more attractive; target weights are the
// normalized scores. Symbols without enough history score zero.
type Bollinger struct{}

func (Bollinger) Name() string { return "bollinger" }

func (b Bollinger) Execute(weights map[string]float64, history market.History, prices map[string]float64, cfg Config) (*Result, error) {
	if err := validateInputs(weights, history, prices); err != nil {
		return nil, err
	}

	period := cfg.ParamInt("bb_period", 20)
	dev := cfg.Param("bb_std", 2.0)

	scores := make(map[string]float64, len(weights))
	for sym := range weights {
		series, ok := history[sym]
		if !ok || series.Len() < period {
			scores[sym] = 0
			continue
		}
		price, ok := prices[sym]
		if !ok {
			scores[sym] = 0
			continue
		}

		upper, _, lower := talib.BBands(series.Closes(), period, dev, dev, talib.SMA)
		u, l := upper[len(upper)-1], lower[len(lower)-1]

		pb := 0.5
		if u != l {
			pb = (price - l) / (u - l)
		}
		if s := 1 - pb; s > 0 {
			scores[sym] = s
		} else {
			scores[sym] = 0
		}
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}

	var target map[string]float64
	if sum > 0 {
		target = make(map[string]float64, len(scores))
		for sym, s := range scores {
			target[sym] = s / sum
		}
	} else {
		// Nothing looks attractive; hold the current allocation.
		target = make(map[string]float64, len(weights))
		for sym, w := range weights {
			target[sym] = w
		}
		target = normalizeWeights(target)
	}

	return &Result{
		StrategyName:   b.Name(),
		Time:           time.Now().UTC(),
		Trades:         tradesFromDelta(weights, target, 1e-6),
		NewWeights:     target,
		ExpectedReturn: 0,
		Confidence:     0.5,
		Scores:         scores,
	}, nil
}
