package strategy

import (
	"time"

	"github.com/ashesh8500/fractal/indicators"
	"github.com/ashesh8500/fractal/market"
)

// MeanReversion sizes positions by z-score of the current price against a
// trailing window. Deeply oversold symbols get bumped to max_weight, deeply
// overbought ones cut to min_weight, the rest keep their current weight; the
// result is renormalized.
type MeanReversion struct{}

func (MeanReversion) Name() string { return "mean_reversion" }

func (m MeanReversion) Execute(weights map[string]float64, history market.History, prices map[string]float64, cfg Config) (*Result, error) {
	if err := validateInputs(weights, history, prices); err != nil {
		return nil, err
	}

	lookback := cfg.ParamInt("lookback", 20)
	zThreshold := cfg.Param("z_threshold", 2.0)
	maxWeight := cfg.Param("max_weight", 0.3)
	minWeight := cfg.Param("min_weight", 0.0)

	zscores := make(map[string]float64)
	target := make(map[string]float64)

	for sym, series := range history {
		closes := series.Closes()
		if len(closes) < lookback {
			continue
		}
		recent := closes[len(closes)-lookback:]
		mean, std := indicators.MeanStd(recent)
		price, ok := prices[sym]
		if std <= 0 || !ok || price == 0 {
			continue
		}
		z := (price - mean) / std
		zscores[sym] = z

		switch {
		case z < -zThreshold:
			target[sym] = maxWeight
		case z > zThreshold:
			target[sym] = minWeight
		default:
			target[sym] = weights[sym]
		}
	}

	for sym, w := range weights {
		if _, ok := target[sym]; !ok {
			target[sym] = w
		}
	}
	target = normalizeWeights(target)

	return &Result{
		StrategyName:   m.Name(),
		Time:           time.Now().UTC(),
		Trades:         tradesFromDelta(weights, target, 1e-4),
		NewWeights:     target,
		ExpectedReturn: 0,
		Confidence:     0.5,
		Scores:         zscores,
	}, nil
}
