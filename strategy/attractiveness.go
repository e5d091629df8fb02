package strategy

import (
	"math"
	"time"

	talib "github.com/markcheno/go-talib"

	"github.com/ashesh8500/fractal/indicators"
	"github.com/ashesh8500/fractal/market"
)

// Attractiveness blends two signals per symbol: a Bollinger %b preference
// (closer to the lower band is better) and an "attractiveness" score built
// from the change in rolling volatility and rolling momentum. Target weights
// are clipped to [min_weight, max_weight] and the portfolio moves toward them
// gradually by adjustment_factor per rebalance.
type Attractiveness struct{}

func (Attractiveness) Name() string { return "ml_attractiveness" }

func (a Attractiveness) Execute(weights map[string]float64, history market.History, prices map[string]float64, cfg Config) (*Result, error) {
	if err := validateInputs(weights, history, prices); err != nil {
		return nil, err
	}

	bbPeriod := cfg.ParamInt("bb_period", 20)
	bbStd := cfg.Param("bb_std", 2.0)
	momWindow := cfg.ParamInt("momentum_window", 252)
	volWindow := cfg.ParamInt("vol_window", 252)
	adjust := cfg.Param("adjustment_factor", 0.2)
	minWeight := cfg.Param("min_weight", 0.05)
	maxWeight := cfg.Param("max_weight", 0.40)
	blend := cfg.Param("attractiveness_weight", 0.5)

	syms := make([]string, 0, len(weights))
	for sym := range weights {
		syms = append(syms, sym)
	}

	attract := make(map[string]float64, len(syms))
	bollPref := make(map[string]float64, len(syms))
	for _, sym := range syms {
		series := history[sym]
		closes := series.Closes()
		attract[sym] = attractScore(closes, volWindow, momWindow)
		bollPref[sym] = bollingerPreference(closes, prices[sym], bbPeriod, bbStd)
	}
	attract = normalizeOrEqual(attract)
	bollPref = normalizeOrEqual(bollPref)

	combined := make(map[string]float64, len(syms))
	for _, sym := range syms {
		combined[sym] = blend*bollPref[sym] + (1-blend)*attract[sym]
	}
	combined = normalizeOrEqual(combined)

	target := clipWeights(combined, minWeight, maxWeight)
	target = normalizeOrEqual(target)

	blended := make(map[string]float64, len(syms))
	for _, sym := range syms {
		blended[sym] = (1-adjust)*weights[sym] + adjust*target[sym]
	}
	blended = clipWeights(blended, minWeight, maxWeight)
	blended = normalizeOrEqual(blended)

	return &Result{
		StrategyName:   a.Name(),
		Time:           time.Now().UTC(),
		Trades:         tradesFromDelta(weights, blended, 1e-6),
		NewWeights:     blended,
		ExpectedReturn: 0,
		Confidence:     0.6,
		Scores:         combined,
	}, nil
}

// attractScore multiplies a volatility score (lower recent vol change is
// better) with a momentum score (rising momentum is better). Symbols with too
// little history score a neutral 1.
func attractScore(closes []float64, volWindow, momWindow int) float64 {
	returns := indicators.Returns(closes)
	minVol := indicators.MinPeriods(volWindow)
	minMom := indicators.MinPeriods(momWindow)
	if len(returns) < minVol+1 || len(returns) < minMom+1 {
		return 1
	}

	volNow := indicators.RollingStd(returns, volWindow, len(returns)) * math.Sqrt(252)
	volPrev := indicators.RollingStd(returns, volWindow, len(returns)-1) * math.Sqrt(252)
	volChange := indicators.PctChange(volPrev, volNow)

	momNow := indicators.RollingSum(returns, momWindow, len(returns))
	momPrev := indicators.RollingSum(returns, momWindow, len(returns)-1)
	momChange := indicators.PctChange(momPrev, momNow)

	score := (1.0 / (1.0 + volChange)) * (1.0 + momChange)
	if math.IsInf(score, 0) || math.IsNaN(score) || score < 0 {
		return 0
	}
	return score
}

// bollingerPreference returns max(0, 1-%b) clipped to [0,1], neutral 0.5 when
// the band collapses or history is too short.
func bollingerPreference(closes []float64, price float64, period int, dev float64) float64 {
	if len(closes) < period || len(closes) < 2 {
		return 0.5
	}
	if price == 0 {
		price = closes[len(closes)-1]
	}
	upper, _, lower := talib.BBands(closes, period, dev, dev, talib.SMA)
	u, l := upper[len(upper)-1], lower[len(lower)-1]
	if u == l {
		return 0.5
	}
	pb := (price - l) / (u - l)
	return math.Min(1, math.Max(0, 1-pb))
}

func clipWeights(w map[string]float64, lo, hi float64) map[string]float64 {
	out := make(map[string]float64, len(w))
	for sym, v := range w {
		out[sym] = math.Min(hi, math.Max(lo, v))
	}
	return out
}

// normalizeOrEqual scales to sum 1, falling back to equal weights when the
// total is non-positive.
func normalizeOrEqual(w map[string]float64) map[string]float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	out := make(map[string]float64, len(w))
	if total > 0 {
		for sym, v := range w {
			out[sym] = v / total
		}
		return out
	}
	if len(w) == 0 {
		return out
	}
	eq := 1.0 / float64(len(w))
	for sym := range w {
		out[sym] = eq
	}
	return out
}
