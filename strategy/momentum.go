package strategy

import (
	"fmt"
	"sort"
	"time"

	"github.com/ashesh8500/fractal/market"
)

// Momentum ranks symbols by their trailing return over a lookback window and
// allocates equally across the top performers with positive momentum. With no
// positive performers it targets all cash.
type Momentum struct{}

func (Momentum) Name() string { return "momentum" }

func (m Momentum) Execute(weights map[string]float64, history market.History, prices map[string]float64, cfg Config) (*Result, error) {
	if err := validateInputs(weights, history, prices); err != nil {
		return nil, err
	}

	lookback := cfg.ParamInt("lookback_period", 90)
	topN := cfg.ParamInt("top_n", 3)
	if lookback < 2 || topN < 1 {
		return nil, fmt.Errorf("momentum: invalid parameters lookback_period=%d top_n=%d", lookback, topN)
	}

	scores := make(map[string]float64, len(history))
	for sym, series := range history {
		closes := series.Closes()
		if len(closes) >= lookback {
			scores[sym] = closes[len(closes)-1]/closes[len(closes)-lookback] - 1
		} else {
			// Too little data ranks below any real momentum value.
			scores[sym] = -1
		}
	}

	type ranked struct {
		sym   string
		score float64
	}
	order := make([]ranked, 0, len(scores))
	for sym, sc := range scores {
		order = append(order, ranked{sym, sc})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].score != order[j].score {
			return order[i].score > order[j].score
		}
		return order[i].sym < order[j].sym
	})

	var top []string
	for _, r := range order {
		if len(top) == topN {
			break
		}
		if r.score > 0 {
			top = append(top, r.sym)
		}
	}

	target := make(map[string]float64, len(weights))
	for sym := range weights {
		target[sym] = 0
	}
	if len(top) > 0 {
		w := 1.0 / float64(len(top))
		for _, sym := range top {
			target[sym] = w
		}
	}

	return &Result{
		StrategyName:   m.Name(),
		Time:           time.Now().UTC(),
		Trades:         tradesFromDelta(weights, target, 1e-6),
		NewWeights:     target,
		ExpectedReturn: 0,
		Confidence:     0.8,
		Scores:         scores,
	}, nil
}
