package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashesh8500/fractal/market"
)

func seriesFromCloses(symbol string, closes []float64) market.Series {
	bars := make([]market.Bar, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = market.Bar{Time: start.AddDate(0, 0, i), Close: c}
	}
	return market.NewSeries(symbol, bars)
}

func flatCloses(n int, level float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = level
	}
	return out
}

func trendCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestTradesFromDelta(t *testing.T) {
	t.Parallel()

	current := map[string]float64{"AAPL": 0.5, "MSFT": 0.5}
	target := map[string]float64{"AAPL": 0.2, "GOOG": 0.8}

	trades := tradesFromDelta(current, target, 1e-6)
	require.Len(t, trades, 3)

	bysym := map[string]Trade{}
	for _, tr := range trades {
		bysym[tr.Symbol] = tr
	}
	assert.Equal(t, Sell, bysym["AAPL"].Action)
	assert.InDelta(t, 0.3, bysym["AAPL"].Quantity, 1e-12)
	assert.Equal(t, Buy, bysym["GOOG"].Action)
	assert.InDelta(t, 0.8, bysym["GOOG"].Quantity, 1e-12)
	assert.Equal(t, Sell, bysym["MSFT"].Action)
	assert.InDelta(t, 0.5, bysym["MSFT"].Quantity, 1e-12)
}

func TestTradesFromDeltaSkipsTiny(t *testing.T) {
	t.Parallel()

	trades := tradesFromDelta(
		map[string]float64{"AAPL": 0.5},
		map[string]float64{"AAPL": 0.5 + 1e-9},
		1e-6,
	)
	assert.Empty(t, trades)
}

func TestMomentumPicksTopPerformers(t *testing.T) {
	t.Parallel()

	history := market.History{
		"UP":   seriesFromCloses("UP", trendCloses(100, 100, 1)),
		"FLAT": seriesFromCloses("FLAT", flatCloses(100, 100)),
		"DOWN": seriesFromCloses("DOWN", trendCloses(100, 200, -1)),
	}
	weights := map[string]float64{"UP": 0.34, "FLAT": 0.33, "DOWN": 0.33}
	prices := map[string]float64{"UP": 199, "FLAT": 100, "DOWN": 101}

	res, err := Momentum{}.Execute(weights, history, prices, Config{
		Name:       "momentum",
		Parameters: map[string]float64{"lookback_period": 90, "top_n": 2},
	})
	require.NoError(t, err)

	// Only UP has positive momentum; it takes the whole allocation.
	assert.Equal(t, 1.0, res.NewWeights["UP"])
	assert.Equal(t, 0.0, res.NewWeights["FLAT"])
	assert.Equal(t, 0.0, res.NewWeights["DOWN"])
	assert.Positive(t, res.Scores["UP"])
	assert.Negative(t, res.Scores["DOWN"])
}

func TestMomentumShortHistoryScoresLow(t *testing.T) {
	t.Parallel()

	history := market.History{
		"NEW": seriesFromCloses("NEW", trendCloses(10, 100, 5)),
	}
	weights := map[string]float64{"NEW": 1}
	prices := map[string]float64{"NEW": 145}

	res, err := Momentum{}.Execute(weights, history, prices, Config{Name: "momentum"})
	require.NoError(t, err)

	// Under 90 bars of history the symbol cannot rank positive, so the
	// strategy targets all cash.
	assert.Equal(t, -1.0, res.Scores["NEW"])
	assert.Equal(t, 0.0, res.NewWeights["NEW"])
	require.Len(t, res.Trades, 1)
	assert.Equal(t, Sell, res.Trades[0].Action)
}

func TestMomentumRejectsEmptyInputs(t *testing.T) {
	t.Parallel()

	_, err := Momentum{}.Execute(nil, market.History{}, nil, Config{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMeanReversionMovesAgainstExtremes(t *testing.T) {
	t.Parallel()

	// 20 flat closes, then the current price sits far below the band for
	// CHEAP and far above for RICH. A small wiggle keeps stdev nonzero.
	cheap := flatCloses(20, 100)
	cheap[5] = 101
	rich := flatCloses(20, 100)
	rich[5] = 101

	history := market.History{
		"CHEAP": seriesFromCloses("CHEAP", cheap),
		"RICH":  seriesFromCloses("RICH", rich),
	}
	weights := map[string]float64{"CHEAP": 0.5, "RICH": 0.5}
	prices := map[string]float64{"CHEAP": 80, "RICH": 120}

	res, err := MeanReversion{}.Execute(weights, history, prices, Config{Name: "mean_reversion"})
	require.NoError(t, err)

	assert.Negative(t, res.Scores["CHEAP"])
	assert.Positive(t, res.Scores["RICH"])
	// max_weight 0.3 vs min_weight 0.0, normalized.
	assert.InDelta(t, 1.0, res.NewWeights["CHEAP"], 1e-12)
	assert.InDelta(t, 0.0, res.NewWeights["RICH"], 1e-12)
}

func TestMeanReversionKeepsWeightsInsideBand(t *testing.T) {
	t.Parallel()

	closes := flatCloses(20, 100)
	closes[5] = 101
	history := market.History{
		"HOLD": seriesFromCloses("HOLD", closes),
	}
	weights := map[string]float64{"HOLD": 1}
	prices := map[string]float64{"HOLD": 100}

	res, err := MeanReversion{}.Execute(weights, history, prices, Config{Name: "mean_reversion"})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.NewWeights["HOLD"], 1e-12)
	assert.Empty(t, res.Trades)
}

func TestBollingerFavorsLowerBand(t *testing.T) {
	t.Parallel()

	low := flatCloses(25, 100)
	low[10] = 104
	high := flatCloses(25, 100)
	high[10] = 104

	history := market.History{
		"LOW":  seriesFromCloses("LOW", low),
		"HIGH": seriesFromCloses("HIGH", high),
	}
	weights := map[string]float64{"LOW": 0.5, "HIGH": 0.5}
	prices := map[string]float64{"LOW": 97, "HIGH": 103}

	res, err := Bollinger{}.Execute(weights, history, prices, Config{Name: "bollinger"})
	require.NoError(t, err)

	assert.Greater(t, res.NewWeights["LOW"], res.NewWeights["HIGH"])

	var sum float64
	for _, w := range res.NewWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBollingerShortHistoryHoldsCurrent(t *testing.T) {
	t.Parallel()

	history := market.History{
		"NEW": seriesFromCloses("NEW", flatCloses(5, 100)),
	}
	weights := map[string]float64{"NEW": 1}
	prices := map[string]float64{"NEW": 100}

	res, err := Bollinger{}.Execute(weights, history, prices, Config{Name: "bollinger"})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.NewWeights["NEW"], 1e-12)
	assert.Empty(t, res.Trades)
}

func TestAttractivenessWeightsSumToOne(t *testing.T) {
	t.Parallel()

	history := market.History{
		"A": seriesFromCloses("A", trendCloses(300, 100, 0.5)),
		"B": seriesFromCloses("B", trendCloses(300, 100, -0.1)),
		"C": seriesFromCloses("C", flatCloses(300, 100)),
	}
	weights := map[string]float64{"A": 0.4, "B": 0.3, "C": 0.3}
	prices := map[string]float64{"A": 249, "B": 71, "C": 100}

	res, err := Attractiveness{}.Execute(weights, history, prices, Config{Name: "ml_attractiveness"})
	require.NoError(t, err)

	var sum float64
	for _, w := range res.NewWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// adjustment_factor 0.2 keeps the move gradual.
	for sym, w := range res.NewWeights {
		assert.InDelta(t, weights[sym], w, 0.25, "symbol %s moved too far", sym)
	}
}

func TestNoopHoldsEverything(t *testing.T) {
	t.Parallel()

	history := market.History{
		"AAPL": seriesFromCloses("AAPL", flatCloses(3, 100)),
	}
	weights := map[string]float64{"AAPL": 1}
	prices := map[string]float64{"AAPL": 100}

	res, err := Noop{}.Execute(weights, history, prices, Config{Name: "noop"})
	require.NoError(t, err)
	assert.Empty(t, res.Trades)
	assert.Equal(t, weights, res.NewWeights)
}

func TestRegistryByName(t *testing.T) {
	t.Parallel()

	s, err := ByName("  Momentum ")
	require.NoError(t, err)
	assert.Equal(t, "momentum", s.Name())

	_, err = ByName("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")

	assert.Contains(t, Names(), "mean_reversion")
	assert.Contains(t, Names(), "bollinger")
	assert.Contains(t, Names(), "ml_attractiveness")
	assert.Contains(t, Names(), "noop")
}
