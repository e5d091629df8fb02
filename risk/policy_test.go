package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateNoPolicy(t *testing.T) {
	t.Parallel()

	d := Evaluate(Policy{}, "buy", 0.6)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0.6, d.Fraction)
	assert.Empty(t, d.Violations)
}

func TestEvaluateTrimsOversizedBuy(t *testing.T) {
	t.Parallel()

	d := Evaluate(Policy{MaxOrderWeight: 0.25}, "buy", 0.6)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0.25, d.Fraction)
}

func TestEvaluateSellsBypassCap(t *testing.T) {
	t.Parallel()

	d := Evaluate(Policy{MaxOrderWeight: 0.25}, "sell", 1.0)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1.0, d.Fraction)
}

func TestEvaluateRejectsNonPositive(t *testing.T) {
	t.Parallel()

	d := Evaluate(Policy{}, "buy", 0)
	assert.False(t, d.Allowed)
	assert.Equal(t, "NO_SIZE", d.Violations[0].Code)
}

func TestEvaluateClampsAboveOne(t *testing.T) {
	t.Parallel()

	d := Evaluate(Policy{}, "buy", 1.7)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1.0, d.Fraction)
}
