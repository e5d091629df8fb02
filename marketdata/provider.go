// Package marketdata supplies daily bar history to the backtest engine.
// Providers share one contract: symbols with no data are omitted from the
// result rather than reported as errors, so a single unknown ticker cannot
// sink a whole run.
package marketdata

import (
	"context"
	"time"

	"github.com/ashesh8500/fractal/market"
)

// Provider loads daily close history for a set of symbols over [start, end].
type Provider interface {
	History(ctx context.Context, symbols []string, start, end time.Time) (market.History, error)
}

// Static serves history from an in-memory fixture. Tests and offline runs use
// it in place of a live provider.
type Static struct {
	Data market.History
}

// NewStatic wraps an in-memory history as a Provider.
func NewStatic(data market.History) *Static {
	return &Static{Data: data}
}

// History filters the fixture down to the requested symbols and date range.
func (s *Static) History(_ context.Context, symbols []string, start, end time.Time) (market.History, error) {
	start, end = market.Day(start), market.Day(end)

	out := make(market.History, len(symbols))
	for _, sym := range symbols {
		series, ok := s.Data[sym]
		if !ok {
			continue
		}
		var bars []market.Bar
		for _, b := range series.Bars {
			if b.Time.Before(start) || b.Time.After(end) {
				continue
			}
			bars = append(bars, b)
		}
		if len(bars) > 0 {
			out[sym] = market.Series{Symbol: sym, Bars: bars}
		}
	}
	return out, nil
}
