package market

import (
	"sort"
	"time"
)

// History maps symbol to its price series. It is the unit of data handed from
// a market data provider to the backtest engine.
type History map[string]Series

// Symbols returns the symbols present in the history, sorted.
func (h History) Symbols() []string {
	out := make([]string, 0, len(h))
	for sym := range h {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Dates returns the sorted union of all per-symbol bar days that fall within
// [start, end] inclusive. Comparison is by calendar day.
func (h History) Dates(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)

	seen := make(map[time.Time]struct{})
	for _, s := range h {
		for _, b := range s.Bars {
			if b.Time.Before(start) || b.Time.After(end) {
				continue
			}
			seen[b.Time] = struct{}{}
		}
	}

	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ClosesOn returns the close price of every symbol that has a bar on the
// given day. Symbols without a bar that day are omitted.
func (h History) ClosesOn(day time.Time) map[string]float64 {
	out := make(map[string]float64, len(h))
	for sym, s := range h {
		if c, ok := s.CloseOn(day); ok {
			out[sym] = c
		}
	}
	return out
}

// UpTo returns the history truncated so no symbol carries bars after day.
// The engine passes this to strategies so they can never observe prices
// beyond the current simulated date.
func (h History) UpTo(day time.Time) History {
	out := make(History, len(h))
	for sym, s := range h {
		out[sym] = s.UpTo(day)
	}
	return out
}
