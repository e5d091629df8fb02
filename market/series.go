package market

import (
	"sort"
	"time"
)

// Series holds the date-ordered bars for a single symbol. Bars are kept
// ascending by day; NewSeries normalizes and sorts so callers can hand in
// provider output as-is.
type Series struct {
	Symbol string
	Bars   []Bar
}

// NewSeries builds a Series from bars, normalizing every timestamp to
// midnight UTC and sorting ascending. Duplicate days keep the later bar.
func NewSeries(symbol string, bars []Bar) Series {
	byDay := make(map[time.Time]Bar, len(bars))
	for _, b := range bars {
		b.Time = Day(b.Time)
		byDay[b.Time] = b
	}

	out := make([]Bar, 0, len(byDay))
	for _, b := range byDay {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	return Series{Symbol: symbol, Bars: out}
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// CloseOn returns the close price on the given day, if a bar exists for it.
func (s Series) CloseOn(day time.Time) (float64, bool) {
	day = Day(day)
	i := sort.Search(len(s.Bars), func(i int) bool { return !s.Bars[i].Time.Before(day) })
	if i < len(s.Bars) && s.Bars[i].Time.Equal(day) {
		return s.Bars[i].Close, true
	}
	return 0, false
}

// UpTo returns a view of the series containing only bars on or before day.
// The backing array is shared; callers must treat the result as read-only.
func (s Series) UpTo(day time.Time) Series {
	day = Day(day)
	i := sort.Search(len(s.Bars), func(i int) bool { return s.Bars[i].Time.After(day) })
	return Series{Symbol: s.Symbol, Bars: s.Bars[:i]}
}

// TrimBefore returns a view of the series containing only bars on or after
// day. Like UpTo, the backing array is shared.
func (s Series) TrimBefore(day time.Time) Series {
	day = Day(day)
	i := sort.Search(len(s.Bars), func(i int) bool { return !s.Bars[i].Time.Before(day) })
	return Series{Symbol: s.Symbol, Bars: s.Bars[i:]}
}

// Closes returns the close prices in date order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// First returns the earliest bar, ok=false when the series is empty.
func (s Series) First() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[0], true
}

// Last returns the latest bar, ok=false when the series is empty.
func (s Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
