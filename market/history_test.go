package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSeriesNormalizesAndSorts(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s := NewSeries("AAPL", []Bar{
		{Time: day(2024, 1, 3), Close: 3},
		{Time: day(2024, 1, 1), Close: 1},
		// 20:00 New York on Jan 1 is already Jan 2 in UTC.
		{Time: time.Date(2024, 1, 1, 20, 0, 0, 0, ny), Close: 2},
	})

	require.Equal(t, 3, s.Len())
	assert.Equal(t, day(2024, 1, 1), s.Bars[0].Time)
	assert.Equal(t, day(2024, 1, 2), s.Bars[1].Time)
	assert.Equal(t, day(2024, 1, 3), s.Bars[2].Time)
}

func TestNewSeriesDeduplicatesDays(t *testing.T) {
	t.Parallel()

	s := NewSeries("AAPL", []Bar{
		{Time: day(2024, 1, 1), Close: 1},
		{Time: day(2024, 1, 1).Add(4 * time.Hour), Close: 9},
	})

	require.Equal(t, 1, s.Len())
	c, ok := s.CloseOn(day(2024, 1, 1))
	require.True(t, ok)
	assert.Equal(t, 9.0, c)
}

func TestSeriesCloseOn(t *testing.T) {
	t.Parallel()

	s := NewSeries("AAPL", []Bar{
		{Time: day(2024, 1, 1), Close: 100},
		{Time: day(2024, 1, 3), Close: 103},
	})

	c, ok := s.CloseOn(day(2024, 1, 3))
	require.True(t, ok)
	assert.Equal(t, 103.0, c)

	// Time-of-day must not matter.
	c, ok = s.CloseOn(day(2024, 1, 1).Add(15 * time.Hour))
	require.True(t, ok)
	assert.Equal(t, 100.0, c)

	_, ok = s.CloseOn(day(2024, 1, 2))
	assert.False(t, ok)
}

func TestSeriesUpTo(t *testing.T) {
	t.Parallel()

	s := NewSeries("AAPL", []Bar{
		{Time: day(2024, 1, 1), Close: 100},
		{Time: day(2024, 1, 2), Close: 101},
		{Time: day(2024, 1, 3), Close: 102},
	})

	trunc := s.UpTo(day(2024, 1, 2))
	require.Equal(t, 2, trunc.Len())
	last, ok := trunc.Last()
	require.True(t, ok)
	assert.Equal(t, day(2024, 1, 2), last.Time)

	assert.Equal(t, 0, s.UpTo(day(2023, 12, 31)).Len())
	assert.Equal(t, 3, s.UpTo(day(2024, 2, 1)).Len())
}

func TestHistoryDatesUnionAndBounds(t *testing.T) {
	t.Parallel()

	h := History{
		"AAPL": NewSeries("AAPL", []Bar{
			{Time: day(2024, 1, 1), Close: 1},
			{Time: day(2024, 1, 3), Close: 1},
		}),
		"MSFT": NewSeries("MSFT", []Bar{
			{Time: day(2024, 1, 2), Close: 1},
			{Time: day(2024, 1, 9), Close: 1},
		}),
	}

	dates := h.Dates(day(2024, 1, 1), day(2024, 1, 5))
	require.Len(t, dates, 3)
	assert.Equal(t, day(2024, 1, 1), dates[0])
	assert.Equal(t, day(2024, 1, 2), dates[1])
	assert.Equal(t, day(2024, 1, 3), dates[2])
}

func TestHistoryClosesOnOmitsMissing(t *testing.T) {
	t.Parallel()

	h := History{
		"AAPL": NewSeries("AAPL", []Bar{{Time: day(2024, 1, 1), Close: 100}}),
		"MSFT": NewSeries("MSFT", []Bar{{Time: day(2024, 1, 2), Close: 200}}),
	}

	prices := h.ClosesOn(day(2024, 1, 1))
	require.Len(t, prices, 1)
	assert.Equal(t, 100.0, prices["AAPL"])
}

func TestHistoryUpToHidesFuture(t *testing.T) {
	t.Parallel()

	h := History{
		"AAPL": NewSeries("AAPL", []Bar{
			{Time: day(2024, 1, 1), Close: 100},
			{Time: day(2024, 1, 2), Close: 101},
		}),
	}

	trunc := h.UpTo(day(2024, 1, 1))
	_, ok := trunc["AAPL"].CloseOn(day(2024, 1, 2))
	assert.False(t, ok)
}
