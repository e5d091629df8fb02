package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ashesh8500/fractal/market"
)

// CSVDir reads daily bars from per-symbol CSV files in a directory. Each
// symbol lives in <dir>/<SYMBOL>.csv with a header row and columns
// date,open,high,low,close,volume. Missing files mean the symbol is simply
// absent from the result.
type CSVDir struct {
	Dir string
}

// NewCSVDir builds a provider over the given directory.
func NewCSVDir(dir string) *CSVDir {
	return &CSVDir{Dir: dir}
}

// History loads and range-filters the CSV file of every requested symbol.
func (c *CSVDir) History(ctx context.Context, symbols []string, start, end time.Time) (market.History, error) {
	start, end = market.Day(start), market.Day(end)

	out := make(market.History, len(symbols))
	for _, sym := range symbols {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		bars, err := c.readSymbol(sym)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var inRange []market.Bar
		for _, b := range bars {
			if b.Time.Before(start) || b.Time.After(end) {
				continue
			}
			inRange = append(inRange, b)
		}
		if len(inRange) > 0 {
			out[sym] = market.NewSeries(sym, inRange)
		}
	}
	return out, nil
}

func (c *CSVDir) readSymbol(symbol string) ([]market.Bar, error) {
	path := filepath.Join(c.Dir, strings.ToUpper(symbol)+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// Header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var bars []market.Bar
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("%s:%d: want 6 columns, got %d", path, line, len(rec))
		}

		ts, err := parseDay(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		vals := make([]float64, 4)
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: column %d: %w", path, line, i+2, err)
			}
			vals[i] = v
		}
		vol, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: volume: %w", path, line, err)
		}

		bars = append(bars, market.Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vol,
		})
	}
	return bars, nil
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return market.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
