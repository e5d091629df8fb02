package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/ashesh8500/fractal/market"
)

// barRecord is the on-disk Parquet schema for cached daily bars.
type barRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    int64   `parquet:"volume"`
}

// Cache wraps another Provider with a per-symbol Parquet file cache so
// repeated backtests over the same universe do not refetch history. Layout is
// one file per symbol: <dir>/<SYMBOL>.parquet.
type Cache struct {
	source Provider
	dir    string
	log    *zap.Logger
}

// NewCache builds a caching provider rooted at dir. A nil logger disables
// logging.
func NewCache(source Provider, dir string, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{source: source, dir: dir, log: log}
}

// History serves each symbol from its cache file when the cached span covers
// [start, end]; otherwise it fetches the full range from the source, merges
// it into the cache, and serves the fresh data. Symbols the source knows
// nothing about stay uncached and are omitted.
func (c *Cache) History(ctx context.Context, symbols []string, start, end time.Time) (market.History, error) {
	start, end = market.Day(start), market.Day(end)

	out := make(market.History, len(symbols))
	var misses []string
	for _, sym := range symbols {
		series, ok := c.readCached(sym, start, end)
		if ok {
			out[sym] = series
			continue
		}
		misses = append(misses, sym)
	}

	if len(misses) == 0 {
		return out, nil
	}
	c.log.Debug("cache misses", zap.Strings("symbols", misses))

	fetched, err := c.source.History(ctx, misses, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching %d uncached symbols: %w", len(misses), err)
	}
	for sym, series := range fetched {
		if err := c.writeCached(sym, series); err != nil {
			// A broken cache write must not fail the run.
			c.log.Warn("cache write failed", zap.String("symbol", sym), zap.Error(err))
		}
		out[sym] = series
	}
	return out, nil
}

// readCached returns the cached series restricted to [start, end], ok only
// when the cached span covers the whole range.
func (c *Cache) readCached(symbol string, start, end time.Time) (market.Series, bool) {
	records, err := parquet.ReadFile[barRecord](c.path(symbol))
	if err != nil || len(records) == 0 {
		return market.Series{}, false
	}

	bars := make([]market.Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, market.Bar{
			Time:   time.UnixMilli(r.Timestamp),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	series := market.NewSeries(symbol, bars)

	first, _ := series.First()
	last, _ := series.Last()
	if first.Time.After(start) || last.Time.Before(end) {
		return market.Series{}, false
	}
	return series.UpTo(end).TrimBefore(start), true
}

func (c *Cache) writeCached(symbol string, series market.Series) error {
	existing, _ := parquet.ReadFile[barRecord](c.path(symbol))

	merged := make(map[int64]barRecord, len(existing)+series.Len())
	for _, r := range existing {
		merged[r.Timestamp] = r
	}
	for _, b := range series.Bars {
		merged[b.Time.UnixMilli()] = barRecord{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}

	bars := make([]market.Bar, 0, len(merged))
	for _, r := range merged {
		bars = append(bars, market.Bar{
			Time: time.UnixMilli(r.Timestamp), Open: r.Open, High: r.High,
			Low: r.Low, Close: r.Close, Volume: r.Volume,
		})
	}
	sorted := market.NewSeries(symbol, bars)

	records := make([]barRecord, 0, sorted.Len())
	for _, b := range sorted.Bars {
		records = append(records, barRecord{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	path := c.path(symbol)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func (c *Cache) path(symbol string) string {
	return filepath.Join(c.dir, strings.ToUpper(symbol)+".parquet")
}
