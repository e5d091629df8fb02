package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	alpaca "github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/ashesh8500/fractal/market"
)

// Alpaca fetches daily bars from the Alpaca market data API.
type Alpaca struct {
	client *alpaca.Client
	feed   alpaca.Feed
}

// AlpacaOpts configures an Alpaca provider. Key and Secret are required;
// BaseURL and Feed default to the public data API and the IEX feed.
type AlpacaOpts struct {
	Key     string
	Secret  string
	BaseURL string
	Feed    string
}

// NewAlpaca builds a provider from API credentials.
func NewAlpaca(opts AlpacaOpts) *Alpaca {
	clientOpts := alpaca.ClientOpts{
		APIKey:    opts.Key,
		APISecret: opts.Secret,
	}
	if opts.BaseURL != "" {
		clientOpts.BaseURL = opts.BaseURL
	}
	feed := alpaca.Feed(opts.Feed)
	if feed == "" {
		feed = alpaca.IEX
	}
	return &Alpaca{client: alpaca.NewClient(clientOpts), feed: feed}
}

// History fetches daily bars for all symbols in one multi-bar request.
// Symbols Alpaca returns nothing for are omitted from the result.
func (a *Alpaca) History(ctx context.Context, symbols []string, start, end time.Time) (market.History, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(symbols) == 0 {
		return market.History{}, nil
	}

	multiBars, err := a.client.GetMultiBars(symbols, alpaca.GetBarsRequest{
		TimeFrame: alpaca.OneDay,
		Start:     market.Day(start),
		End:       market.Day(end),
		Feed:      a.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca GetMultiBars: %w", err)
	}

	out := make(market.History, len(multiBars))
	for symbol, bars := range multiBars {
		sym := strings.ToUpper(symbol)
		converted := make([]market.Bar, 0, len(bars))
		for _, b := range bars {
			converted = append(converted, market.Bar{
				Time:   b.Timestamp,
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: int64(b.Volume),
			})
		}
		if len(converted) > 0 {
			out[sym] = market.NewSeries(sym, converted)
		}
	}
	return out, nil
}
