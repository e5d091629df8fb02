// Package portfolio implements the cash and holdings ledger the backtest
// engine mutates as it executes trades.
package portfolio

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientCash is returned by Buy when the gross cost plus fees
// exceeds available cash. Callers treat it as a skipped trade.
var ErrInsufficientCash = errors.New("portfolio: insufficient cash")

// CostModel holds the fractional transaction cost rates applied to the gross
// value of every executed trade.
type CostModel struct {
	CommissionRate float64
	SlippageRate   float64
}

// Costs returns the commission and slippage charged on a gross trade value.
func (c CostModel) Costs(gross float64) (commission, slippage float64) {
	return gross * c.CommissionRate, gross * c.SlippageRate
}

// Execution is the audit record of one executed trade. WeightFraction, Time
// and Reason are filled in by the engine; the ledger fills the money fields.
type Execution struct {
	Symbol         string    `json:"symbol"`
	Action         string    `json:"action"`
	Shares         float64   `json:"quantity_shares"`
	WeightFraction float64   `json:"weight_fraction"`
	Price          float64   `json:"price"`
	Gross          float64   `json:"gross_value"`
	Commission     float64   `json:"commission"`
	Slippage       float64   `json:"slippage"`
	TotalCost      float64   `json:"total_cost"`
	CashDelta      float64   `json:"cash_delta"`
	Winning        bool      `json:"winning"`
	Time           time.Time `json:"timestamp"`
	Reason         string    `json:"reason,omitempty"`
}

// Ledger tracks cash and per-symbol share counts. Shares never go negative
// and cash never goes below zero; Buy and Sell enforce both.
type Ledger struct {
	cash     float64
	holdings map[string]float64
}

// NewLedger builds a ledger with the given cash and starting holdings.
// Non-positive share counts are dropped.
func NewLedger(cash float64, holdings map[string]float64) *Ledger {
	h := make(map[string]float64, len(holdings))
	for sym, shares := range holdings {
		if shares > 0 {
			h[sym] = shares
		}
	}
	return &Ledger{cash: cash, holdings: h}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 { return l.cash }

// Shares returns the share count held for symbol, zero when absent.
func (l *Ledger) Shares(symbol string) float64 { return l.holdings[symbol] }

// Holdings returns a copy of the current symbol to shares map.
func (l *Ledger) Holdings() map[string]float64 {
	out := make(map[string]float64, len(l.holdings))
	for sym, shares := range l.holdings {
		out[sym] = shares
	}
	return out
}

// InvestedValue sums shares times price over symbols with an available
// price. Symbols missing a price contribute nothing but keep their shares;
// missing data must not invent or destroy holdings.
func (l *Ledger) InvestedValue(prices map[string]float64) float64 {
	var invested float64
	for sym, shares := range l.holdings {
		if price, ok := prices[sym]; ok {
			invested += shares * price
		}
	}
	return invested
}

// ValueAt returns total portfolio value: cash plus invested value at the
// given prices.
func (l *Ledger) ValueAt(prices map[string]float64) float64 {
	return l.cash + l.InvestedValue(prices)
}

// WeightsAt returns each priced holding's share of invested value. Cash is
// deliberately outside the denominator; when nothing is invested every
// weight is zero.
func (l *Ledger) WeightsAt(prices map[string]float64) map[string]float64 {
	invested := l.InvestedValue(prices)
	out := make(map[string]float64, len(l.holdings))
	for sym, shares := range l.holdings {
		price, ok := prices[sym]
		if !ok {
			continue
		}
		if invested > 0 {
			out[sym] = shares * price / invested
		} else {
			out[sym] = 0
		}
	}
	return out
}

// Buy purchases shares at price, charging commission and slippage on the
// gross value. It fails with ErrInsufficientCash when cash cannot cover
// gross plus fees.
func (l *Ledger) Buy(symbol string, shares, price float64, costs CostModel) (Execution, error) {
	if shares <= 0 || price <= 0 {
		return Execution{}, fmt.Errorf("portfolio: buy %s: shares and price must be positive", symbol)
	}

	gross := shares * price
	commission, slippage := costs.Costs(gross)
	total := commission + slippage
	if l.cash < gross+total {
		return Execution{}, fmt.Errorf("portfolio: buy %s needs %.2f, have %.2f: %w",
			symbol, gross+total, l.cash, ErrInsufficientCash)
	}

	l.cash -= gross + total
	l.holdings[symbol] += shares

	return Execution{
		Symbol:     symbol,
		Action:     "buy",
		Shares:     shares,
		Price:      price,
		Gross:      gross,
		Commission: commission,
		Slippage:   slippage,
		TotalCost:  total,
		CashDelta:  -(gross + total),
	}, nil
}

// Sell disposes of up to shares at price; the quantity is clamped to the
// held amount so the ledger can never go short. The trade is classified
// winning when net proceeds beat 95% of gross, a simplified breakeven
// heuristic kept for compatibility with historical results.
func (l *Ledger) Sell(symbol string, shares, price float64, costs CostModel) (Execution, error) {
	if shares <= 0 || price <= 0 {
		return Execution{}, fmt.Errorf("portfolio: sell %s: shares and price must be positive", symbol)
	}
	held := l.holdings[symbol]
	if held <= 0 {
		return Execution{}, fmt.Errorf("portfolio: sell %s: nothing held", symbol)
	}
	if shares > held {
		shares = held
	}

	gross := shares * price
	commission, slippage := costs.Costs(gross)
	total := commission + slippage
	proceeds := gross - total

	l.cash += proceeds
	l.holdings[symbol] -= shares
	if l.holdings[symbol] <= 0 {
		delete(l.holdings, symbol)
	}

	return Execution{
		Symbol:     symbol,
		Action:     "sell",
		Shares:     shares,
		Price:      price,
		Gross:      gross,
		Commission: commission,
		Slippage:   slippage,
		TotalCost:  total,
		CashDelta:  proceeds,
		Winning:    proceeds > 0.95*gross,
	}, nil
}
