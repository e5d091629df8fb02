package journal

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ExportTradesCSV writes a run's executed trades to w as CSV, header first.
func ExportTradesCSV(ctx context.Context, j Journal, runID string, w io.Writer) error {
	trades, err := j.ListTrades(ctx, runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"symbol", "action", "quantity_shares", "weight_fraction", "price",
		"gross_value", "commission", "slippage", "total_cost", "cash_delta",
		"winning", "executed_at", "reason",
	}); err != nil {
		return err
	}

	for _, ex := range trades {
		if err := cw.Write([]string{
			ex.Symbol,
			ex.Action,
			f(ex.Shares),
			f(ex.WeightFraction),
			f(ex.Price),
			f(ex.Gross),
			f(ex.Commission),
			f(ex.Slippage),
			f(ex.TotalCost),
			f(ex.CashDelta),
			strconv.FormatBool(ex.Winning),
			ex.Time.Format(time.RFC3339),
			ex.Reason,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportEquityCSV writes a run's equity curve to w as CSV, header first.
func ExportEquityCSV(ctx context.Context, j Journal, runID string, w io.Writer) error {
	points, err := j.ListEquity(ctx, runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "value", "daily_return"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{
			p.Time.Format(time.RFC3339),
			f(p.Value),
			f(p.DailyReturn),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
