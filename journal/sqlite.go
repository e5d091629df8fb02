package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ashesh8500/fractal/backtest"
	"github.com/ashesh8500/fractal/pkg/id"
	"github.com/ashesh8500/fractal/portfolio"
)

// SQLite implements Journal on a local SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an ephemeral journal.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveResult persists a completed run: its scalar summary, every executed
// trade, and the equity curve, all in one transaction keyed by a fresh ULID.
func (j *SQLite) SaveResult(ctx context.Context, res *backtest.Result) (string, error) {
	runID := id.New()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO backtest_runs
		(run_id, created, strategy, benchmark, start_date, end_date,
		 initial_capital, commission, slippage,
		 total_return, annualized_return, volatility, sharpe_ratio, max_drawdown,
		 benchmark_return, alpha, beta,
		 total_trades, winning_trades, losing_trades, final_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), res.StrategyName, res.Config.Benchmark,
		res.StartDate, res.EndDate,
		res.Config.InitialCapital, res.Config.Commission, res.Config.Slippage,
		res.TotalReturn, res.AnnualizedReturn, res.Volatility, res.SharpeRatio, res.MaxDrawdown,
		res.BenchmarkReturn, res.Alpha, res.Beta,
		res.TotalTrades, res.WinningTrades, res.LosingTrades, res.FinalValue(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	tradeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
		(trade_id, run_id, symbol, action, quantity_shares, weight_fraction,
		 price, gross_value, commission, slippage, total_cost, cash_delta,
		 winning, executed_at, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer tradeStmt.Close()

	for _, ex := range res.ExecutedTrades {
		if _, err := tradeStmt.ExecContext(ctx,
			id.New(), runID, ex.Symbol, ex.Action, ex.Shares, ex.WeightFraction,
			ex.Price, ex.Gross, ex.Commission, ex.Slippage, ex.TotalCost, ex.CashDelta,
			ex.Winning, ex.Time, ex.Reason,
		); err != nil {
			return "", fmt.Errorf("inserting trade for %s: %w", ex.Symbol, err)
		}
	}

	equityStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO equity (run_id, time, value, daily_return)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer equityStmt.Close()

	for i, ts := range res.Timestamps {
		// The first date has no prior value to return against.
		ret := 0.0
		if i > 0 {
			ret = res.DailyReturns[i-1]
		}
		if _, err := equityStmt.ExecContext(ctx, runID, ts, res.PortfolioValues[i], ret); err != nil {
			return "", fmt.Errorf("inserting equity point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

const runColumns = `run_id, created, strategy, benchmark, start_date, end_date,
	initial_capital, commission, slippage,
	total_return, annualized_return, volatility, sharpe_ratio, max_drawdown,
	benchmark_return, alpha, beta,
	total_trades, winning_trades, losing_trades, final_value`

func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var rec RunRecord
	err := row.Scan(
		&rec.RunID, &rec.Created, &rec.Strategy, &rec.Benchmark, &rec.Start, &rec.End,
		&rec.InitialCapital, &rec.Commission, &rec.Slippage,
		&rec.TotalReturn, &rec.AnnualizedReturn, &rec.Volatility, &rec.SharpeRatio, &rec.MaxDrawdown,
		&rec.BenchmarkReturn, &rec.Alpha, &rec.Beta,
		&rec.TotalTrades, &rec.WinningTrades, &rec.LosingTrades, &rec.FinalValue,
	)
	return rec, err
}

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM backtest_runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return RunRecord{}, fmt.Errorf("run %q not found", runID)
	}
	return rec, err
}

// ListRuns returns all run summaries, newest first. Run IDs are ULIDs, so
// lexicographic order is creation order.
func (j *SQLite) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM backtest_runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListTrades returns a run's executed trades in execution order.
func (j *SQLite) ListTrades(ctx context.Context, runID string) ([]portfolio.Execution, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT symbol, action, quantity_shares, weight_fraction, price,
		       gross_value, commission, slippage, total_cost, cash_delta,
		       winning, executed_at, reason
		FROM trades
		WHERE run_id = ?
		ORDER BY trade_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []portfolio.Execution
	for rows.Next() {
		var ex portfolio.Execution
		if err := rows.Scan(
			&ex.Symbol, &ex.Action, &ex.Shares, &ex.WeightFraction, &ex.Price,
			&ex.Gross, &ex.Commission, &ex.Slippage, &ex.TotalCost, &ex.CashDelta,
			&ex.Winning, &ex.Time, &ex.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// ListEquity returns a run's equity curve in date order.
func (j *SQLite) ListEquity(ctx context.Context, runID string) ([]EquityPoint, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, value, daily_return
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityPoint
	for rows.Next() {
		var p EquityPoint
		if err := rows.Scan(&p.Time, &p.Value, &p.DailyReturn); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (j *SQLite) Close() error {
	return j.db.Close()
}
