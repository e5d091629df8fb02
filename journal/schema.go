package journal

const Schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	strategy TEXT NOT NULL,
	benchmark TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	initial_capital REAL NOT NULL,
	commission REAL NOT NULL,
	slippage REAL NOT NULL,
	total_return REAL NOT NULL,
	annualized_return REAL NOT NULL,
	volatility REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	benchmark_return REAL NOT NULL,
	alpha REAL NOT NULL,
	beta REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	winning_trades INTEGER NOT NULL,
	losing_trades INTEGER NOT NULL,
	final_value REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES backtest_runs(run_id),
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	quantity_shares REAL NOT NULL,
	weight_fraction REAL NOT NULL,
	price REAL NOT NULL,
	gross_value REAL NOT NULL,
	commission REAL NOT NULL,
	slippage REAL NOT NULL,
	total_cost REAL NOT NULL,
	cash_delta REAL NOT NULL,
	winning INTEGER NOT NULL,
	executed_at DATETIME NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL REFERENCES backtest_runs(run_id),
	time DATETIME NOT NULL,
	value REAL NOT NULL,
	daily_return REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run_time ON equity(run_id, time);
`
