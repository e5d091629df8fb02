package backtest

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ashesh8500/fractal/market"
	"github.com/ashesh8500/fractal/marketdata"
	"github.com/ashesh8500/fractal/portfolio"
	"github.com/ashesh8500/fractal/risk"
	"github.com/ashesh8500/fractal/strategy"
)

// Engine runs backtests against history from an injected market data
// provider. The per-date loop is strictly sequential; each date's valuation
// depends on all prior trades. Independent runs share no state and may be
// executed in parallel (see Sweep).
type Engine struct {
	provider marketdata.Provider
	log      *zap.Logger
}

// NewEngine builds an engine. A nil logger disables logging.
func NewEngine(provider marketdata.Provider, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{provider: provider, log: log}
}

// Run executes one backtest: fetch history for the symbol universe, walk the
// aligned date axis, consult the strategy on its rebalance cadence, execute
// the resulting trades against the ledger, and derive metrics from the
// recorded equity curve.
func (e *Engine) Run(
	ctx context.Context,
	strat strategy.Strategy,
	stratCfg strategy.Config,
	cfg Config,
	initialHoldings map[string]float64,
) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	universe := symbolUniverse(initialHoldings, cfg.Benchmark)
	history, err := e.provider.History(ctx, universe, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %d symbols: %w", len(universe), err)
	}
	if len(history) == 0 {
		return nil, ErrNoPriceData
	}

	dates := history.Dates(cfg.StartDate, cfg.EndDate)
	if len(dates) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientData, len(dates))
	}

	// Seed the ledger: value the initial holdings at first-date prices and
	// hold the remainder of the configured capital as cash. Valuation above
	// the capital just means zero starting cash, never negative.
	firstPrices := history.ClosesOn(dates[0])
	ledger := portfolio.NewLedger(0, initialHoldings)
	initialValue := ledger.InvestedValue(firstPrices)
	cash := math.Max(cfg.InitialCapital-initialValue, 0)
	ledger = portfolio.NewLedger(cash, initialHoldings)

	costs := portfolio.CostModel{CommissionRate: cfg.Commission, SlippageRate: cfg.Slippage}
	policy := risk.Policy{MaxOrderWeight: stratCfg.MaxPositionSize}
	rebalanceDays := rebalancePeriodDays(stratCfg.RebalanceFrequency)

	log := e.log.With(zap.String("strategy", strat.Name()))
	log.Info("starting backtest",
		zap.Time("start", dates[0]),
		zap.Time("end", dates[len(dates)-1]),
		zap.Int("dates", len(dates)),
		zap.Int("rebalance_days", rebalanceDays),
	)

	var (
		values          = make([]float64, 0, len(dates))
		returns         = make([]float64, 0, len(dates)-1)
		timestamps      = make([]time.Time, 0, len(dates))
		holdingsHistory = make([]map[string]float64, 0, len(dates))

		rebalances []RebalanceDetail
		executed   []portfolio.Execution

		totalTrades, winningTrades, losingTrades int

		lastRebalance time.Time
		rebalanced    bool
		prevValue     float64
	)

	for i, today := range dates {
		prices := history.ClosesOn(today)
		value := ledger.ValueAt(prices)
		weights := ledger.WeightsAt(prices)

		values = append(values, value)
		timestamps = append(timestamps, today)
		holdingsHistory = append(holdingsHistory, ledger.Holdings())
		if i > 0 {
			returns = append(returns, (value-prevValue)/prevValue)
		}
		prevValue = value

		due := !rebalanced || daysBetween(lastRebalance, today) >= rebalanceDays
		if !due || i == len(dates)-1 {
			// Never rebalance on the last date; there is no later date to
			// observe the effect.
			continue
		}

		res, err := strat.Execute(weights, history.UpTo(today), prices, stratCfg)
		if err != nil {
			// The only recoverable failure: skip this rebalance, keep the
			// ledger untouched, and keep walking.
			log.Warn("strategy execution failed, skipping rebalance",
				zap.Time("date", today),
				zap.Error(err),
			)
			continue
		}

		execs := e.executeTrades(res.Trades, ledger, prices, value, costs, policy, today, log)
		for _, ex := range execs {
			totalTrades++
			if ex.Action == "sell" {
				if ex.Winning {
					winningTrades++
				} else {
					losingTrades++
				}
			}
		}
		executed = append(executed, execs...)
		rebalances = append(rebalances, RebalanceDetail{
			Time:         today,
			StrategyName: res.StrategyName,
			NewWeights:   res.NewWeights,
			Trades:       execs,
		})
		lastRebalance = today
		rebalanced = true
	}

	bench := benchmarkReturn(history, cfg.Benchmark, cfg.StartDate, cfg.EndDate)
	m := computeMetrics(values, returns, bench)

	log.Info("backtest complete",
		zap.Float64("total_return", m.TotalReturn),
		zap.Float64("sharpe", m.SharpeRatio),
		zap.Int("trades", totalTrades),
		zap.Int("rebalances", len(rebalances)),
	)

	return &Result{
		StrategyName: strat.Name(),
		Config:       cfg,
		StartDate:    dates[0],
		EndDate:      dates[len(dates)-1],

		TotalReturn:      m.TotalReturn,
		AnnualizedReturn: m.AnnualizedReturn,
		Volatility:       m.Volatility,
		SharpeRatio:      m.SharpeRatio,
		MaxDrawdown:      m.MaxDrawdown,
		BenchmarkReturn:  m.BenchmarkReturn,
		Alpha:            m.Alpha,
		Beta:             m.Beta,

		TotalTrades:   totalTrades,
		WinningTrades: winningTrades,
		LosingTrades:  losingTrades,

		PortfolioValues: values,
		DailyReturns:    returns,
		Timestamps:      timestamps,
		HoldingsHistory: holdingsHistory,

		RebalanceDetails: rebalances,
		ExecutedTrades:   executed,
	}, nil
}

// executeTrades applies the strategy's weight-fraction trades to the ledger.
// Trade quantities are fractions of the portfolio value at rebalance time,
// clamped to [0, 1], checked against the risk policy, and converted to
// shares at today's close. Missing prices, non-positive quantities, and buys
// the cash cannot cover are skipped silently; the rest of the batch still
// executes.
func (e *Engine) executeTrades(
	trades []strategy.Trade,
	ledger *portfolio.Ledger,
	prices map[string]float64,
	portfolioValue float64,
	costs portfolio.CostModel,
	policy risk.Policy,
	today time.Time,
	log *zap.Logger,
) []portfolio.Execution {
	var out []portfolio.Execution
	for _, tr := range trades {
		price, ok := prices[tr.Symbol]
		if !ok || price <= 0 {
			continue
		}

		dec := risk.Evaluate(policy, string(tr.Action), tr.Quantity)
		if !dec.Allowed {
			continue
		}
		fraction := dec.Fraction
		dollars := fraction * portfolioValue
		if dollars <= 0 {
			continue
		}
		shares := dollars / price

		var (
			ex  portfolio.Execution
			err error
		)
		switch tr.Action {
		case strategy.Buy:
			ex, err = ledger.Buy(tr.Symbol, shares, price, costs)
		case strategy.Sell:
			if ledger.Shares(tr.Symbol) <= 0 {
				continue
			}
			ex, err = ledger.Sell(tr.Symbol, shares, price, costs)
		default:
			continue
		}
		if err != nil {
			log.Debug("trade skipped",
				zap.String("symbol", tr.Symbol),
				zap.String("action", string(tr.Action)),
				zap.Error(err),
			)
			continue
		}

		ex.WeightFraction = fraction
		ex.Time = today
		if !tr.Time.IsZero() {
			ex.Time = tr.Time
		}
		ex.Reason = tr.Reason
		out = append(out, ex)
	}
	return out
}

// symbolUniverse is the union of initial-holdings symbols and the benchmark.
func symbolUniverse(holdings map[string]float64, benchmark string) []string {
	out := make([]string, 0, len(holdings)+1)
	seen := make(map[string]struct{}, len(holdings)+1)
	for sym := range holdings {
		if _, dup := seen[sym]; !dup {
			seen[sym] = struct{}{}
			out = append(out, sym)
		}
	}
	if benchmark != "" {
		if _, dup := seen[benchmark]; !dup {
			out = append(out, benchmark)
		}
	}
	return out
}

// daysBetween counts whole calendar days from a to b. Both are normalized to
// midnight UTC by the date axis, so the division is exact.
func daysBetween(a, b time.Time) int {
	return int(market.Day(b).Sub(market.Day(a)).Hours() / 24)
}

