package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashesh8500/fractal/backtest"
	"github.com/ashesh8500/fractal/config"
	"github.com/ashesh8500/fractal/journal"
	"github.com/ashesh8500/fractal/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest and record it in the journal",
	Long: `Backtest replays a strategy against historical daily prices and reports
performance metrics.

Example:
  fractal backtest -c config.yaml --strategy momentum --start 2023-01-01 --end 2024-01-01`,
	RunE: runBacktest,
}

var (
	btStrategy  string
	btFrequency string
	btStart     string
	btEnd       string
	btDBPath    string
	btNoJournal bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "", "strategy name (overrides config)")
	backtestCmd.Flags().StringVar(&btFrequency, "frequency", "", "rebalance frequency (overrides config)")
	backtestCmd.Flags().StringVar(&btStart, "start", "", "start date YYYY-MM-DD (overrides config)")
	backtestCmd.Flags().StringVar(&btEnd, "end", "", "end date YYYY-MM-DD (overrides config)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
	backtestCmd.Flags().BoolVar(&btNoJournal, "no-journal", false, "skip persisting the run")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBacktestOverrides(cfg)

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	runCfg, err := cfg.BacktestRun()
	if err != nil {
		return err
	}
	strat, err := strategy.ByName(cfg.Strategy.Name)
	if err != nil {
		return err
	}
	provider, err := buildProvider(cfg, logger)
	if err != nil {
		return err
	}

	engine := backtest.NewEngine(provider, logger.Named("engine"))
	res, err := engine.Run(context.Background(), strat, cfg.StrategyRun(), runCfg, cfg.Holdings)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	printResult(cmd, res)

	if btNoJournal || cfg.Journal.DBPath == "" {
		return nil
	}
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runID, err := j.SaveResult(context.Background(), res)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	cmd.Printf("\nRun saved as %s\n", runID)
	return nil
}

// applyBacktestOverrides folds the command line flags into the loaded
// config before it is validated.
func applyBacktestOverrides(cfg *config.Config) {
	if btStrategy != "" {
		cfg.Strategy.Name = btStrategy
	}
	if btFrequency != "" {
		cfg.Strategy.RebalanceFrequency = btFrequency
	}
	if btStart != "" {
		cfg.Backtest.Start = btStart
	}
	if btEnd != "" {
		cfg.Backtest.End = btEnd
	}
	if btDBPath != "" {
		cfg.Journal.DBPath = btDBPath
	}
}

func printResult(cmd *cobra.Command, res *backtest.Result) {
	cmd.Printf("Strategy:          %s\n", res.StrategyName)
	cmd.Printf("Period:            %s to %s (%d trading days)\n",
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"), len(res.Timestamps))
	cmd.Printf("Final value:       %.2f\n", res.FinalValue())
	cmd.Printf("Total return:      %.2f%%\n", res.TotalReturn*100)
	cmd.Printf("Annualized return: %.2f%%\n", res.AnnualizedReturn*100)
	cmd.Printf("Volatility:        %.2f%%\n", res.Volatility*100)
	cmd.Printf("Sharpe ratio:      %.2f\n", res.SharpeRatio)
	cmd.Printf("Max drawdown:      %.2f%%\n", res.MaxDrawdown*100)
	cmd.Printf("Benchmark return:  %.2f%%\n", res.BenchmarkReturn*100)
	cmd.Printf("Trades:            %d total, %d winning, %d losing\n",
		res.TotalTrades, res.WinningTrades, res.LosingTrades)
}
