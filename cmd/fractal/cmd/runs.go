package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashesh8500/fractal/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded backtest runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		runs, err := j.ListRuns(context.Background())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("No runs recorded.")
			return nil
		}
		cmd.Printf("%-28s %-18s %-12s %-12s %10s %8s\n",
			"RUN", "STRATEGY", "START", "END", "RETURN", "TRADES")
		for _, r := range runs {
			cmd.Printf("%-28s %-18s %-12s %-12s %9.2f%% %8d\n",
				r.RunID, r.Strategy,
				r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"),
				r.TotalReturn*100, r.TotalTrades)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the summary of a single run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		rec, err := j.GetRun(context.Background(), args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Run:               %s\n", rec.RunID)
		cmd.Printf("Strategy:          %s\n", rec.Strategy)
		cmd.Printf("Period:            %s to %s\n",
			rec.Start.Format("2006-01-02"), rec.End.Format("2006-01-02"))
		cmd.Printf("Initial capital:   %.2f\n", rec.InitialCapital)
		cmd.Printf("Final value:       %.2f\n", rec.FinalValue)
		cmd.Printf("Total return:      %.2f%%\n", rec.TotalReturn*100)
		cmd.Printf("Annualized return: %.2f%%\n", rec.AnnualizedReturn*100)
		cmd.Printf("Volatility:        %.2f%%\n", rec.Volatility*100)
		cmd.Printf("Sharpe ratio:      %.2f\n", rec.SharpeRatio)
		cmd.Printf("Max drawdown:      %.2f%%\n", rec.MaxDrawdown*100)
		cmd.Printf("Benchmark (%s):   %.2f%%\n", rec.Benchmark, rec.BenchmarkReturn*100)
		cmd.Printf("Trades:            %d total, %d winning, %d losing\n",
			rec.TotalTrades, rec.WinningTrades, rec.LosingTrades)
		return nil
	},
}

var (
	exportKind string
	exportOut  string
)

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run's trades or equity curve as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		out := cmd.OutOrStdout()
		if exportOut != "" {
			f, ferr := os.Create(exportOut)
			if ferr != nil {
				return ferr
			}
			defer f.Close()
			out = f
		}

		ctx := context.Background()
		switch exportKind {
		case "trades":
			return journal.ExportTradesCSV(ctx, j, args[0], out)
		case "equity":
			return journal.ExportEquityCSV(ctx, j, args[0], out)
		default:
			return fmt.Errorf("unknown export kind %q (want trades or equity)", exportKind)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)

	runsCmd.PersistentFlags().StringVarP(&btDBPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
	runsExportCmd.Flags().StringVar(&exportKind, "kind", "trades", "what to export: trades or equity")
	runsExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout")
}

// openJournal resolves the DB path from the --db flag or the config file.
func openJournal() (*journal.SQLite, error) {
	path := btDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal DB configured, pass --db or set journal.db_path")
	}
	return journal.NewSQLite(path)
}
