package backtest

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/ashesh8500/fractal/strategy"
)

// Spec is one backtest in a sweep: a strategy with its config and the run
// parameters.
type Spec struct {
	Name            string
	Strategy        strategy.Strategy
	StrategyConfig  strategy.Config
	Config          Config
	InitialHoldings map[string]float64
}

func (s Spec) name() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Strategy.Name()
}

// Sweep runs independent backtests concurrently, up to parallelism at a
// time. Each run owns its ledger and series, so the only shared state is the
// read-only provider. Failed specs do not stop the others; all failures come
// back combined, with nil results at the failed indexes.
func (e *Engine) Sweep(ctx context.Context, specs []Spec, parallelism int) ([]*Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]*Result, len(specs))
	errs := make([]error, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			res, err := e.Run(gctx, spec.Strategy, spec.StrategyConfig, spec.Config, spec.InitialHoldings)
			if err != nil {
				errs[i] = fmt.Errorf("spec %q: %w", spec.name(), err)
				return nil
			}
			results[i] = res
			return nil
		})
	}

	// Goroutines only report failures through errs, so Wait cannot fail;
	// the group is used for the concurrency limit and ctx plumbing.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, multierr.Combine(errs...)
}
