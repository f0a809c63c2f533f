package portfolio

import (
	"context"
	"math"
	"time"

	"sensex-scalper/internal/interfaces"
)

// boundedOptimizer runs the wrapped solver under a time budget. A solver
// that overruns degrades to an undefined weight; it must never stall the
// tick loop.
type boundedOptimizer struct {
	inner  interfaces.Optimizer
	budget time.Duration
}

var _ interfaces.Optimizer = (*boundedOptimizer)(nil)

// WithBudget wraps an optimizer with a per-call time budget.
func WithBudget(inner interfaces.Optimizer, budget time.Duration) interfaces.Optimizer {
	return &boundedOptimizer{inner: inner, budget: budget}
}

type optResult struct {
	weight float64
	err    error
}

func (b *boundedOptimizer) Optimize(ctx context.Context, returns []float64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, b.budget)
	defer cancel()

	done := make(chan optResult, 1)
	go func() {
		w, err := b.inner.Optimize(ctx, returns)
		done <- optResult{weight: w, err: err}
	}()

	select {
	case res := <-done:
		return res.weight, res.err
	case <-ctx.Done():
		return math.NaN(), ctx.Err()
	}
}
