package portfolio

import (
	"context"
	"errors"
	"math"

	"sensex-scalper/internal/interfaces"
	"sensex-scalper/internal/store"
)

var (
	// ErrInsufficientData means the return series is too short to optimize.
	// Not an error condition for the pipeline; the weight stays undefined.
	ErrInsufficientData = errors.New("portfolio: insufficient return observations")
	// ErrSingularCovariance means the covariance of the return series is
	// degenerate and the Sharpe objective has no solution.
	ErrSingularCovariance = errors.New("portfolio: singular covariance")
	// ErrNonFiniteInput means the return series contains NaN or Inf samples.
	ErrNonFiniteInput = errors.New("portfolio: non-finite return sample")
)

// MeanVariance maximizes a mean-variance (Sharpe-objective) utility of the
// capital fraction allocated to the instrument, the rest held in cash:
//
//	U(w) = w*mu - (lambda/2) * w^2 * sigma^2
//
// with the closed-form maximizer w* = mu / (lambda * sigma^2), clamped to
// [0,1]. A degenerate covariance is a solver failure, not a zero weight.
type MeanVariance struct {
	cfg          *store.Config
	riskAversion float64
}

var _ interfaces.Optimizer = (*MeanVariance)(nil)

func NewMeanVariance(cfg *store.Config) *MeanVariance {
	return &MeanVariance{cfg: cfg, riskAversion: 1.0}
}

func (o *MeanVariance) Optimize(ctx context.Context, returns []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return math.NaN(), err
	}
	if len(returns) < 2 {
		return math.NaN(), ErrInsufficientData
	}

	var sum float64
	for _, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return math.NaN(), ErrNonFiniteInput
		}
		sum += r
	}
	mu := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mu
		variance += d * d
	}
	variance /= float64(len(returns))
	if variance == 0 {
		return math.NaN(), ErrSingularCovariance
	}

	w := mu / (o.riskAversion * variance)
	if len(weightsFor(w)) < 1 {
		// The solver produced fewer weights than rows needing assignment;
		// broadcast the configured fallback instead of a partial result.
		return o.cfg.Optimizer.FallbackWeight, nil
	}
	return clamp01(w), nil
}

// weightsFor normalizes the solver output into a weight vector. The current
// solver is single-asset; the indirection keeps the broadcast-fallback
// contract in one place should the universe grow.
func weightsFor(w float64) []float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return nil
	}
	return []float64{w}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Noop is the swappable no-op backend: it always reports an undefined
// weight and never fails.
type Noop struct{}

var _ interfaces.Optimizer = (*Noop)(nil)

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Optimize(context.Context, []float64) (float64, error) {
	return math.NaN(), nil
}
