package risk

import (
	"context"
	"math"

	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/store"
	"sensex-scalper/internal/ta"
	"sensex-scalper/internal/types"
)

// Controller sizes positions inversely to volatility and annotates each
// evaluation with a kill-switch flag and a correlation warning.
//
// The reference series (e.g. an interest-rate proxy) is optional; when it is
// absent the correlation check degrades to a neutral default instead of
// blocking, logged once.
type Controller struct {
	cfg        *store.Config
	instrument string

	reference      []float64
	warnedNoSeries bool
}

func NewController(cfg *store.Config, instrument string) *Controller {
	return &Controller{cfg: cfg, instrument: instrument}
}

// SetReferenceSeries installs the macro reference series used for the
// correlation check. A nil series keeps the controller in degraded mode.
func (c *Controller) SetReferenceSeries(series []float64) {
	c.reference = series
}

// AppendReference folds one reference observation, bounded to the price
// history size.
func (c *Controller) AppendReference(v float64) {
	c.reference = append(c.reference, v)
	if max := c.cfg.Indicators.HistorySize; len(c.reference) > max {
		c.reference = c.reference[1:]
	}
}

// Assess computes position size, risk flag, and the correlation warning for
// the current tick given the price history.
func (c *Controller) Assess(ctx context.Context, closes []float64, point types.EnrichedPoint) types.RiskAssessment {
	out := types.RiskAssessment{
		RiskFlag:        types.RiskNormal,
		OptimizedWeight: math.NaN(),
	}

	vol := point.Volatility
	switch {
	case math.IsNaN(vol) || vol == 0:
		// No sizing signal exists; an infinite position must never escape.
		out.PositionSize = 0
		out.RiskFlag = types.RiskHigh
	default:
		out.PositionSize = 1.0 / (vol * c.cfg.Risk.PositionSizeScale)
	}

	if !math.IsNaN(vol) && vol > c.cfg.Risk.KillSwitchVolatility {
		if out.RiskFlag != types.RiskHigh {
			logger.Risk(ctx, c.instrument, "KILL_SWITCH",
				"volatility", vol,
				"limit", c.cfg.Risk.KillSwitchVolatility,
			)
		}
		out.RiskFlag = types.RiskHigh
	}

	out.CorrelationWarn = c.correlationWarning(ctx, closes)
	return out
}

func (c *Controller) correlationWarning(ctx context.Context, closes []float64) bool {
	if len(c.reference) == 0 {
		if !c.warnedNoSeries {
			logger.Warn(ctx, "Reference series unavailable, correlation check degraded to neutral",
				"instrument", c.instrument,
			)
			c.warnedNoSeries = true
		}
		return false
	}

	corr := ta.Correlation(closes, c.reference)
	if math.IsNaN(corr) {
		return false
	}
	if math.Abs(corr) > c.cfg.Risk.CorrelationLimit {
		logger.Risk(ctx, c.instrument, "HIGH_CORRELATION",
			"correlation", corr,
			"limit", c.cfg.Risk.CorrelationLimit,
		)
		return true
	}
	return false
}
