package engine

import (
	"context"
	"math"
	"time"

	"sensex-scalper/internal/indicator"
	"sensex-scalper/internal/interfaces"
	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/risk"
	"sensex-scalper/internal/signal"
	"sensex-scalper/internal/store"
	"sensex-scalper/internal/trace"
	"sensex-scalper/internal/types"
)

// Engine is the per-instrument decision pipeline: each tick is enriched with
// indicators, classified, risk-sized, optionally weight-refined, gated by the
// circuit breaker, and assembled into a TradeIntent.
//
// Step is sequential per instrument; no tick is evaluated before the previous
// one has been folded into history. No failure in a single-tick evaluation
// aborts processing of subsequent ticks.
type Engine struct {
	cfg        *store.Config
	instrument string

	indicators *indicator.Engine
	detector   *signal.Detector
	riskctl    *risk.Controller
	breaker    *risk.CircuitBreaker
	optimizer  interfaces.Optimizer
}

var _ interfaces.Pipeline = (*Engine)(nil)

func New(cfg *store.Config, sentiment interfaces.Sentimenter, optimizer interfaces.Optimizer) *Engine {
	return &Engine{
		cfg:        cfg,
		instrument: cfg.Instrument,
		indicators: indicator.New(cfg, sentiment),
		detector:   signal.New(cfg),
		riskctl:    risk.NewController(cfg, cfg.Instrument),
		breaker:    risk.NewCircuitBreaker(cfg, cfg.Instrument),
		optimizer:  optimizer,
	}
}

// Step evaluates one tick and returns the resulting trade intent.
func (e *Engine) Step(ctx context.Context, tick types.MarketTick) (types.TradeIntent, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	point := e.indicators.Enrich(tick)
	logger.Debug(ctx, "Tick enriched",
		"instrument", e.instrument,
		"price", tick.Price,
		"volume", tick.Volume,
		"rsi", point.RSI,
		"macd", point.MACD,
		"volatility", point.Volatility,
		"sentiment", point.Sentiment,
	)

	sig := e.detector.Detect(tick)
	assessment := e.riskctl.Assess(ctx, e.indicators.Closes(), point)
	assessment.OptimizedWeight = e.refineWeight(ctx, sig)

	intent := Assemble(sig, assessment, e.breaker.Tripped(), tick.Timestamp)

	if intent.Signal != types.SignalNone {
		logger.Signal(ctx, e.instrument, string(intent.Signal), intent.PositionSize,
			"risk_flag", string(intent.RiskFlag),
			"correlation_warn", assessment.CorrelationWarn,
		)
	}
	return intent, nil
}

// refineWeight is best-effort: any solver failure degrades to an undefined
// weight and is logged, never propagated. Ticks with no actionable signal
// skip the solver entirely.
func (e *Engine) refineWeight(ctx context.Context, sig types.Signal) float64 {
	if !e.cfg.Optimizer.Enabled || sig == types.SignalNone {
		return math.NaN()
	}
	weight, err := e.optimizer.Optimize(ctx, e.indicators.ReturnSeries())
	if err != nil {
		logger.Warn(ctx, "Portfolio optimization degraded to undefined weight",
			"instrument", e.instrument,
			"error", err,
		)
		return math.NaN()
	}
	return weight
}

// RecordOutcome feeds a realized trade result into the circuit breaker.
func (e *Engine) RecordOutcome(ctx context.Context, outcome types.TradeOutcome) {
	e.breaker.RecordOutcome(ctx, outcome)
}

// ResetSession re-arms the breaker and drops the detector's previous-tick
// reference. Called at the session boundary (market open), never mid-session.
func (e *Engine) ResetSession(ctx context.Context) {
	e.breaker.Reset(ctx)
	e.detector.Reset()
}

// SetReferenceSeries installs the macro series for the correlation check.
func (e *Engine) SetReferenceSeries(series []float64) {
	e.riskctl.SetReferenceSeries(series)
}

// Session returns the current breaker counters.
func (e *Engine) Session() types.SessionSnapshot {
	return e.breaker.Snapshot()
}

// Assemble composes the final TradeIntent and enforces the global invariant:
// position_size == 0 exactly when signal == NONE or the breaker is tripped.
// A tick that cannot be sized (degenerate volatility) therefore carries no
// actionable signal either.
func Assemble(sig types.Signal, assessment types.RiskAssessment, tripped bool, ts time.Time) types.TradeIntent {
	size := assessment.PositionSize

	if tripped {
		sig = types.SignalNone
	}
	if sig == types.SignalNone {
		size = 0
	}
	if size == 0 {
		sig = types.SignalNone
	}

	return types.TradeIntent{
		Signal:          sig,
		PositionSize:    size,
		RiskFlag:        assessment.RiskFlag,
		OptimizedWeight: types.WeightJSON(assessment.OptimizedWeight),
		Timestamp:       ts,
	}
}
