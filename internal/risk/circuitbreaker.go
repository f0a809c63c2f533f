package risk

import (
	"context"
	"sync"

	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/store"
	"sensex-scalper/internal/types"
)

// BreakerState is the circuit breaker's current state.
type BreakerState string

const (
	StateArmed   BreakerState = "ARMED"
	StateTripped BreakerState = "TRIPPED"
)

// CircuitBreaker tracks session P&L and the loss streak, and suppresses new
// signals once either limit is breached. It never re-arms mid-session; only
// an explicit session-boundary reset returns it to ARMED.
//
// RecordOutcome is the single writer of session state; the mutex serializes
// outcome feedback against snapshot reads.
type CircuitBreaker struct {
	mu sync.Mutex

	cfg        *store.Config
	instrument string

	state             BreakerState
	dailyPnL          float64
	consecutiveLosses int
}

func NewCircuitBreaker(cfg *store.Config, instrument string) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, instrument: instrument, state: StateArmed}
}

// RecordOutcome folds one realized trade result into the session counters
// and trips the breaker when a limit is breached.
func (cb *CircuitBreaker) RecordOutcome(ctx context.Context, outcome types.TradeOutcome) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.dailyPnL += outcome.PnL
	if outcome.PnL < 0 {
		cb.consecutiveLosses++
	} else {
		cb.consecutiveLosses = 0
	}

	if cb.state == StateTripped {
		return
	}
	if cb.dailyPnL <= -cb.cfg.Risk.MaxDailyLoss {
		cb.trip(ctx, "DAILY_LOSS_LIMIT")
		return
	}
	if cb.consecutiveLosses >= cb.cfg.Risk.MaxConsecutiveLosses {
		cb.trip(ctx, "CONSECUTIVE_LOSSES")
	}
}

// caller holds cb.mu
func (cb *CircuitBreaker) trip(ctx context.Context, reason string) {
	cb.state = StateTripped
	logger.Risk(ctx, cb.instrument, "CIRCUIT_BREAKER_TRIPPED",
		"reason", reason,
		"daily_pnl", cb.dailyPnL,
		"consecutive_losses", cb.consecutiveLosses,
	)
}

// Tripped reports whether new signals are currently suppressed.
func (cb *CircuitBreaker) Tripped() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == StateTripped
}

// Reset re-arms the breaker and zeroes the session counters. It must be
// called only at a session boundary (market open).
func (cb *CircuitBreaker) Reset(ctx context.Context) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateTripped {
		logger.Info(ctx, "Circuit breaker re-armed at session boundary",
			"instrument", cb.instrument,
			"closed_session_pnl", cb.dailyPnL,
		)
	}
	cb.state = StateArmed
	cb.dailyPnL = 0
	cb.consecutiveLosses = 0
}

// Snapshot returns the current session counters.
func (cb *CircuitBreaker) Snapshot() types.SessionSnapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return types.SessionSnapshot{
		DailyPnL:          cb.dailyPnL,
		ConsecutiveLosses: cb.consecutiveLosses,
		Tripped:           cb.state == StateTripped,
	}
}
