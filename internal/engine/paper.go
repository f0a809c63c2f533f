package engine

import (
	"time"

	"sensex-scalper/internal/store"
	"sensex-scalper/internal/types"
)

type openPosition struct {
	entry     float64
	direction float64 // +1 for calls, -1 for puts
}

// PaperBook tracks one simulated position at a time and settles it against
// the configured profit and stop point targets. It feeds realized outcomes
// back to the circuit breaker without touching a broker.
type PaperBook struct {
	cfg  *store.Config
	open *openPosition
}

func NewPaperBook(cfg *store.Config) *PaperBook {
	return &PaperBook{cfg: cfg}
}

// Observe applies one intent and its tick price to the book. It returns a
// settled outcome when the position closes on this tick, nil otherwise.
func (b *PaperBook) Observe(intent types.TradeIntent, price float64, ts time.Time) *types.TradeOutcome {
	if b.open != nil {
		points := (price - b.open.entry) * b.open.direction
		switch {
		case intent.Signal == types.SignalSquareOff:
			return b.close(points, ts)
		case points >= b.cfg.Risk.ProfitPoints:
			return b.close(b.cfg.Risk.ProfitPoints, ts)
		case points <= -b.cfg.Risk.StopPoints:
			return b.close(-b.cfg.Risk.StopPoints, ts)
		}
		return nil
	}

	switch intent.Signal {
	case types.SignalBuyCall:
		b.open = &openPosition{entry: price, direction: 1}
	case types.SignalBuyPut:
		b.open = &openPosition{entry: price, direction: -1}
	}
	return nil
}

func (b *PaperBook) close(points float64, ts time.Time) *types.TradeOutcome {
	b.open = nil
	return &types.TradeOutcome{PnL: points, Timestamp: ts}
}

// Flat reports whether no position is open.
func (b *PaperBook) Flat() bool { return b.open == nil }

// Reset drops any open position without settling it.
func (b *PaperBook) Reset() { b.open = nil }
