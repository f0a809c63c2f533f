package interfaces

import (
	"context"

	"sensex-scalper/internal/types"
)

// Feed delivers ticks for one instrument, in order and without gaps.
type Feed interface {
	Start(ctx context.Context) error
	Ticks() <-chan types.MarketTick
	Stop(ctx context.Context)
}

// Sink accepts emitted trade intents. Delivery may be duplicated; sinks
// must tolerate idempotent re-delivery.
type Sink interface {
	Accept(ctx context.Context, intent types.TradeIntent) error
}
