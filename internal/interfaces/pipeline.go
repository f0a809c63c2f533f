package interfaces

import (
	"context"

	"sensex-scalper/internal/types"
)

// Pipeline turns one market tick into a sized, risk-checked trade intent.
// Calls for a single instrument must be sequential: each tick is folded
// into history before the next is evaluated.
type Pipeline interface {
	Step(ctx context.Context, tick types.MarketTick) (types.TradeIntent, error)
	RecordOutcome(ctx context.Context, outcome types.TradeOutcome)
	ResetSession(ctx context.Context)
}
