package engineobs

import (
	"context"
	"time"

	"sensex-scalper/internal/interfaces"
	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/trace"
	"sensex-scalper/internal/types"
)

type observablePipeline struct {
	pipeline interfaces.Pipeline
}

var _ interfaces.Pipeline = (*observablePipeline)(nil)

func Wrap(p interfaces.Pipeline) interfaces.Pipeline {
	return &observablePipeline{pipeline: p}
}

func (op *observablePipeline) Step(ctx context.Context, tick types.MarketTick) (types.TradeIntent, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Step")
	defer span.End()

	start := time.Now()

	intent, err := op.pipeline.Step(ctx, tick)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Tick evaluation failed", err,
			"price", tick.Price,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return intent, err
	}

	logger.InfoSkip(ctx, 1, "Tick evaluated",
		"price", tick.Price,
		"signal", string(intent.Signal),
		"position_size", intent.PositionSize,
		"risk_flag", string(intent.RiskFlag),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return intent, nil
}

func (op *observablePipeline) RecordOutcome(ctx context.Context, outcome types.TradeOutcome) {
	ctx, span := trace.StartSpan(ctx, "pipeline.RecordOutcome")
	defer span.End()
	op.pipeline.RecordOutcome(ctx, outcome)
}

func (op *observablePipeline) ResetSession(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "pipeline.ResetSession")
	defer span.End()
	logger.InfoSkip(ctx, 1, "Session boundary reset")
	op.pipeline.ResetSession(ctx)
}
