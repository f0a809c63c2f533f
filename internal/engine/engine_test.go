package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"sensex-scalper/internal/store"
	"sensex-scalper/internal/types"
)

type neutralSentiment struct{}

func (neutralSentiment) Polarity(string) float64 { return 0 }

type failingOptimizer struct{}

func (failingOptimizer) Optimize(context.Context, []float64) (float64, error) {
	return math.NaN(), errors.New("singular covariance")
}

type fixedOptimizer struct{ w float64 }

func (f fixedOptimizer) Optimize(context.Context, []float64) (float64, error) {
	return f.w, nil
}

func testConfig() *store.Config {
	cfg := &store.Config{Instrument: "SENSEX"}
	cfg.Signals.PriceThresholdPct = 0.10
	cfg.Signals.SquareOffPct = 0.30
	cfg.Signals.MinVolumeThreshold = 1_000_000
	cfg.Indicators.RSIPeriod = 14
	cfg.Indicators.MACDFast = 12
	cfg.Indicators.MACDSlow = 26
	cfg.Indicators.MACDSignal = 9
	cfg.Indicators.VolatilityWindow = 20
	cfg.Indicators.HistorySize = 64
	cfg.Risk.PositionSizeScale = 10
	cfg.Risk.KillSwitchVolatility = 0.15
	cfg.Risk.CorrelationLimit = 0.8
	cfg.Risk.MaxDailyLoss = 100
	cfg.Risk.MaxConsecutiveLosses = 3
	cfg.Risk.ProfitPoints = 25
	cfg.Risk.StopPoints = 25
	cfg.Optimizer.Enabled = true
	cfg.Sentiment.NeutralText = "Neutral market sentiment for financial data"
	return cfg
}

// warmupTicks produces enough alternating-move ticks to define volatility,
// ending with a move below the signal threshold.
func warmupTicks(n int) []types.MarketTick {
	base := time.Date(2025, 8, 8, 9, 15, 0, 0, time.UTC)
	ticks := make([]types.MarketTick, 0, n)
	price := 81000.0
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			price *= 1.0004
		} else {
			price *= 0.9997
		}
		ticks = append(ticks, types.MarketTick{
			Price:     price,
			Volume:    1_500_000,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}
	return ticks
}

func breakoutTick(after []types.MarketTick) types.MarketTick {
	last := after[len(after)-1]
	return types.MarketTick{
		Price:     last.Price * 1.0020, // +0.20%
		Volume:    3_200_000,
		Timestamp: last.Timestamp.Add(time.Second),
	}
}

func TestBreakoutEmitsSizedBuyCall(t *testing.T) {
	eng := New(testConfig(), neutralSentiment{}, fixedOptimizer{w: 0.6})
	ctx := context.Background()

	warmup := warmupTicks(30)
	for _, tk := range warmup {
		if _, err := eng.Step(ctx, tk); err != nil {
			t.Fatalf("warmup step failed: %v", err)
		}
	}

	intent, err := eng.Step(ctx, breakoutTick(warmup))
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if intent.Signal != types.SignalBuyCall {
		t.Fatalf("expected BUY_CALL on breakout, got %s", intent.Signal)
	}
	if intent.PositionSize <= 0 {
		t.Errorf("expected positive position size, got %f", intent.PositionSize)
	}
	if intent.OptimizedWeight == nil || *intent.OptimizedWeight != 0.6 {
		t.Errorf("expected optimized weight 0.6, got %v", intent.OptimizedWeight)
	}
}

func TestTrippedBreakerSuppressesSignals(t *testing.T) {
	eng := New(testConfig(), neutralSentiment{}, fixedOptimizer{w: 0.6})
	ctx := context.Background()

	warmup := warmupTicks(30)
	for _, tk := range warmup {
		eng.Step(ctx, tk)
	}

	for i := 0; i < 3; i++ {
		eng.RecordOutcome(ctx, types.TradeOutcome{PnL: -10, Timestamp: time.Now()})
	}

	intent, err := eng.Step(ctx, breakoutTick(warmup))
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if intent.Signal != types.SignalNone {
		t.Errorf("expected NONE while tripped, got %s", intent.Signal)
	}
	if intent.PositionSize != 0 {
		t.Errorf("expected zero position size while tripped, got %f", intent.PositionSize)
	}
}

func TestSessionResetReArms(t *testing.T) {
	eng := New(testConfig(), neutralSentiment{}, fixedOptimizer{w: 0.6})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		eng.RecordOutcome(ctx, types.TradeOutcome{PnL: -50, Timestamp: time.Now()})
	}
	if !eng.Session().Tripped {
		t.Fatal("breaker should be tripped")
	}
	eng.ResetSession(ctx)
	if eng.Session().Tripped {
		t.Error("breaker should be armed after session reset")
	}
}

func TestOptimizerFailureDoesNotPropagate(t *testing.T) {
	eng := New(testConfig(), neutralSentiment{}, failingOptimizer{})
	ctx := context.Background()

	warmup := warmupTicks(30)
	for _, tk := range warmup {
		eng.Step(ctx, tk)
	}

	intent, err := eng.Step(ctx, breakoutTick(warmup))
	if err != nil {
		t.Fatalf("solver failure must not propagate: %v", err)
	}
	if intent.OptimizedWeight != nil {
		t.Errorf("expected undefined weight after solver failure, got %v", *intent.OptimizedWeight)
	}
	// The rest of the intent stays populated normally.
	if intent.Signal != types.SignalBuyCall {
		t.Errorf("expected BUY_CALL, got %s", intent.Signal)
	}
	if intent.PositionSize <= 0 {
		t.Errorf("expected positive position size, got %f", intent.PositionSize)
	}
}

func TestDeterministicReplay(t *testing.T) {
	ticks := warmupTicks(40)
	ticks = append(ticks, breakoutTick(ticks))

	run := func() []types.TradeIntent {
		eng := New(testConfig(), neutralSentiment{}, fixedOptimizer{w: 0.5})
		out := make([]types.TradeIntent, 0, len(ticks))
		for _, tk := range ticks {
			intent, err := eng.Step(context.Background(), tk)
			if err != nil {
				t.Fatalf("step failed: %v", err)
			}
			out = append(out, intent)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i].Signal != b[i].Signal ||
			a[i].PositionSize != b[i].PositionSize ||
			a[i].RiskFlag != b[i].RiskFlag {
			t.Fatalf("replay diverged at tick %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAssembleInvariant(t *testing.T) {
	ts := time.Now()
	sized := types.RiskAssessment{PositionSize: 2.0, RiskFlag: types.RiskNormal, OptimizedWeight: math.NaN()}
	unsized := types.RiskAssessment{PositionSize: 0, RiskFlag: types.RiskHigh, OptimizedWeight: math.NaN()}

	cases := []struct {
		name       string
		sig        types.Signal
		assessment types.RiskAssessment
		tripped    bool
		wantSig    types.Signal
		wantSize   float64
	}{
		{"none keeps zero size", types.SignalNone, sized, false, types.SignalNone, 0},
		{"tripped forces none", types.SignalBuyCall, sized, true, types.SignalNone, 0},
		{"degenerate sizing drops signal", types.SignalBuyCall, unsized, false, types.SignalNone, 0},
		{"armed sized passes through", types.SignalBuyPut, sized, false, types.SignalBuyPut, 2.0},
	}
	for _, tc := range cases {
		got := Assemble(tc.sig, tc.assessment, tc.tripped, ts)
		if got.Signal != tc.wantSig || got.PositionSize != tc.wantSize {
			t.Errorf("%s: got signal=%s size=%f, want signal=%s size=%f",
				tc.name, got.Signal, got.PositionSize, tc.wantSig, tc.wantSize)
		}
		zero := got.PositionSize == 0
		noneOrTripped := got.Signal == types.SignalNone || tc.tripped
		if zero != noneOrTripped {
			t.Errorf("%s: invariant violated: size=%f signal=%s tripped=%v",
				tc.name, got.PositionSize, got.Signal, tc.tripped)
		}
	}
}
