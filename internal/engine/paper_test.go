package engine

import (
	"testing"
	"time"

	"sensex-scalper/internal/types"
)

func TestPaperBookProfitTarget(t *testing.T) {
	cfg := testConfig()
	cfg.Risk.ProfitPoints = 25
	cfg.Risk.StopPoints = 25
	book := NewPaperBook(cfg)
	ts := time.Now()

	buy := types.TradeIntent{Signal: types.SignalBuyCall, PositionSize: 1}
	if out := book.Observe(buy, 81000, ts); out != nil {
		t.Fatalf("opening tick should not settle, got %+v", out)
	}
	if book.Flat() {
		t.Fatal("expected open position after BUY_CALL")
	}

	hold := types.TradeIntent{Signal: types.SignalNone}
	if out := book.Observe(hold, 81010, ts); out != nil {
		t.Fatalf("expected no settlement at +10 points, got %+v", out)
	}
	out := book.Observe(hold, 81030, ts)
	if out == nil {
		t.Fatal("expected settlement at +30 points")
	}
	if out.PnL != 25 {
		t.Errorf("expected clamp to profit target 25, got %f", out.PnL)
	}
	if !book.Flat() {
		t.Error("book should be flat after settlement")
	}
}

func TestPaperBookStopLossOnPut(t *testing.T) {
	book := NewPaperBook(testConfig())
	ts := time.Now()

	book.Observe(types.TradeIntent{Signal: types.SignalBuyPut}, 81000, ts)
	// Price rising moves against a put.
	out := book.Observe(types.TradeIntent{Signal: types.SignalNone}, 81040, ts)
	if out == nil {
		t.Fatal("expected stop loss settlement")
	}
	if out.PnL != -25 {
		t.Errorf("expected stop at -25 points, got %f", out.PnL)
	}
}

func TestPaperBookSquareOffSettlesAtMarket(t *testing.T) {
	book := NewPaperBook(testConfig())
	ts := time.Now()

	book.Observe(types.TradeIntent{Signal: types.SignalBuyCall}, 81000, ts)
	out := book.Observe(types.TradeIntent{Signal: types.SignalSquareOff}, 81012, ts)
	if out == nil {
		t.Fatal("expected square off settlement")
	}
	if out.PnL != 12 {
		t.Errorf("expected +12 points at square off, got %f", out.PnL)
	}
}

func TestPaperBookIgnoresSignalsWhileOpen(t *testing.T) {
	book := NewPaperBook(testConfig())
	ts := time.Now()

	book.Observe(types.TradeIntent{Signal: types.SignalBuyCall}, 81000, ts)
	book.Observe(types.TradeIntent{Signal: types.SignalBuyPut}, 81005, ts)
	if book.Flat() {
		t.Fatal("book should still hold the original position")
	}
	// Settlement direction proves the original call survived.
	out := book.Observe(types.TradeIntent{Signal: types.SignalNone}, 81030, ts)
	if out == nil || out.PnL != 25 {
		t.Errorf("expected original call to settle at +25, got %+v", out)
	}
}
