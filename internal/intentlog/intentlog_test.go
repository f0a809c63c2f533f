package intentlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sensex-scalper/internal/types"
)

func TestAppendIntentWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCALPER_LOG_DIR", dir)

	ts := time.Date(2025, 8, 8, 10, 30, 0, 0, time.UTC)
	w := 0.42
	intent := types.TradeIntent{
		Signal:          types.SignalBuyCall,
		PositionSize:    1.5,
		RiskFlag:        types.RiskNormal,
		OptimizedWeight: &w,
		Timestamp:       ts,
	}
	if err := AppendIntent("SENSEX", intent); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := AppendIntent("SENSEX", intent); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "intents", "2025-08-08.jsonl"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var e IntentEntry
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if e.Signal != "BUY_CALL" || e.PositionSize != 1.5 {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.OptimizedWeight == nil || *e.OptimizedWeight != 0.42 {
		t.Errorf("expected weight 0.42, got %v", e.OptimizedWeight)
	}
}

func TestAppendIntentNullWeight(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCALPER_LOG_DIR", dir)

	ts := time.Date(2025, 8, 8, 10, 30, 0, 0, time.UTC)
	intent := types.TradeIntent{Signal: types.SignalNone, RiskFlag: types.RiskHigh, Timestamp: ts}
	if err := AppendIntent("SENSEX", intent); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "intents", "2025-08-08.jsonl"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(b), `"optimized_weight":null`) {
		t.Errorf("expected null weight in %s", b)
	}
}
