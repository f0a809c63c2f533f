package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "instrument: SENSEX\n"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Signals.PriceThresholdPct != 0.10 {
		t.Errorf("expected default threshold 0.10, got %f", cfg.Signals.PriceThresholdPct)
	}
	if cfg.Signals.SquareOffPct != 0.30 {
		t.Errorf("expected default square off 0.30, got %f", cfg.Signals.SquareOffPct)
	}
	if cfg.Signals.MinVolumeThreshold != 1_000_000 {
		t.Errorf("expected default volume floor 1000000, got %d", cfg.Signals.MinVolumeThreshold)
	}
	if cfg.Risk.MaxConsecutiveLosses != 3 {
		t.Errorf("expected default loss streak 3, got %d", cfg.Risk.MaxConsecutiveLosses)
	}
	if cfg.Feed.Source != "REPLAY" {
		t.Errorf("expected default feed REPLAY, got %s", cfg.Feed.Source)
	}
	if cfg.Sentiment.NeutralText == "" {
		t.Error("expected default neutral text")
	}
}

func TestLoadConfigRejectsMissingInstrument(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "exchange: BSE\n")); err == nil {
		t.Fatal("expected validation error for missing instrument")
	}
}

func TestLoadConfigRejectsInvertedThresholds(t *testing.T) {
	content := `instrument: SENSEX
signals:
  price_threshold_pct: 0.50
  square_off_pct: 0.30
`
	if _, err := LoadConfig(writeConfig(t, content)); err == nil {
		t.Fatal("expected validation error when square off does not exceed threshold")
	}
}

func TestLoadReferenceSeries(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rates.txt")
	if err := os.WriteFile(p, []byte("6.5\n6.6\n\n6.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	series, err := LoadReferenceSeries(p)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(series) != 3 || series[1] != 6.6 {
		t.Errorf("unexpected series: %v", series)
	}
}

func TestLoadReferenceSeriesBadLine(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rates.txt")
	if err := os.WriteFile(p, []byte("6.5\nabc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReferenceSeries(p); err == nil {
		t.Fatal("expected parse error")
	}
}
