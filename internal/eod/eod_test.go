package eod

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSummarizeDay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCALPER_LOG_DIR", dir)

	day := time.Date(2025, 8, 8, 16, 0, 0, 0, time.FixedZone("IST", 19800))
	outDir := filepath.Join(dir, "outcomes")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lines := `{"time":"2025-08-08 10:15:00","instrument":"SENSEX","pnl":25,"daily_pnl":25,"consecutive_losses":0}
{"time":"2025-08-08 11:02:00","instrument":"SENSEX","pnl":-25,"daily_pnl":0,"consecutive_losses":1}
{"time":"2025-08-08 13:40:00","instrument":"SENSEX","pnl":12,"daily_pnl":12,"consecutive_losses":0}
`
	if err := os.WriteFile(filepath.Join(outDir, "2025-08-08.jsonl"), []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSummarizer()
	csvPath, err := s.SummarizeDay(day)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if csvPath == "" {
		t.Fatal("expected a csv path")
	}

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	row := rows[1]
	if row[0] != "SENSEX" || row[1] != "3" || row[2] != "2" || row[3] != "1" {
		t.Errorf("unexpected aggregate row: %v", row)
	}
	if row[7] != "12.00" {
		t.Errorf("expected net pnl 12.00, got %s", row[7])
	}
}

func TestSummarizeDayNoOutcomes(t *testing.T) {
	t.Setenv("SCALPER_LOG_DIR", t.TempDir())
	s := NewSummarizer()
	csvPath, err := s.SummarizeDay(time.Now())
	if err != nil {
		t.Fatalf("expected nil error for missing log, got %v", err)
	}
	if csvPath != "" {
		t.Errorf("expected empty path, got %s", csvPath)
	}
}
