// Package intentlog persists trade intents and outcomes as daily JSONL
// files so a session can be audited or replayed after the fact.
package intentlog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sensex-scalper/internal/types"
)

var mu sync.Mutex

var ist = time.FixedZone("IST", 19800)

type IntentEntry struct {
	Time            string   `json:"time"`
	Instrument      string   `json:"instrument"`
	Signal          string   `json:"signal"`
	PositionSize    float64  `json:"position_size"`
	RiskFlag        string   `json:"risk_flag"`
	OptimizedWeight *float64 `json:"optimized_weight"`
}

type OutcomeEntry struct {
	Time       string  `json:"time"`
	Instrument string  `json:"instrument"`
	PnL        float64 `json:"pnl"`
	DailyPnL   float64 `json:"daily_pnl"`
	Streak     int     `json:"consecutive_losses"`
}

func logDir() string {
	if v := os.Getenv("SCALPER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	d := t.In(ist).Format("2006-01-02")
	return filepath.Join(logDir(), "intents", d+".jsonl")
}

func outcomesFilepath(t time.Time) string {
	d := t.In(ist).Format("2006-01-02")
	return filepath.Join(logDir(), "outcomes", d+".jsonl")
}

func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// AppendIntent records an intent under logs/intents/<date>.jsonl. The intent's
// own timestamp selects the file so replayed sessions land on the session date.
func AppendIntent(instrument string, intent types.TradeIntent) error {
	mu.Lock()
	defer mu.Unlock()
	ts := intent.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	e := IntentEntry{
		Time:            ts.In(ist).Format("2006-01-02 15:04:05"),
		Instrument:      instrument,
		Signal:          string(intent.Signal),
		PositionSize:    intent.PositionSize,
		RiskFlag:        string(intent.RiskFlag),
		OptimizedWeight: intent.OptimizedWeight,
	}
	return appendLine(dailyFilepath(ts), e)
}

func AppendOutcome(instrument string, outcome types.TradeOutcome, session types.SessionSnapshot) error {
	mu.Lock()
	defer mu.Unlock()
	ts := outcome.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	e := OutcomeEntry{
		Time:       ts.In(ist).Format("2006-01-02 15:04:05"),
		Instrument: instrument,
		PnL:        outcome.PnL,
		DailyPnL:   session.DailyPnL,
		Streak:     session.ConsecutiveLosses,
	}
	return appendLine(outcomesFilepath(ts), e)
}

// Sink adapts the intent log to the pipeline output contract. Appends are
// idempotent from the reader's perspective; duplicate delivery only repeats
// a line.
type Sink struct {
	instrument string
}

func NewSink(instrument string) *Sink {
	return &Sink{instrument: instrument}
}

func (s *Sink) Accept(ctx context.Context, intent types.TradeIntent) error {
	return AppendIntent(s.instrument, intent)
}

// CompressOlder gzips log files older than retentionDays and removes the
// originals. Errors on individual files are skipped so one bad file does not
// stop the sweep.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(logDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
