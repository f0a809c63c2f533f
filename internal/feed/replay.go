package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/types"
)

// replayRecord is one line of a recorded session file.
type replayRecord struct {
	Price     float64   `json:"price"`
	Volume    int64     `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
	NewsText  string    `json:"news_text,omitempty"`
}

// ReplayFeed re-emits a recorded JSONL tick file in order. Two replays of
// the same file deliver identical sequences, which makes pipeline runs
// reproducible end to end.
type ReplayFeed struct {
	path   string
	out    chan types.MarketTick
	cancel context.CancelFunc
}

func NewReplayFeed(path string) *ReplayFeed {
	return &ReplayFeed{
		path: path,
		out:  make(chan types.MarketTick),
	}
}

func (r *ReplayFeed) Start(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open replay file: %w", err)
	}
	ctx, r.cancel = context.WithCancel(ctx)

	go func() {
		defer f.Close()
		defer close(r.out)

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		line := 0
		for sc.Scan() {
			line++
			raw := sc.Bytes()
			if len(raw) == 0 {
				continue
			}
			var rec replayRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				logger.Warn(ctx, "Skipping malformed replay line", "line", line, "error", err.Error())
				continue
			}
			tick := types.MarketTick{
				Price:     rec.Price,
				Volume:    rec.Volume,
				Timestamp: rec.Timestamp,
				NewsText:  rec.NewsText,
			}
			select {
			case r.out <- tick:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			logger.ErrorWithErr(ctx, "Replay scan failed", err)
		}
		logger.Info(ctx, "Replay complete", "path", r.path, "lines", line)
	}()
	return nil
}

func (r *ReplayFeed) Ticks() <-chan types.MarketTick { return r.out }

func (r *ReplayFeed) Stop(ctx context.Context) {
	if r.cancel != nil {
		r.cancel()
	}
}
