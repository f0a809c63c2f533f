// Package eodobs wraps a SessionSummarizer with tracing and logging.
package eodobs

import (
	"context"
	"time"

	"sensex-scalper/internal/interfaces"
	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/trace"
)

type observableSummarizer struct {
	summarizer interfaces.SessionSummarizer
}

var _ interfaces.SessionSummarizer = (*observableSummarizer)(nil)

func Wrap(s interfaces.SessionSummarizer) interfaces.SessionSummarizer {
	return &observableSummarizer{summarizer: s}
}

func (oes *observableSummarizer) SummarizeDay(t time.Time) (string, error) {
	ctx, span := trace.StartSpan(context.Background(), "eod.SummarizeDay")
	defer span.End()

	csvPath, err := oes.summarizer.SummarizeDay(t)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Session summary failed", err,
			"date", t.Format("2006-01-02"))
		return "", err
	}
	if csvPath == "" {
		logger.InfoSkip(ctx, 1, "No outcomes to summarize",
			"date", t.Format("2006-01-02"))
		return "", nil
	}
	logger.InfoSkip(ctx, 1, "Session summary written",
		"date", t.Format("2006-01-02"), "csv_path", csvPath)
	return csvPath, nil
}

func (oes *observableSummarizer) SummarizeToday() (string, error) {
	ctx, span := trace.StartSpan(context.Background(), "eod.SummarizeToday")
	defer span.End()

	csvPath, err := oes.summarizer.SummarizeToday()
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Session summary failed", err)
		return "", err
	}
	return csvPath, nil
}

func (oes *observableSummarizer) ShouldRunNow() (bool, string) {
	return oes.summarizer.ShouldRunNow()
}
