package interfaces

import "time"

// SessionSummarizer turns a day's settled outcomes into a CSV report.
type SessionSummarizer interface {
	// SummarizeDay aggregates the outcome log for the given date and writes
	// a CSV summary. Returns the CSV path, or "" when no outcomes exist.
	SummarizeDay(t time.Time) (csvPath string, err error)

	// SummarizeToday summarizes the current IST date.
	SummarizeToday() (csvPath string, err error)

	// ShouldRunNow reports whether the market has closed and today's
	// summary has not been written yet.
	ShouldRunNow() (shouldRun bool, csvPath string)
}
