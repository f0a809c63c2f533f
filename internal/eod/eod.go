// Package eod aggregates a session's settled outcomes into a daily CSV
// summary after market close.
package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"sensex-scalper/internal/interfaces"
)

// outcomeLine matches the JSON format written by the intentlog package.
type outcomeLine struct {
	Time       string  `json:"time"`
	Instrument string  `json:"instrument"`
	PnL        float64 `json:"pnl"`
	DailyPnL   float64 `json:"daily_pnl"`
	Streak     int     `json:"consecutive_losses"`
}

type aggRow struct {
	Instrument  string
	Trades      int
	Wins        int
	Losses      int
	GrossProfit float64
	GrossLoss   float64
	NetPnL      float64
}

var defaultSummarizer interfaces.SessionSummarizer = &sessionSummarizer{}

func SetDefaultSummarizer(s interfaces.SessionSummarizer) {
	defaultSummarizer = s
}

func NewSummarizer() interfaces.SessionSummarizer {
	return &sessionSummarizer{}
}

func SummarizeDay(t time.Time) (string, error) {
	return defaultSummarizer.SummarizeDay(t)
}

func SummarizeToday() (string, error) {
	return defaultSummarizer.SummarizeToday()
}

func ShouldRunNow() (bool, string) {
	return defaultSummarizer.ShouldRunNow()
}

type sessionSummarizer struct{}

func logDir() string {
	if v := os.Getenv("SCALPER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func istNow() time.Time {
	return time.Now().In(time.FixedZone("IST", 19800))
}

func outcomesFile(t time.Time) string {
	return filepath.Join(logDir(), "outcomes", t.Format("2006-01-02")+".jsonl")
}

func summaryCSVPath(t time.Time) string {
	return filepath.Join(logDir(), "eod", t.Format("2006-01-02")+".csv")
}

func marketCloseTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 15, 40, 0, 0, t.Location())
}

func (s *sessionSummarizer) SummarizeDay(t time.Time) (string, error) {
	inPath := outcomesFile(t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ol outcomeLine
		if err := json.Unmarshal(sc.Bytes(), &ol); err != nil {
			continue
		}
		row := aggs[ol.Instrument]
		if row == nil {
			row = &aggRow{Instrument: ol.Instrument}
			aggs[ol.Instrument] = row
		}
		row.Trades++
		row.NetPnL += ol.PnL
		if ol.PnL >= 0 {
			row.Wins++
			row.GrossProfit += ol.PnL
		} else {
			row.Losses++
			row.GrossLoss += ol.PnL
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := summaryCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{"instrument", "trades", "wins", "losses", "win_rate", "gross_profit", "gross_loss", "net_pnl"}
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, k := range keys {
		row := aggs[k]
		winRate := 0.0
		if row.Trades > 0 {
			winRate = float64(row.Wins) / float64(row.Trades)
		}
		rec := []string{
			row.Instrument,
			strconv.Itoa(row.Trades),
			strconv.Itoa(row.Wins),
			strconv.Itoa(row.Losses),
			strconv.FormatFloat(winRate, 'f', 2, 64),
			strconv.FormatFloat(row.GrossProfit, 'f', 2, 64),
			strconv.FormatFloat(row.GrossLoss, 'f', 2, 64),
			strconv.FormatFloat(row.NetPnL, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	return outPath, nil
}

func (s *sessionSummarizer) SummarizeToday() (string, error) {
	return s.SummarizeDay(istNow())
}

func (s *sessionSummarizer) ShouldRunNow() (bool, string) {
	now := istNow()
	if now.Before(marketCloseTime(now)) {
		return false, ""
	}
	p := summaryCSVPath(now)
	if _, err := os.Stat(p); err == nil {
		return false, p
	}
	return true, p
}
