package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"sensex-scalper/internal/engine"
	"sensex-scalper/internal/eod"
	"sensex-scalper/internal/intentlog"
	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/news"
	"sensex-scalper/internal/store"
	"sensex-scalper/internal/trace"
)

var ist = time.FixedZone("IST", 19800)

func main() {
	if err := initializeSystem(); err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer trace.Shutdown(context.Background())

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}
	compressOldLogs(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	src := initializeFeed(ctx, cfg)
	sentiment := initializeSentiment(ctx, cfg)
	optimizer := initializeOptimizer(ctx, cfg)
	pipeline, eng := initializeEngine(cfg, sentiment, optimizer)
	book := engine.NewPaperBook(cfg)
	sink := intentlog.NewSink(cfg.Instrument)

	if p := cfg.Risk.ReferenceSeriesPath; p != "" {
		series, err := store.LoadReferenceSeries(p)
		if err != nil {
			logger.Warn(ctx, "Failed to load reference series", "path", p, "error", err.Error())
		} else {
			eng.SetReferenceSeries(series)
			logger.Info(ctx, "Loaded reference series", "path", p, "samples", len(series))
		}
	}

	var headline headlineCache
	if cfg.Sentiment.Enabled && cfg.Sentiment.ScrapeNews {
		go headline.poll(ctx, cfg)
	}

	if err := src.Start(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Failed to start feed", err)
		os.Exit(1)
	}
	defer src.Stop(context.Background())

	logger.Info(ctx, "Scalper started", "instrument", cfg.Instrument, "feed", cfg.Feed.Source)

	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()

	var session string
	for {
		select {
		case tick, ok := <-src.Ticks():
			if !ok {
				if p, err := eod.SummarizeToday(); err == nil && p != "" {
					logger.Info(ctx, "Session summary written", "csv_path", p)
				}
				logger.Info(ctx, "Feed drained, exiting",
					"daily_pnl", eng.Session().DailyPnL)
				return
			}
			if day := tick.Timestamp.In(ist).Format("2006-01-02"); day != session {
				if session != "" {
					logger.Info(ctx, "Session boundary, resetting state",
						"previous", session, "current", day)
					pipeline.ResetSession(ctx)
					book.Reset()
				}
				session = day
			}
			if tick.NewsText == "" {
				tick.NewsText = headline.latest()
			}

			intent, err := pipeline.Step(ctx, tick)
			if err != nil {
				logger.ErrorWithErr(ctx, "Pipeline step failed", err)
				continue
			}
			if err := sink.Accept(ctx, intent); err != nil {
				logger.Warn(ctx, "Failed to persist intent", "error", err.Error())
			}

			if outcome := book.Observe(intent, tick.Price, tick.Timestamp); outcome != nil {
				pipeline.RecordOutcome(ctx, *outcome)
				if err := intentlog.AppendOutcome(cfg.Instrument, *outcome, eng.Session()); err != nil {
					logger.Warn(ctx, "Failed to persist outcome", "error", err.Error())
				}
			}
		case <-eodTick.C:
			if ok, _ := eod.ShouldRunNow(); ok {
				if p, err := eod.SummarizeToday(); err == nil && p != "" {
					logger.Info(ctx, "Session summary written", "csv_path", p)
				}
			}
		case <-ctx.Done():
			if p, err := eod.SummarizeToday(); err == nil && p != "" {
				logger.Info(ctx, "Session summary written", "csv_path", p)
			}
			snap := eng.Session()
			logger.Info(ctx, "Session summary",
				"daily_pnl", snap.DailyPnL,
				"consecutive_losses", snap.ConsecutiveLosses,
				"breaker_tripped", snap.Tripped)
			return
		}
	}
}

// headlineCache refreshes scraped headlines in the background so the hot
// tick path never blocks on network calls.
type headlineCache struct {
	mu   sync.RWMutex
	text string
}

func (h *headlineCache) latest() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.text
}

func (h *headlineCache) poll(ctx context.Context, cfg *store.Config) {
	scraper := news.NewScraper(15 * time.Second)
	refresh := func() {
		found := scraper.Headlines(ctx, cfg.Instrument, 5)
		if len(found) == 0 {
			return
		}
		h.mu.Lock()
		h.text = strings.Join(found, ". ")
		h.mu.Unlock()
	}
	refresh()
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}
