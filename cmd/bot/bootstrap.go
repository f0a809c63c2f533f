package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"sensex-scalper/internal/engine"
	"sensex-scalper/internal/engine/engineobs"
	"sensex-scalper/internal/eod"
	"sensex-scalper/internal/eod/eodobs"
	"sensex-scalper/internal/feed"
	"sensex-scalper/internal/intentlog"
	"sensex-scalper/internal/interfaces"
	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/news"
	"sensex-scalper/internal/portfolio"
	"sensex-scalper/internal/store"
	"sensex-scalper/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes env, logger, and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	eod.SetDefaultSummarizer(eodobs.Wrap(eod.NewSummarizer()))

	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old intent log files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("SCALPER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := intentlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeFeed selects the tick source from config
func initializeFeed(ctx context.Context, cfg *store.Config) interfaces.Feed {
	if cfg.Feed.Source == "LIVE" {
		logger.Info(ctx, "Using LIVE tick data over Kite WebSocket",
			"instrument_token", cfg.Feed.InstrumentToken)
		return feed.NewKiteFeed(
			os.Getenv("KITE_API_KEY"),
			os.Getenv("KITE_ACCESS_TOKEN"),
			cfg.Feed.InstrumentToken,
		)
	}
	logger.Info(ctx, "Replaying recorded session", "path", cfg.Feed.ReplayPath)
	return feed.NewReplayFeed(cfg.Feed.ReplayPath)
}

// initializeSentiment returns the headline polarity scorer
func initializeSentiment(ctx context.Context, cfg *store.Config) interfaces.Sentimenter {
	if !cfg.Sentiment.Enabled {
		logger.Info(ctx, "Sentiment scoring disabled - all ticks scored neutral")
		return neutralSentiment{}
	}
	return news.NewLexicon()
}

type neutralSentiment struct{}

func (neutralSentiment) Polarity(string) float64 { return 0 }

// initializeOptimizer returns the position weight solver with its time budget
func initializeOptimizer(ctx context.Context, cfg *store.Config) interfaces.Optimizer {
	if !cfg.Optimizer.Enabled {
		logger.Info(ctx, "Optimizer disabled - intents carry undefined weight")
		return portfolio.NewNoop()
	}
	budget := time.Duration(cfg.Optimizer.BudgetMillis) * time.Millisecond
	return portfolio.WithBudget(portfolio.NewMeanVariance(cfg), budget)
}

// initializeEngine wires the pipeline with observability middleware
func initializeEngine(cfg *store.Config, sentiment interfaces.Sentimenter, optimizer interfaces.Optimizer) (interfaces.Pipeline, *engine.Engine) {
	eng := engine.New(cfg, sentiment, optimizer)
	return engineobs.Wrap(eng), eng
}
