// Package feed supplies market ticks to the pipeline, either live over the
// Zerodha Kite WebSocket or replayed from a recorded session file.
package feed

import (
	"context"
	"fmt"
	"time"

	"sensex-scalper/internal/logger"
	"sensex-scalper/internal/types"

	"github.com/zerodha/gokiteconnect/v4/models"
	kiteticker "github.com/zerodha/gokiteconnect/v4/ticker"
)

// KiteFeed streams ticks for a single instrument over the Kite WebSocket.
type KiteFeed struct {
	apiKey      string
	accessToken string
	token       uint32
	ticker      *kiteticker.Ticker
	out         chan types.MarketTick
}

func NewKiteFeed(apiKey, accessToken string, instrumentToken uint32) *KiteFeed {
	return &KiteFeed{
		apiKey:      apiKey,
		accessToken: accessToken,
		token:       instrumentToken,
		out:         make(chan types.MarketTick, 256),
	}
}

func (k *KiteFeed) Start(ctx context.Context) error {
	if k.apiKey == "" || k.accessToken == "" {
		return fmt.Errorf("kite feed requires KITE_API_KEY and KITE_ACCESS_TOKEN")
	}
	k.ticker = kiteticker.New(k.apiKey, k.accessToken)

	k.ticker.OnConnect(func() {
		logger.Info(ctx, "WebSocket connected", "instrument_token", k.token)
		if err := k.ticker.Subscribe([]uint32{k.token}); err != nil {
			logger.ErrorWithErr(ctx, "Subscribe failed", err)
			return
		}
		if err := k.ticker.SetMode(kiteticker.ModeFull, []uint32{k.token}); err != nil {
			logger.ErrorWithErr(ctx, "SetMode failed", err)
		}
	})
	k.ticker.OnError(func(err error) {
		logger.ErrorWithErr(ctx, "WebSocket error", err)
	})
	k.ticker.OnClose(func(code int, reason string) {
		logger.Warn(ctx, "WebSocket closed", "code", code, "reason", reason)
	})
	k.ticker.OnReconnect(func(attempt int, delay time.Duration) {
		logger.Info(ctx, "WebSocket reconnecting", "attempt", attempt, "delay", delay)
	})
	k.ticker.OnNoReconnect(func(attempt int) {
		logger.Warn(ctx, "WebSocket reconnection failed", "attempts", attempt)
	})
	k.ticker.OnTick(k.onTick)

	go func() {
		logger.Info(ctx, "Starting Kite WebSocket ticker")
		k.ticker.Serve()
	}()
	return nil
}

func (k *KiteFeed) onTick(tick models.Tick) {
	if tick.InstrumentToken != k.token {
		return
	}
	mt := types.MarketTick{
		Price:     tick.LastPrice,
		Volume:    int64(tick.VolumeTraded),
		Timestamp: tick.Timestamp.Time,
	}
	select {
	case k.out <- mt:
	default:
		// Drop on backpressure rather than stall the WebSocket reader.
		logger.Warn(context.Background(), "Tick dropped, consumer falling behind")
	}
}

func (k *KiteFeed) Ticks() <-chan types.MarketTick { return k.out }

func (k *KiteFeed) Stop(ctx context.Context) {
	if k.ticker != nil {
		logger.Info(ctx, "Stopping Kite WebSocket ticker")
		k.ticker.Stop()
	}
	close(k.out)
}
