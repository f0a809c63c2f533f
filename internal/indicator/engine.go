package indicator

import (
	"sensex-scalper/internal/interfaces"
	"sensex-scalper/internal/store"
	"sensex-scalper/internal/ta"
	"sensex-scalper/internal/types"
)

// Engine owns the bounded price history for one instrument and computes
// rolling indicators per tick. It is not safe for concurrent use; ticks for
// an instrument are processed sequentially.
type Engine struct {
	cfg       *store.Config
	sentiment interfaces.Sentimenter

	prices   []float64
	capacity int
}

func New(cfg *store.Config, sentiment interfaces.Sentimenter) *Engine {
	capacity := cfg.Indicators.HistorySize
	if capacity < cfg.Indicators.MACDSlow {
		capacity = cfg.Indicators.MACDSlow
	}
	return &Engine{
		cfg:       cfg,
		sentiment: sentiment,
		prices:    make([]float64, 0, capacity),
		capacity:  capacity,
	}
}

// Enrich appends the tick to history, evicting the oldest sample once over
// capacity, and returns the tick with its rolling indicators. Indicators
// without enough history are NaN.
func (e *Engine) Enrich(tick types.MarketTick) types.EnrichedPoint {
	e.prices = append(e.prices, tick.Price)
	if len(e.prices) > e.capacity {
		e.prices = e.prices[1:]
	}

	text := tick.NewsText
	if text == "" {
		text = e.cfg.Sentiment.NeutralText
	}

	return types.EnrichedPoint{
		Tick:       tick,
		RSI:        ta.RSI(e.prices, e.cfg.Indicators.RSIPeriod),
		MACD:       ta.MACDHistogram(e.prices, e.cfg.Indicators.MACDFast, e.cfg.Indicators.MACDSlow, e.cfg.Indicators.MACDSignal),
		Volatility: ta.Volatility(e.prices, e.cfg.Indicators.VolatilityWindow),
		Sentiment:  e.sentiment.Polarity(text),
	}
}

// Closes returns the current price history, oldest first. The slice is the
// engine's own buffer; callers must not mutate it.
func (e *Engine) Closes() []float64 {
	return e.prices
}

// ReturnSeries returns fractional returns over the current history.
func (e *Engine) ReturnSeries() []float64 {
	return ta.Returns(e.prices)
}

// Len reports how many samples the history currently holds.
func (e *Engine) Len() int {
	return len(e.prices)
}
