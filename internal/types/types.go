package types

import (
	"math"
	"time"
)

// Signal is the discrete per-tick classification.
type Signal string

const (
	SignalBuyCall   Signal = "BUY_CALL"
	SignalBuyPut    Signal = "BUY_PUT"
	SignalSquareOff Signal = "SQUARE_OFF"
	SignalNone      Signal = "NONE"
)

// RiskFlag annotates a tick evaluation, it never halts the pipeline.
type RiskFlag string

const (
	RiskNormal RiskFlag = "normal"
	RiskHigh   RiskFlag = "high_risk"
)

// MarketTick is one timestamped price/volume observation for an instrument.
// Ticks arrive in strictly increasing timestamp order and are consumed once.
type MarketTick struct {
	Price     float64   `json:"price"`
	Volume    int64     `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
	// NewsText optionally carries headline text for sentiment scoring.
	NewsText string `json:"news_text,omitempty"`
}

// EnrichedPoint is a tick plus its rolling indicators. Indicators without
// enough history are NaN; downstream treats NaN as "no opinion", never zero.
type EnrichedPoint struct {
	Tick       MarketTick
	RSI        float64
	MACD       float64
	Volatility float64
	Sentiment  float64
}

// RiskAssessment is the sizing and flagging output for a single tick.
// OptimizedWeight is NaN when the optimizer had nothing to say.
type RiskAssessment struct {
	PositionSize    float64
	RiskFlag        RiskFlag
	CorrelationWarn bool
	OptimizedWeight float64
}

// TradeIntent is the pipeline's sole output.
// Invariant: PositionSize == 0 whenever Signal == NONE or the breaker tripped.
type TradeIntent struct {
	Signal          Signal    `json:"signal"`
	PositionSize    float64   `json:"position_size"`
	RiskFlag        RiskFlag  `json:"risk_flag"`
	OptimizedWeight *float64  `json:"optimized_weight"`
	Timestamp       time.Time `json:"timestamp"`
}

// WeightJSON converts a possibly-NaN weight into the nullable wire form.
func WeightJSON(w float64) *float64 {
	if math.IsNaN(w) {
		return nil
	}
	return &w
}

// TradeOutcome is the realized result of a completed trade, fed back into
// the circuit breaker by the execution collaborator.
type TradeOutcome struct {
	PnL       float64   `json:"pnl"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionSnapshot is a read-only view of per-session breaker counters.
type SessionSnapshot struct {
	DailyPnL          float64 `json:"daily_pnl"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
	Tripped           bool    `json:"tripped"`
}
