package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Instrument string `yaml:"instrument"`
	Exchange   string `yaml:"exchange"`

	Feed struct {
		Source          string `yaml:"source"` // LIVE or REPLAY
		ReplayPath      string `yaml:"replay_path"`
		InstrumentToken uint32 `yaml:"instrument_token"`
	} `yaml:"feed"`

	Signals struct {
		PriceThresholdPct  float64 `yaml:"price_threshold_pct"`
		SquareOffPct       float64 `yaml:"square_off_pct"`
		MinVolumeThreshold int64   `yaml:"min_volume_threshold"`
		MinConfidence      float64 `yaml:"min_confidence"`
	} `yaml:"signals"`

	Indicators struct {
		RSIPeriod        int `yaml:"rsi_period"`
		MACDFast         int `yaml:"macd_fast"`
		MACDSlow         int `yaml:"macd_slow"`
		MACDSignal       int `yaml:"macd_signal"`
		VolatilityWindow int `yaml:"volatility_window"`
		HistorySize      int `yaml:"history_size"`
	} `yaml:"indicators"`

	Risk struct {
		PositionSizeScale    float64 `yaml:"position_size_scale"`
		KillSwitchVolatility float64 `yaml:"kill_switch_volatility"`
		CorrelationLimit     float64 `yaml:"correlation_limit"`
		MaxDailyLoss         float64 `yaml:"max_daily_loss"`
		MaxConsecutiveLosses int     `yaml:"max_consecutive_losses"`
		ProfitPoints         float64 `yaml:"profit_points"`
		StopPoints           float64 `yaml:"stop_points"`
		ReferenceSeriesPath  string  `yaml:"reference_series_path"`
	} `yaml:"risk"`

	Optimizer struct {
		Enabled        bool    `yaml:"enabled"`
		BudgetMillis   int     `yaml:"budget_millis"`
		FallbackWeight float64 `yaml:"fallback_weight"`
	} `yaml:"optimizer"`

	Sentiment struct {
		Enabled     bool   `yaml:"enabled"`
		ScrapeNews  bool   `yaml:"scrape_news"`
		NeutralText string `yaml:"neutral_text"`
	} `yaml:"sentiment"`
}

func (c *Config) Validate() error {
	if c.Instrument == "" {
		return fmt.Errorf("instrument cannot be empty")
	}
	if c.Feed.Source != "LIVE" && c.Feed.Source != "REPLAY" {
		return fmt.Errorf("invalid feed.source '%s': must be 'LIVE' or 'REPLAY'", c.Feed.Source)
	}
	if c.Signals.PriceThresholdPct <= 0 {
		return fmt.Errorf("signals.price_threshold_pct must be positive, got %.4f", c.Signals.PriceThresholdPct)
	}
	if c.Signals.SquareOffPct <= c.Signals.PriceThresholdPct {
		return fmt.Errorf("signals.square_off_pct (%.4f) must exceed price_threshold_pct (%.4f)",
			c.Signals.SquareOffPct, c.Signals.PriceThresholdPct)
	}
	if c.Risk.PositionSizeScale <= 0 {
		return fmt.Errorf("risk.position_size_scale must be positive, got %.2f", c.Risk.PositionSizeScale)
	}
	if c.Risk.MaxConsecutiveLosses <= 0 {
		return fmt.Errorf("risk.max_consecutive_losses must be positive, got %d", c.Risk.MaxConsecutiveLosses)
	}
	if c.Indicators.MACDSlow <= c.Indicators.MACDFast {
		return fmt.Errorf("indicators.macd_slow (%d) must exceed macd_fast (%d)",
			c.Indicators.MACDSlow, c.Indicators.MACDFast)
	}
	if c.Indicators.HistorySize < c.Indicators.MACDSlow {
		return fmt.Errorf("indicators.history_size (%d) must cover the slowest window (%d)",
			c.Indicators.HistorySize, c.Indicators.MACDSlow)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// LoadReferenceSeries reads a newline-separated list of float values, one
// observation per line. Blank lines are skipped.
func LoadReferenceSeries(path string) ([]float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []float64
	for i, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("reference series line %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Defaults mirror the knobs the strategy was tuned with.
func (c *Config) applyDefaults() {
	if c.Feed.Source == "" {
		c.Feed.Source = "REPLAY"
	}
	if c.Signals.PriceThresholdPct == 0 {
		c.Signals.PriceThresholdPct = 0.10
	}
	if c.Signals.SquareOffPct == 0 {
		c.Signals.SquareOffPct = 0.30
	}
	if c.Signals.MinVolumeThreshold == 0 {
		c.Signals.MinVolumeThreshold = 1_000_000
	}
	if c.Signals.MinConfidence == 0 {
		c.Signals.MinConfidence = 0.90
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = 12
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = 26
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = 9
	}
	if c.Indicators.VolatilityWindow == 0 {
		c.Indicators.VolatilityWindow = 20
	}
	if c.Indicators.HistorySize == 0 {
		c.Indicators.HistorySize = 64
	}
	if c.Risk.PositionSizeScale == 0 {
		c.Risk.PositionSizeScale = 10
	}
	if c.Risk.KillSwitchVolatility == 0 {
		c.Risk.KillSwitchVolatility = 0.15
	}
	if c.Risk.CorrelationLimit == 0 {
		c.Risk.CorrelationLimit = 0.8
	}
	if c.Risk.MaxDailyLoss == 0 {
		c.Risk.MaxDailyLoss = 100
	}
	if c.Risk.MaxConsecutiveLosses == 0 {
		c.Risk.MaxConsecutiveLosses = 3
	}
	if c.Risk.ProfitPoints == 0 {
		c.Risk.ProfitPoints = 25
	}
	if c.Risk.StopPoints == 0 {
		c.Risk.StopPoints = 25
	}
	if c.Optimizer.BudgetMillis == 0 {
		c.Optimizer.BudgetMillis = 250
	}
	if c.Optimizer.FallbackWeight == 0 {
		c.Optimizer.FallbackWeight = 1.0
	}
	if c.Sentiment.NeutralText == "" {
		c.Sentiment.NeutralText = "Neutral market sentiment for financial data"
	}
}
