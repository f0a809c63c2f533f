package signal

import (
	"sensex-scalper/internal/store"
	"sensex-scalper/internal/types"
)

// Detector classifies consecutive tick pairs into a discrete signal.
// The only state it carries is the previous tick.
type Detector struct {
	cfg  *store.Config
	prev *types.MarketTick
}

func New(cfg *store.Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect returns the signal for the given tick relative to the previous one.
// The first tick of a session has no reference point and yields NONE.
//
// A large move square-off is checked first and dominates the directional
// entries, regardless of volume.
func (d *Detector) Detect(tick types.MarketTick) types.Signal {
	if d.prev == nil {
		d.prev = &tick
		return types.SignalNone
	}
	changePct := priceChangePct(d.prev.Price, tick.Price)
	d.prev = &tick

	switch {
	case abs(changePct) > d.cfg.Signals.SquareOffPct:
		return types.SignalSquareOff
	case changePct > d.cfg.Signals.PriceThresholdPct && tick.Volume > d.cfg.Signals.MinVolumeThreshold:
		return types.SignalBuyCall
	case changePct < -d.cfg.Signals.PriceThresholdPct && tick.Volume > d.cfg.Signals.MinVolumeThreshold:
		return types.SignalBuyPut
	default:
		return types.SignalNone
	}
}

// Reset drops the previous-tick reference, e.g. at a session boundary.
func (d *Detector) Reset() {
	d.prev = nil
}

func priceChangePct(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100.0
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
