// Package hue holds the two hue values that drive a warp core: the main
// strip hue and the reaction chamber hue.
package hue

// RateMultiplier scales the warp factor into a ramp rate.
const RateMultiplier = 2

// Drift is the hue state advanced by the active pattern.
// All increments are single steps that wrap 255 to 0.
type Drift struct {
	Main    uint8
	Reactor uint8
}

// NewDrift returns a drift with both hues set to base.
func NewDrift(base uint8) *Drift {
	return &Drift{Main: base, Reactor: base}
}

// Reset sets both hues to base.
func (d *Drift) Reset(base uint8) {
	d.Main = base
	d.Reactor = base
}

// IncrementMain advances the main hue by one step.
func (d *Drift) IncrementMain() { d.Main++ }

// IncrementReactor advances the reactor hue by one step.
func (d *Drift) IncrementReactor() { d.Reactor++ }

// IncrementBoth advances both hues together, used by the free-drift patterns.
func (d *Drift) IncrementBoth() {
	d.IncrementMain()
	d.IncrementReactor()
}

// Track pins the reactor hue to the main hue.
func (d *Drift) Track() { d.Reactor = d.Main }

// Threshold is the reactor hue past which the main hue starts to follow
// during a core breach.
func Threshold(base uint8) int {
	return int(base) + (255-int(base))/2
}

// Breach advances one step of the core breach cycle and returns the ramp
// rate for this tick.
//
// The reactor climbs toward 255 first; the main hue follows once the
// reactor has passed the threshold. When both saturate the cycle restarts
// from base with the reactor one step ahead.
func (d *Drift) Breach(base uint8) int {
	if d.Reactor < 255 {
		d.IncrementReactor()
	}
	if int(d.Reactor) > Threshold(base) && d.Main < 255 {
		d.IncrementMain()
	}
	if d.Reactor == 255 && d.Main == 255 {
		d.Main = base
		d.Reactor = d.Main + 1
	}
	return BreachRate(base, d.Reactor, d.Main)
}

// BreachRate is the rate for a given hue gap. The pulse speeds up as the
// gap widens and slows again as the main hue catches up. Integer division
// truncates toward zero.
func BreachRate(base, reactor, main uint8) int {
	divisor := (255 - int(base)) / 2 / 9
	if divisor < 1 {
		divisor = 1
	}
	rate := ((int(reactor)-int(main))/divisor + 1) * RateMultiplier
	return ClampRate(rate)
}

// ClampRate bounds a rate to the usable ramp step range [1, 255].
func ClampRate(rate int) int {
	switch {
	case rate < 1:
		return 1
	case rate > 255:
		return 255
	default:
		return rate
	}
}
