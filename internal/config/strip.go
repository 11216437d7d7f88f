package config

import (
	"fmt"

	"github.com/smazurov/warpcore/internal/render"
	"github.com/smazurov/warpcore/internal/strip"
	"github.com/smazurov/warpcore/internal/zone"
)

// Strip is the [strip] section: the physical LED run and its power budget.
type Strip struct {
	Driver       string
	GPIOPin      int
	SegmentSize  int
	Top          int
	Reaction     int
	Bottom       int
	MaxRefreshHz float64
	Volts        int
	Milliamps    int
}

// DefaultStrip returns the stock warp core wiring on the no-op driver.
func DefaultStrip() Strip {
	l := zone.Default()
	return Strip{
		Driver:       strip.DriverNoop,
		GPIOPin:      18,
		SegmentSize:  zone.DefaultSegmentSize,
		Top:          l.Top(),
		Reaction:     l.Reaction(),
		Bottom:       l.Bottom(),
		MaxRefreshHz: render.DefaultMaxRefreshHz,
		Volts:        5,
		Milliamps:    1000,
	}
}

// Layout validates the zone counts.
func (s Strip) Layout() (zone.Layout, error) {
	l, err := zone.New(s.Top, s.Reaction, s.Bottom, s.SegmentSize)
	if err != nil {
		return zone.Layout{}, fmt.Errorf("invalid strip layout: %w", err)
	}
	return l, nil
}

// RefreshHz returns the frame rate ceiling. A non-positive cap would let
// a non-blocking driver spin, so it falls back to the default.
func (s Strip) RefreshHz() float64 {
	if s.MaxRefreshHz <= 0 {
		return render.DefaultMaxRefreshHz
	}
	return s.MaxRefreshHz
}

// Output builds the output stage. A non-positive voltage or current
// disables the power limit.
func (s Strip) Output() *render.Output {
	var volts, milliamps uint32
	if s.Volts > 0 && s.Milliamps > 0 {
		volts, milliamps = uint32(s.Volts), uint32(s.Milliamps)
	}
	return render.NewOutput(render.DefaultCorrection, volts, milliamps)
}

// DriverConfig returns the strip factory config for layout l.
func (s Strip) DriverConfig(l zone.Layout) (strip.Config, error) {
	switch s.Driver {
	case "", strip.DriverNoop, strip.DriverTerminal, strip.DriverWS281x:
	default:
		return strip.Config{}, fmt.Errorf("unknown strip driver %q (want one of %v)", s.Driver, strip.Drivers())
	}
	if s.Driver == strip.DriverWS281x && s.GPIOPin <= 0 {
		return strip.Config{}, fmt.Errorf("ws281x driver needs a gpio pin, got %d", s.GPIOPin)
	}
	return strip.Config{Driver: s.Driver, Layout: l, GPIOPin: s.GPIOPin}, nil
}
