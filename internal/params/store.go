// Package params holds the runtime-tunable warp core parameters.
//
// Each field is stored atomically and clamped on write. Readers may see a
// mix of old and new values across fields for one frame; there is no
// cross-field locking.
package params

import (
	"fmt"
	"sync/atomic"

	"github.com/smazurov/warpcore/internal/hue"
)

// Name identifies a tunable parameter.
type Name string

// Parameter names as used by the web front-end and the message link.
const (
	Hue        Name = "hue"
	Saturation Name = "saturation"
	Brightness Name = "brightness"
	WarpFactor Name = "warpFactor"
	Pattern    Name = "pattern"
)

// Names lists every parameter in publish order.
var Names = []Name{WarpFactor, Hue, Saturation, Brightness, Pattern}

// Field ranges.
const (
	MinWarpFactor = 1
	MaxWarpFactor = 9
	MinPattern    = 1
	MaxPattern    = 5
)

// Defaults.
const (
	DefaultWarpFactor = 2
	DefaultHue        = 160
	DefaultSaturation = 255
	DefaultBrightness = 160
	DefaultPattern    = 1
)

// ParseName maps a parameter name to its Name. Matching is exact.
func ParseName(s string) (Name, error) {
	for _, n := range Names {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown parameter %q", s)
}

// Status is a point-in-time copy of the parameter set.
type Status struct {
	WarpFactor int `json:"warp_factor" example:"2" doc:"Warp factor (1-9)"`
	Hue        int `json:"hue" example:"160" doc:"Base hue (0-255)"`
	Saturation int `json:"saturation" example:"255" doc:"Saturation (0-255)"`
	Brightness int `json:"brightness" example:"160" doc:"Global brightness (0-255)"`
	Pattern    int `json:"pattern" example:"1" doc:"Pattern id (1-5)"`
}

// Rate is the ramp rate derived from the warp factor.
func (s Status) Rate() int {
	return s.WarpFactor * hue.RateMultiplier
}

// Value returns the field for a parameter name.
func (s Status) Value(n Name) int {
	switch n {
	case Hue:
		return s.Hue
	case Saturation:
		return s.Saturation
	case Brightness:
		return s.Brightness
	case WarpFactor:
		return s.WarpFactor
	case Pattern:
		return s.Pattern
	default:
		return 0
	}
}

// Store is the shared parameter set.
type Store struct {
	hue        atomic.Uint32
	saturation atomic.Uint32
	brightness atomic.Uint32
	warpFactor atomic.Uint32
	pattern    atomic.Uint32
}

// NewStore returns a store holding the defaults.
func NewStore() *Store {
	s := &Store{}
	s.hue.Store(DefaultHue)
	s.saturation.Store(DefaultSaturation)
	s.brightness.Store(DefaultBrightness)
	s.warpFactor.Store(DefaultWarpFactor)
	s.pattern.Store(DefaultPattern)
	return s
}

// Set clamps value into the range of n and stores it. Unknown names are ignored.
func (s *Store) Set(n Name, value int) {
	switch n {
	case Hue:
		s.SetHue(value)
	case Saturation:
		s.SetSaturation(value)
	case Brightness:
		s.SetBrightness(value)
	case WarpFactor:
		s.SetWarpFactor(value)
	case Pattern:
		s.SetPattern(value)
	}
}

// SetHue stores the base hue clamped to 0-255.
func (s *Store) SetHue(v int) { s.hue.Store(uint32(clamp(v, 0, 255))) }

// SetSaturation stores the saturation clamped to 0-255.
func (s *Store) SetSaturation(v int) { s.saturation.Store(uint32(clamp(v, 0, 255))) }

// SetBrightness stores the brightness clamped to 0-255.
func (s *Store) SetBrightness(v int) { s.brightness.Store(uint32(clamp(v, 0, 255))) }

// SetWarpFactor stores the warp factor clamped to 1-9.
func (s *Store) SetWarpFactor(v int) {
	s.warpFactor.Store(uint32(clamp(v, MinWarpFactor, MaxWarpFactor)))
}

// SetPattern stores the pattern id clamped to 1-5.
func (s *Store) SetPattern(v int) {
	s.pattern.Store(uint32(clamp(v, MinPattern, MaxPattern)))
}

// Hue returns the base hue.
func (s *Store) Hue() uint8 { return uint8(s.hue.Load()) }

// Saturation returns the saturation.
func (s *Store) Saturation() uint8 { return uint8(s.saturation.Load()) }

// Brightness returns the global brightness.
func (s *Store) Brightness() uint8 { return uint8(s.brightness.Load()) }

// WarpFactor returns the warp factor.
func (s *Store) WarpFactor() int { return int(s.warpFactor.Load()) }

// Pattern returns the pattern id.
func (s *Store) Pattern() int { return int(s.pattern.Load()) }

// Snapshot copies the current values. Fields are loaded one at a time.
func (s *Store) Snapshot() Status {
	return Status{
		WarpFactor: s.WarpFactor(),
		Hue:        int(s.Hue()),
		Saturation: int(s.Saturation()),
		Brightness: int(s.Brightness()),
		Pattern:    s.Pattern(),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
