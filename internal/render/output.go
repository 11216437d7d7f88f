package render

import (
	"github.com/smazurov/warpcore/internal/strip"
)

// DefaultCorrection is the fixed color correction for the strip's LEDs.
var DefaultCorrection = strip.RGB{R: 255, G: 200, B: 245}

// Per-channel draw at full output in milliwatts, at 5 V.
const (
	redMilliwatts   = 16 * 5
	greenMilliwatts = 11 * 5
	blueMilliwatts  = 15 * 5
	darkMilliwatts  = 1 * 5
)

// Output turns the working buffer into the frame sent to the strip:
// global brightness, power limiting and color correction.
type Output struct {
	correction strip.RGB
	// maxMilliwatts of 0 disables power limiting.
	maxMilliwatts uint32
}

// NewOutput returns an output stage. A zero power budget disables limiting.
func NewOutput(correction strip.RGB, volts, milliamps uint32) *Output {
	return &Output{correction: correction, maxMilliwatts: volts * milliamps}
}

// Apply writes the adjusted frame into dst and returns the brightness
// actually used after power limiting.
func (o *Output) Apply(dst, src []strip.RGB, brightness uint8) uint8 {
	brightness = o.limitBrightness(src, brightness)

	adjR := adjust(o.correction.R, brightness)
	adjG := adjust(o.correction.G, brightness)
	adjB := adjust(o.correction.B, brightness)

	for i, p := range src {
		if brightness == 0 {
			dst[i] = strip.Black
			continue
		}
		dst[i] = strip.RGB{R: scale8(p.R, adjR), G: scale8(p.G, adjG), B: scale8(p.B, adjB)}
	}
	return brightness
}

// adjust folds the global brightness into a correction channel.
func adjust(correction, brightness uint8) uint8 {
	if brightness == 0 || correction == 0 {
		return 0
	}
	return uint8((uint32(correction) + 1) * uint32(brightness) / 256)
}

// limitBrightness returns the highest brightness at or below target whose
// estimated draw fits the power budget.
func (o *Output) limitBrightness(pixels []strip.RGB, target uint8) uint8 {
	if o.maxMilliwatts == 0 || target == 0 {
		return target
	}

	var red, green, blue uint32
	for _, p := range pixels {
		red += uint32(p.R)
		green += uint32(p.G)
		blue += uint32(p.B)
	}

	total := (red*redMilliwatts + green*greenMilliwatts + blue*blueMilliwatts) >> 8
	total += darkMilliwatts * uint32(len(pixels))

	requested := total * uint32(target) / 256
	if requested <= o.maxMilliwatts {
		return target
	}
	return uint8(uint32(target) * o.maxMilliwatts / requested)
}
