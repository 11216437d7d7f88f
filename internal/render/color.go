package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/smazurov/warpcore/internal/strip"
)

// rainbow maps each 32-step hue section to wheel degrees. Yellow gets its
// own section so 32 reads orange and 64 yellow, the way the LED rainbow does.
var rainbow = [...]float64{0, 30, 60, 120, 180, 240, 280, 320, 360}

// HSV converts an 8-bit hue/saturation/value triple to a pixel.
// Hue 0-255 spans the full color wheel (0 and 256 would both be red).
func HSV(h, s, v uint8) strip.RGB {
	c := colorful.Hsv(hueDegrees(h), float64(s)/255, float64(v)/255)
	r, g, b := c.RGB255()
	return strip.RGB{R: r, G: g, B: b}
}

func hueDegrees(h uint8) float64 {
	section := int(h) / 32
	frac := float64(h%32) / 32
	return rainbow[section] + frac*(rainbow[section+1]-rainbow[section])
}

// scale8 scales a channel by scale/256, keeping full scale lossless.
func scale8(c, scale uint8) uint8 {
	return uint8((uint16(c) * (1 + uint16(scale))) >> 8)
}

// fadeToBlackBy dims every pixel by fade/256.
func fadeToBlackBy(pixels []strip.RGB, fade uint8) {
	keep := 255 - fade
	for i := range pixels {
		p := &pixels[i]
		p.R = scale8(p.R, keep)
		p.G = scale8(p.G, keep)
		p.B = scale8(p.B, keep)
	}
}
