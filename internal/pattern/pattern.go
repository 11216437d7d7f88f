// Package pattern maps pattern ids to renderer flags and hue rules, and
// dispatches one render tick for the active pattern.
package pattern

import (
	"fmt"

	"github.com/smazurov/warpcore/internal/hue"
	"github.com/smazurov/warpcore/internal/render"
)

// ID identifies a pattern. Valid ids are 1-5.
type ID int

// Known patterns.
const (
	Standard ID = iota + 1
	CoreBreach
	Rainbow
	Fade
	SlowFade
)

// Default is the pattern selected when an unknown id is seen.
const Default = Standard

// Pattern describes one selectable animation.
type Pattern struct {
	ID    ID           `json:"id" example:"2" doc:"Pattern id"`
	Name  string       `json:"name" example:"core-breach" doc:"Pattern name"`
	Label string       `json:"label" example:"Core Breach" doc:"Display name"`
	Flags render.Flags `json:"-"`

	// prepare runs before the render tick and returns the ramp rate.
	prepare func(d *hue.Drift, base uint8, warpRate int) int
}

func warpRate(_ *hue.Drift, _ uint8, rate int) int { return rate }

var table = [...]Pattern{
	{
		ID: Standard, Name: "standard", Label: "Standard",
		prepare: func(d *hue.Drift, _ uint8, rate int) int {
			d.Track()
			return rate
		},
	},
	{
		ID: CoreBreach, Name: "core-breach", Label: "Core Breach",
		prepare: func(d *hue.Drift, base uint8, _ int) int {
			return d.Breach(base)
		},
	},
	{
		ID: Rainbow, Name: "rainbow", Label: "Rainbow",
		Flags:   render.Flags{Rainbow: true},
		prepare: warpRate,
	},
	{
		ID: Fade, Name: "fade", Label: "Fade",
		Flags:   render.Flags{Fade: true},
		prepare: warpRate,
	},
	{
		ID: SlowFade, Name: "slow-fade", Label: "Slow Fade",
		Flags:   render.Flags{SlowFade: true},
		prepare: warpRate,
	},
}

// Lookup returns the pattern for id.
func Lookup(id ID) (Pattern, bool) {
	if id < Standard || int(id) > len(table) {
		return Pattern{}, false
	}
	return table[id-1], true
}

// ParseName returns the pattern with the given name.
func ParseName(name string) (Pattern, error) {
	for _, p := range table {
		if p.Name == name {
			return p, nil
		}
	}
	return Pattern{}, fmt.Errorf("unknown pattern %q", name)
}

// Patterns returns every pattern in id order.
func Patterns() []Pattern {
	out := make([]Pattern, len(table))
	copy(out, table[:])
	return out
}

func (id ID) String() string {
	if p, ok := Lookup(id); ok {
		return p.Name
	}
	return fmt.Sprintf("pattern(%d)", int(id))
}
