// Package zone maps the three physical LED zones of a warp core onto
// buffer indices.
//
// The strip is wired as one run: the top zone first, then the reaction
// chamber cluster, then the bottom zone. The bottom zone is addressed in
// reverse so a pulse appears to travel outward from the chamber on both
// sides at once, even when the two runs have different lengths.
package zone

import "fmt"

// DefaultSegmentSize is the number of LEDs in one "magnetic constrictor" segment.
const DefaultSegmentSize = 5

// Layout is an immutable description of the zone sizes.
type Layout struct {
	top         int
	reaction    int
	bottom      int
	segmentSize int
}

// New validates and returns a layout.
func New(top, reaction, bottom, segmentSize int) (Layout, error) {
	if top < 0 || reaction < 0 || bottom < 0 {
		return Layout{}, fmt.Errorf("zone counts must not be negative (top=%d reaction=%d bottom=%d)", top, reaction, bottom)
	}
	if top+reaction+bottom == 0 {
		return Layout{}, fmt.Errorf("layout has no LEDs")
	}
	if segmentSize < 1 {
		return Layout{}, fmt.Errorf("segment size must be at least 1, got %d", segmentSize)
	}
	return Layout{top: top, reaction: reaction, bottom: bottom, segmentSize: segmentSize}, nil
}

// Default returns the stock warp core layout: 10 top, 3 reaction, 15 bottom.
func Default() Layout {
	return Layout{top: 10, reaction: 3, bottom: 15, segmentSize: DefaultSegmentSize}
}

// Top returns the number of LEDs above the reaction chamber.
func (l Layout) Top() int { return l.top }

// Reaction returns the number of LEDs inside the reaction chamber.
func (l Layout) Reaction() int { return l.reaction }

// Bottom returns the number of LEDs below the reaction chamber.
func (l Layout) Bottom() int { return l.bottom }

// Total returns the length of the LED buffer.
func (l Layout) Total() int { return l.top + l.reaction + l.bottom }

// Offset compensates the reversed bottom mapping for unequal top/bottom runs.
func (l Layout) Offset() int {
	if l.top > l.bottom {
		return l.top - l.bottom
	}
	return l.bottom - l.top
}

// PulseLength is the period of the moving chase window, two segments long.
func (l Layout) PulseLength() int { return l.segmentSize * 2 }

// ChaseExtent is the longer of the two runs rounded up to a whole number
// of pulse lengths. Chase offsets step through [0, ChaseExtent) by PulseLength.
func (l Layout) ChaseExtent() int {
	longest := max(l.top, l.bottom)
	return (longest/l.PulseLength() + 1) * l.PulseLength()
}

// TopIndex resolves the top-run LED lit for a phase and chase offset.
// The window is allowed to run into the reaction chamber range; those
// cells are overwritten with the chamber color later in the same frame.
func (l Layout) TopIndex(phase, chase int) (int, bool) {
	idx := phase + chase
	if idx < 0 || idx >= l.top+l.reaction {
		return 0, false
	}
	return idx, true
}

// BottomIndex resolves the bottom-run LED lit for a phase and chase offset.
// Only indices past the reaction chamber and inside the buffer are valid.
func (l Layout) BottomIndex(phase, chase int) (int, bool) {
	idx := l.Total() + l.Offset() - (phase + chase) - 1
	if idx <= l.top || idx < l.top+l.reaction || idx >= l.Total() {
		return 0, false
	}
	return idx, true
}

// ReactionIndices lists the reaction chamber indices in strip order.
func (l Layout) ReactionIndices() []int {
	out := make([]int, l.reaction)
	for i := range out {
		out[i] = l.top + i
	}
	return out
}

// String implements fmt.Stringer.
func (l Layout) String() string {
	return fmt.Sprintf("top=%d reaction=%d bottom=%d segment=%d", l.top, l.reaction, l.bottom, l.segmentSize)
}
