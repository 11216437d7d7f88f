// Package render implements the chase engine: one brightness ramp per
// tick, written across the three LED zones and flushed to the strip after
// every step.
package render

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/smazurov/warpcore/internal/hue"
	"github.com/smazurov/warpcore/internal/metrics"
	"github.com/smazurov/warpcore/internal/params"
	"github.com/smazurov/warpcore/internal/strip"
	"github.com/smazurov/warpcore/internal/zone"
)

// RampFloor is the brightness every ramp starts from.
const RampFloor = 32

// DefaultMaxRefreshHz caps how often frames are pushed to the strip.
const DefaultMaxRefreshHz = 400

// Flags select the free-drift behavior of a tick.
type Flags struct {
	// Rainbow advances both hues on every ramp step.
	Rainbow bool
	// Fade advances both hues once per tick.
	Fade bool
	// SlowFade advances both hues once per pulse cycle.
	SlowFade bool
}

// Options configures a Renderer.
type Options struct {
	Layout       zone.Layout
	Strip        strip.Strip
	Store        *params.Store
	Drift        *hue.Drift
	Output       *Output
	// MaxRefreshHz paces flushes. Zero leaves them unpaced, which only
	// suits strips that block on Show.
	MaxRefreshHz float64
}

// Renderer owns the LED buffer and the pulse phase.
type Renderer struct {
	layout  zone.Layout
	strip   strip.Strip
	store   *params.Store
	drift   *hue.Drift
	output  *Output
	limiter *rate.Limiter

	buffer   []strip.RGB
	frame    []strip.RGB
	reaction []int
	phase    int
}

// New creates a renderer. The buffer is sized once from the layout.
func New(opts Options) (*Renderer, error) {
	if opts.Strip == nil || opts.Store == nil || opts.Drift == nil {
		return nil, fmt.Errorf("renderer requires a strip, a parameter store and a hue drift")
	}
	if opts.Strip.Len() != opts.Layout.Total() {
		return nil, fmt.Errorf("strip has %d LEDs, layout needs %d", opts.Strip.Len(), opts.Layout.Total())
	}
	output := opts.Output
	if output == nil {
		output = NewOutput(DefaultCorrection, 0, 0)
	}
	limit := rate.Inf
	if opts.MaxRefreshHz > 0 {
		limit = rate.Limit(opts.MaxRefreshHz)
	}

	n := opts.Layout.Total()
	return &Renderer{
		layout:   opts.Layout,
		strip:    opts.Strip,
		store:    opts.Store,
		drift:    opts.Drift,
		output:   output,
		limiter:  rate.NewLimiter(limit, 1),
		buffer:   make([]strip.RGB, n),
		frame:    make([]strip.RGB, n),
		reaction: opts.Layout.ReactionIndices(),
	}, nil
}

// Phase returns the current pulse phase.
func (r *Renderer) Phase() int { return r.phase }

// Buffer returns a copy of the working buffer.
func (r *Renderer) Buffer() []strip.RGB {
	out := make([]strip.RGB, len(r.buffer))
	copy(out, r.buffer)
	return out
}

// Tick renders one full ramp at the given rate. It returns only when the
// ramp has reached full brightness, the strip failed, or ctx was cancelled.
func (r *Renderer) Tick(ctx context.Context, flags Flags, rampRate int) error {
	rampRate = hue.ClampRate(rampRate)
	saturation := r.store.Saturation()
	brightness := r.store.Brightness()
	fade := uint8(rampRate * 4 / 5)

	r.advancePhase(flags.SlowFade)
	if flags.Fade {
		r.drift.IncrementBoth()
	}

	for value := RampFloor; ; value += rampRate {
		if value > 255 {
			value = 255
		}
		if flags.Rainbow {
			r.drift.IncrementBoth()
		}

		r.writeChase(HSV(r.drift.Main, saturation, uint8(value)))
		r.writeReaction(HSV(r.drift.Reactor, saturation, 255))

		if err := r.flush(ctx, brightness); err != nil {
			return err
		}
		fadeToBlackBy(r.buffer, fade)

		if value == 255 {
			return nil
		}
	}
}

func (r *Renderer) advancePhase(slowFade bool) {
	if r.phase >= r.layout.PulseLength()-1 {
		r.phase = 0
		if slowFade {
			r.drift.IncrementBoth()
		}
		return
	}
	r.phase++
}

// writeChase lights every pulse-length'th LED of the top and bottom runs.
func (r *Renderer) writeChase(c strip.RGB) {
	pulse := r.layout.PulseLength()
	for chase := 0; chase < r.layout.ChaseExtent(); chase += pulse {
		if idx, ok := r.layout.TopIndex(r.phase, chase); ok {
			r.buffer[idx] = c
		}
		if idx, ok := r.layout.BottomIndex(r.phase, chase); ok {
			r.buffer[idx] = c
		}
	}
}

// writeReaction keeps the chamber at full brightness even though the top
// chase runs through it.
func (r *Renderer) writeReaction(c strip.RGB) {
	for _, idx := range r.reaction {
		r.buffer[idx] = c
	}
}

func (r *Renderer) flush(ctx context.Context, brightness uint8) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	used := r.output.Apply(r.frame, r.buffer, brightness)

	start := time.Now()
	err := r.strip.Show(r.frame)
	metrics.ObserveFlush(time.Since(start), used, err)
	if err != nil {
		return fmt.Errorf("failed to flush strip: %w", err)
	}
	return nil
}
