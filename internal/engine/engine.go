// Package engine runs the warp core: one cooperative loop that applies
// pending parameter side effects and renders one pattern tick at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/smazurov/warpcore/internal/events"
	"github.com/smazurov/warpcore/internal/hue"
	"github.com/smazurov/warpcore/internal/metrics"
	"github.com/smazurov/warpcore/internal/params"
	"github.com/smazurov/warpcore/internal/pattern"
	"github.com/smazurov/warpcore/internal/render"
	"github.com/smazurov/warpcore/internal/strip"
	"github.com/smazurov/warpcore/internal/zone"
)

// Sources of parameter changes.
const (
	SourceWeb     = "web"
	SourceLink    = "link"
	SourcePreview = "preview"
	SourceConfig  = "config"
)

// Publisher receives engine events.
type Publisher interface {
	Publish(ev events.Event)
}

// Change is one parameter write.
type Change struct {
	Name  params.Name
	Value int
}

// Options configures an Engine.
type Options struct {
	Layout       zone.Layout
	Strip        strip.Strip
	Store        *params.Store
	Output       *render.Output
	MaxRefreshHz float64
	Bus          Publisher
	Logger       *slog.Logger
}

// Engine owns the hue drift and the renderer. Only the Run loop touches
// them; other goroutines talk to the engine through the parameter store.
type Engine struct {
	store    *params.Store
	drift    *hue.Drift
	renderer *render.Renderer
	selector *pattern.Selector
	bus      Publisher
	logger   *slog.Logger

	reseed atomic.Bool
	ticks  atomic.Uint64
}

// New creates an engine. A nil Store gets the defaults.
func New(opts Options) (*Engine, error) {
	store := opts.Store
	if store == nil {
		store = params.NewStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	drift := hue.NewDrift(store.Hue())
	renderer, err := render.New(render.Options{
		Layout:       opts.Layout,
		Strip:        opts.Strip,
		Store:        store,
		Drift:        drift,
		Output:       opts.Output,
		MaxRefreshHz: opts.MaxRefreshHz,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	e := &Engine{
		store:    store,
		drift:    drift,
		renderer: renderer,
		selector: pattern.NewSelector(store, drift, renderer),
		bus:      opts.Bus,
		logger:   logger,
	}
	e.recordParameters(store.Snapshot())
	return e, nil
}

// Run loops until ctx is cancelled. Strip errors are logged and the loop
// carries on.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Engine started", "pattern", pattern.ID(e.store.Pattern()).String())
	defer e.logger.Info("Engine stopped", "ticks", e.ticks.Load())

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := e.Step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			e.logger.Warn("Tick failed", "error", err)
		}
	}
}

// Step runs one loop iteration: apply the pending hue reseed, then render
// one tick of the active pattern.
func (e *Engine) Step(ctx context.Context) error {
	if e.reseed.Swap(false) {
		e.drift.Reset(e.store.Hue())
		e.logger.Debug("Hue reseeded", "hue", e.drift.Main)
	}

	p, err := e.selector.Tick(ctx)
	e.ticks.Add(1)
	metrics.SetHues(e.drift.Main, e.drift.Reactor)
	if p.ID == 0 {
		e.logger.Debug("Unknown pattern, reverted to default", "pattern", e.store.Pattern())
		return nil
	}
	metrics.ObserveTick(p.Name, err)
	return err
}

// Ticks returns the number of loop iterations run so far.
func (e *Engine) Ticks() uint64 { return e.ticks.Load() }

// SetParameter clamps and stores one parameter.
func (e *Engine) SetParameter(name params.Name, value int) params.Status {
	return e.Update(SourceConfig, Change{Name: name, Value: value})
}

// Update applies a batch of changes and announces the resulting status once.
// Unknown names are ignored. A hue write reseeds both hues on the next tick.
func (e *Engine) Update(source string, changes ...Change) params.Status {
	names := make([]string, 0, len(changes))
	for _, c := range changes {
		if _, err := params.ParseName(string(c.Name)); err != nil {
			e.logger.Debug("Ignoring unknown parameter", "param", c.Name, "source", source)
			continue
		}
		e.store.Set(c.Name, c.Value)
		if c.Name == params.Hue {
			e.reseed.Store(true)
		}
		names = append(names, string(c.Name))
		e.logger.Info("Parameter set", "param", c.Name, "value", e.store.Snapshot().Value(c.Name), "source", source)
	}

	status := e.store.Snapshot()
	e.recordParameters(status)
	e.publish(status, strings.Join(names, ","), source)
	return status
}

// Status returns the current parameter snapshot.
func (e *Engine) Status() params.Status {
	return e.store.Snapshot()
}

// OnConnected republishes the current status, used when the message link
// (re)connects.
func (e *Engine) OnConnected() {
	e.publish(e.store.Snapshot(), "", SourceLink)
}

func (e *Engine) publish(status params.Status, changed, source string) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.StatusChangedEvent{
		WarpFactor:  status.WarpFactor,
		Hue:         status.Hue,
		Saturation:  status.Saturation,
		Brightness:  status.Brightness,
		Pattern:     status.Pattern,
		PatternName: pattern.ID(status.Pattern).String(),
		Changed:     changed,
		Source:      source,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

func (e *Engine) recordParameters(status params.Status) {
	for _, name := range params.Names {
		metrics.SetParameter(string(name), status.Value(name))
	}
}
