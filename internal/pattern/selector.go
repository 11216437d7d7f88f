package pattern

import (
	"context"

	"github.com/smazurov/warpcore/internal/hue"
	"github.com/smazurov/warpcore/internal/params"
	"github.com/smazurov/warpcore/internal/render"
)

// Renderer runs one brightness ramp.
type Renderer interface {
	Tick(ctx context.Context, flags render.Flags, rate int) error
}

// Selector dispatches the active pattern once per tick.
type Selector struct {
	store    *params.Store
	drift    *hue.Drift
	renderer Renderer
}

// NewSelector creates a selector over the given state and renderer.
func NewSelector(store *params.Store, drift *hue.Drift, renderer Renderer) *Selector {
	return &Selector{store: store, drift: drift, renderer: renderer}
}

// Tick renders one tick of the pattern currently in the store.
func (s *Selector) Tick(ctx context.Context) (Pattern, error) {
	return s.Dispatch(ctx, ID(s.store.Pattern()))
}

// Dispatch renders one tick of pattern id. An unknown id switches the store
// back to the default pattern and renders nothing; the zero Pattern is
// returned in that case.
func (s *Selector) Dispatch(ctx context.Context, id ID) (Pattern, error) {
	p, ok := Lookup(id)
	if !ok {
		s.store.SetPattern(int(Default))
		return Pattern{}, nil
	}

	rate := p.prepare(s.drift, s.store.Hue(), s.store.WarpFactor()*hue.RateMultiplier)
	return p, s.renderer.Tick(ctx, p.Flags, rate)
}
