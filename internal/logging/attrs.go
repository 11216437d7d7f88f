package logging

import (
	"log/slog"
	"slices"
)

// handlerState carries the WithAttrs/WithGroup context shared by the
// buffer and journal handlers.
type handlerState struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func (s handlerState) enabled(level slog.Level) bool {
	return level >= s.level.Level()
}

// withAttrs returns a copy with attrs qualified by the current groups.
func (s handlerState) withAttrs(attrs []slog.Attr) handlerState {
	if len(attrs) == 0 {
		return s
	}
	out := s
	out.attrs = slices.Clip(s.attrs)
	for _, a := range attrs {
		for i := len(s.groups) - 1; i >= 0; i-- {
			a = slog.Group(s.groups[i], a)
		}
		out.attrs = append(out.attrs, a)
	}
	return out
}

func (s handlerState) withGroup(name string) handlerState {
	if name == "" {
		return s
	}
	out := s
	out.groups = append(slices.Clip(s.groups), name)
	return out
}

// walk visits every leaf of the handler attrs and the record attrs with its
// full group path. Record attrs sit under the open groups.
func (s handlerState) walk(r slog.Record, visit func(path []string, v slog.Value)) {
	for _, a := range s.attrs {
		walkAttr(nil, a, visit)
	}
	r.Attrs(func(a slog.Attr) bool {
		walkAttr(s.groups, a, visit)
		return true
	})
}

func walkAttr(prefix []string, a slog.Attr, visit func(path []string, v slog.Value)) {
	v := a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if v.Kind() == slog.KindGroup {
		// Inline groups (empty key) keep the parent path.
		path := prefix
		if a.Key != "" {
			path = append(slices.Clip(prefix), a.Key)
		}
		for _, ga := range v.Group() {
			walkAttr(path, ga, visit)
		}
		return
	}
	visit(append(slices.Clip(prefix), a.Key), v)
}
