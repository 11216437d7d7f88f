package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(StatusChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case StatusChangedEvent:
		event.Publish(b.dispatcher, e)
	case LinkStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case RenderStatsEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler type selects which events it receives.
// Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e StatusChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(StatusChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LinkStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(RenderStatsEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
