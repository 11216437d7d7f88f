package events

import "github.com/kelindar/event"

// SubscribeToChannel bridges kelindar/event callback subscriptions to channels
// for the SSE handlers, which select over a single channel.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
			// Drop event if channel is full
		}
	})
}
