package api

import (
	"context"
	"maps"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/warpcore/internal/events"
	"github.com/smazurov/warpcore/internal/metrics/exporters"
	"github.com/smazurov/warpcore/internal/pattern"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of parameter changes, link state and render statistics",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func() map[string]any {
		eventTypes := map[string]any{
			"status-changed":     events.StatusChangedEvent{},
			"link-state-changed": events.LinkStateChangedEvent{},
		}
		maps.Copy(eventTypes, exporters.GetEventTypes())
		return eventTypes
	}(), func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.StatusChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.LinkStateChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RenderStatsEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// New clients start from the current parameters.
		if err := send.Data(s.currentStatus()); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}

func (s *Server) currentStatus() events.StatusChangedEvent {
	status := s.controller.Status()
	return events.StatusChangedEvent{
		WarpFactor:  status.WarpFactor,
		Hue:         status.Hue,
		Saturation:  status.Saturation,
		Brightness:  status.Brightness,
		Pattern:     status.Pattern,
		PatternName: pattern.ID(status.Pattern).String(),
		Source:      "snapshot",
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
