package events

// Event type constants for kelindar/event.
const (
	TypeStatusChanged uint32 = iota + 1
	TypeLinkStateChanged
	TypeRenderStats
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StatusChangedEvent is published whenever a parameter is written.
type StatusChangedEvent struct {
	WarpFactor  int    `json:"warp_factor" example:"2" doc:"Warp factor, 1-9"`
	Hue         int    `json:"hue" example:"160" doc:"Base hue, 0-255"`
	Saturation  int    `json:"saturation" example:"255" doc:"Saturation, 0-255"`
	Brightness  int    `json:"brightness" example:"160" doc:"Global brightness, 0-255"`
	Pattern     int    `json:"pattern" example:"1" doc:"Active pattern id"`
	PatternName string `json:"pattern_name" example:"standard" doc:"Active pattern name"`
	Changed     string `json:"changed,omitempty" example:"hue" doc:"Parameter that triggered the change"`
	Source      string `json:"source" example:"web" doc:"Origin of the change: web, link, preview"`
	Timestamp   string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StatusChangedEvent.
func (e StatusChangedEvent) Type() uint32 { return TypeStatusChanged }

// LinkStateChangedEvent is published when the message link connects or drops.
// Used for LED control and status republishing.
type LinkStateChangedEvent struct {
	Connected bool   `json:"connected" example:"true" doc:"Whether the link is connected"`
	URL       string `json:"url,omitempty" example:"nats://localhost:4222" doc:"Broker URL"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LinkStateChangedEvent.
func (e LinkStateChangedEvent) Type() uint32 { return TypeLinkStateChanged }

// IsConnected implements the LinkStateEvent interface for the LED manager.
func (e LinkStateChangedEvent) IsConnected() bool {
	return e.Connected
}

// RenderStatsEvent carries sampled render counters.
type RenderStatsEvent struct {
	EventType   string `json:"type"`
	FPS         string `json:"fps"`
	Frames      string `json:"frames"`
	FlushErrors string `json:"flush_errors"`
	Brightness  string `json:"brightness"`
	MainHue     string `json:"main_hue"`
	ReactorHue  string `json:"reactor_hue"`
}

// Type returns the event type identifier for RenderStatsEvent.
func (e RenderStatsEvent) Type() uint32 { return TypeRenderStats }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"engine" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
