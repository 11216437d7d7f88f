package exporters

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/smazurov/warpcore/internal/events"
	"github.com/smazurov/warpcore/internal/metrics"
)

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// SSEExporter samples render metrics and publishes them as events.
type SSEExporter struct {
	eventBus EventPublisher
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	lastFrames uint64
	lastSample time.Time
}

// NewSSEExporter creates a new SSE exporter.
func NewSSEExporter(eventBus EventPublisher) *SSEExporter {
	return &SSEExporter{
		eventBus: eventBus,
		interval: 1 * time.Second,
	}
}

// Start begins the SSE export loop.
func (s *SSEExporter) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.lastFrames = metrics.GetRenderSnapshot().Frames
	s.lastSample = time.Now()
	s.wg.Add(1)
	go s.run()
}

// Stop stops the SSE exporter and waits for the goroutine to finish.
func (s *SSEExporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *SSEExporter) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.publishMetrics(now)
		}
	}
}

func (s *SSEExporter) publishMetrics(now time.Time) {
	snap := metrics.GetRenderSnapshot()

	var fps float64
	if elapsed := now.Sub(s.lastSample).Seconds(); elapsed > 0 && snap.Frames >= s.lastFrames {
		fps = float64(snap.Frames-s.lastFrames) / elapsed
	}
	s.lastFrames = snap.Frames
	s.lastSample = now

	s.eventBus.Publish(events.RenderStatsEvent{
		EventType:   "render_stats",
		FPS:         strconv.FormatFloat(fps, 'f', 2, 64),
		Frames:      strconv.FormatUint(snap.Frames, 10),
		FlushErrors: strconv.FormatUint(snap.FlushErrors, 10),
		Brightness:  strconv.Itoa(int(snap.Brightness)),
		MainHue:     strconv.Itoa(int(snap.MainHue)),
		ReactorHue:  strconv.Itoa(int(snap.ReactorHue)),
	})
}

// GetEventTypes returns event types for SSE endpoint registration.
func GetEventTypes() map[string]any {
	return map[string]any{
		"render-stats": events.RenderStatsEvent{},
	}
}
