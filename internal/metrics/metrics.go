// Package metrics exposes warp core runtime metrics to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "warpcore"

var (
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "ticks_total",
		Help:      "Pattern ticks rendered, by pattern",
	}, []string{"pattern"})

	tickErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "tick_errors_total",
		Help:      "Ticks aborted by a strip error",
	})

	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Frames flushed to the LED strip",
	})

	flushErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "flush_errors_total",
		Help:      "Failed strip flushes",
	})

	flushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "flush_duration_seconds",
		Help:      "Time spent pushing one frame to the strip",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.05},
	})

	outputBrightness = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "output_brightness",
		Help:      "Brightness of the last frame after power limiting",
	})

	parameterValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "params",
		Name:      "value",
		Help:      "Current parameter values",
	}, []string{"param"})

	hueValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "hue",
		Name:      "value",
		Help:      "Live hue of the main strip and the reaction chamber",
	}, []string{"zone"})

	linkConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "link",
		Name:      "connected",
		Help:      "1 when the message link is connected",
	})

	linkMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "link",
		Name:      "messages_total",
		Help:      "Parameter messages received over the link, by parameter",
	}, []string{"param"})

	// Local cache for SSE exporter access.
	render   RenderSnapshot
	renderMu sync.RWMutex
)

// RenderSnapshot holds current render values.
type RenderSnapshot struct {
	Frames      uint64
	FlushErrors uint64
	Brightness  uint8
	MainHue     uint8
	ReactorHue  uint8
}

// GetRenderSnapshot returns the current render values.
func GetRenderSnapshot() RenderSnapshot {
	renderMu.RLock()
	defer renderMu.RUnlock()
	return render
}

// ObserveFlush records one strip flush.
func ObserveFlush(d time.Duration, brightness uint8, err error) {
	if err != nil {
		flushErrorsTotal.Inc()
		updateRender(func(r *RenderSnapshot) { r.FlushErrors++ })
		return
	}
	framesTotal.Inc()
	flushDuration.Observe(d.Seconds())
	outputBrightness.Set(float64(brightness))
	updateRender(func(r *RenderSnapshot) {
		r.Frames++
		r.Brightness = brightness
	})
}

// ObserveTick records one pattern tick.
func ObserveTick(pattern string, err error) {
	ticksTotal.WithLabelValues(pattern).Inc()
	if err != nil {
		tickErrorsTotal.Inc()
	}
}

// SetParameter records the current value of a parameter.
func SetParameter(name string, value int) {
	parameterValue.WithLabelValues(name).Set(float64(value))
}

// SetHues records the live hue state.
func SetHues(main, reactor uint8) {
	hueValue.WithLabelValues("main").Set(float64(main))
	hueValue.WithLabelValues("reactor").Set(float64(reactor))
	updateRender(func(r *RenderSnapshot) {
		r.MainHue = main
		r.ReactorHue = reactor
	})
}

// SetLinkConnected records the message link state.
func SetLinkConnected(connected bool) {
	if connected {
		linkConnected.Set(1)
		return
	}
	linkConnected.Set(0)
}

// IncLinkMessage counts a received parameter message.
func IncLinkMessage(param string) {
	linkMessagesTotal.WithLabelValues(param).Inc()
}

func updateRender(update func(*RenderSnapshot)) {
	renderMu.Lock()
	defer renderMu.Unlock()
	update(&render)
}
