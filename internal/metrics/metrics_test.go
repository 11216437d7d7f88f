package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFlush(t *testing.T) {
	before := testutil.ToFloat64(framesTotal)
	beforeErr := testutil.ToFloat64(flushErrorsTotal)
	snap := GetRenderSnapshot()

	ObserveFlush(time.Millisecond, 120, nil)
	ObserveFlush(time.Millisecond, 0, errors.New("spi busy"))

	if got := testutil.ToFloat64(framesTotal) - before; got != 1 {
		t.Errorf("frames_total delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(flushErrorsTotal) - beforeErr; got != 1 {
		t.Errorf("flush_errors_total delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(outputBrightness); got != 120 {
		t.Errorf("output_brightness = %v, want 120", got)
	}

	after := GetRenderSnapshot()
	if after.Frames-snap.Frames != 1 || after.FlushErrors-snap.FlushErrors != 1 {
		t.Errorf("snapshot deltas = %d frames, %d errors; want 1, 1",
			after.Frames-snap.Frames, after.FlushErrors-snap.FlushErrors)
	}
	if after.Brightness != 120 {
		t.Errorf("snapshot brightness = %d, want 120", after.Brightness)
	}
}

func TestParameterAndHueGauges(t *testing.T) {
	SetParameter("hue", 96)
	SetHues(10, 250)
	SetLinkConnected(true)

	if got := testutil.ToFloat64(parameterValue.WithLabelValues("hue")); got != 96 {
		t.Errorf("params_value{hue} = %v, want 96", got)
	}
	if got := testutil.ToFloat64(hueValue.WithLabelValues("reactor")); got != 250 {
		t.Errorf("hue_value{reactor} = %v, want 250", got)
	}
	if snap := GetRenderSnapshot(); snap.MainHue != 10 || snap.ReactorHue != 250 {
		t.Errorf("snapshot hues = %d/%d, want 10/250", snap.MainHue, snap.ReactorHue)
	}
	if got := testutil.ToFloat64(linkConnected); got != 1 {
		t.Errorf("link_connected = %v, want 1", got)
	}

	SetLinkConnected(false)
	if got := testutil.ToFloat64(linkConnected); got != 0 {
		t.Errorf("link_connected = %v, want 0", got)
	}
}

func TestObserveTick(t *testing.T) {
	before := testutil.ToFloat64(ticksTotal.WithLabelValues("rainbow"))
	ObserveTick("rainbow", nil)
	ObserveTick("rainbow", errors.New("flush failed"))

	if got := testutil.ToFloat64(ticksTotal.WithLabelValues("rainbow")) - before; got != 2 {
		t.Errorf("ticks_total{rainbow} delta = %v, want 2", got)
	}
}
