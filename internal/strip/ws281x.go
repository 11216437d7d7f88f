//go:build ws281x

package strip

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

// ws281x drives a WS2811/WS2812 strip through the rpi_ws281x DMA driver.
type ws281x struct {
	dev   *ws2811.WS2811
	count int
}

func newWS281x(count, gpioPin int) (Strip, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = gpioPin
	opt.Channels[0].LedCount = count
	// Brightness and correction are applied before Show.
	opt.Channels[0].Brightness = 255

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ws281x device: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize ws281x device (root required): %w", err)
	}
	return &ws281x{dev: dev, count: count}, nil
}

func (w *ws281x) Show(pixels []RGB) error {
	leds := w.dev.Leds(0)
	for i, p := range pixels {
		if i >= len(leds) {
			break
		}
		leds[i] = uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B)
	}
	if err := w.dev.Render(); err != nil {
		return fmt.Errorf("ws281x render: %w", err)
	}
	return nil
}

func (w *ws281x) Len() int { return w.count }

func (w *ws281x) Close() error {
	leds := w.dev.Leds(0)
	for i := range leds {
		leds[i] = 0
	}
	_ = w.dev.Render()
	w.dev.Fini()
	return nil
}
