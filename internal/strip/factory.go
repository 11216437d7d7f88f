package strip

import (
	"fmt"
	"log/slog"

	"github.com/smazurov/warpcore/internal/zone"
)

// Driver names accepted by New.
const (
	DriverNoop     = "noop"
	DriverTerminal = "terminal"
	DriverWS281x   = "ws281x"
)

// Config selects and configures a strip driver.
type Config struct {
	Driver  string
	Layout  zone.Layout
	GPIOPin int
}

// Drivers lists the names New understands.
func Drivers() []string {
	return []string{DriverNoop, DriverTerminal, DriverWS281x}
}

// New creates the strip for cfg.Driver. An empty driver selects noop.
func New(cfg Config, logger *slog.Logger) (Strip, error) {
	if logger == nil {
		logger = slog.Default()
	}
	count := cfg.Layout.Total()

	switch cfg.Driver {
	case "", DriverNoop:
		logger.Info("Using no-op LED strip", "leds", count)
		return newNoop(count, logger), nil

	case DriverTerminal:
		logger.Info("Using terminal LED strip", "leds", count)
		return NewTerminal(cfg.Layout)

	case DriverWS281x:
		logger.Info("Using ws281x LED strip", "leds", count, "gpio_pin", cfg.GPIOPin)
		return newWS281x(count, cfg.GPIOPin)

	default:
		return nil, fmt.Errorf("unknown strip driver %q", cfg.Driver)
	}
}
