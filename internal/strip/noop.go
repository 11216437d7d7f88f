package strip

import "log/slog"

// noop implements Strip for hosts without LED hardware.
type noop struct {
	count  int
	frames uint64
	logger *slog.Logger
}

func newNoop(count int, logger *slog.Logger) *noop {
	return &noop{count: count, logger: logger}
}

// Show discards the frame, logging one line every 10000 frames.
func (n *noop) Show(pixels []RGB) error {
	n.frames++
	if n.frames%10000 == 1 {
		n.logger.Debug("LED strip not available (no-op)", "frames", n.frames, "leds", len(pixels))
	}
	return nil
}

func (n *noop) Len() int { return n.count }

func (n *noop) Close() error { return nil }
