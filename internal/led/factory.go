package led

import (
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// boardLEDs maps a device tree model substring to the sysfs LED used as the
// status LED.
var boardLEDs = []struct {
	model string
	leds  map[string]string
}{
	{"NanoPC-T6", map[string]string{StatusLED: "sys_led", "user": "usr_led"}},
	{"Orange Pi", map[string]string{StatusLED: "green_led", "blue": "blue_led"}},
	{"Raspberry Pi", map[string]string{StatusLED: "ACT", "power": "PWR"}},
}

// New creates a controller for the detected board.
// Falls back to a no-op controller if LEDs are not available.
func New(logger *slog.Logger) Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return forModel(detectBoard(), sysfsLEDPath, logger)
}

func forModel(model, root string, logger *slog.Logger) Controller {
	for _, b := range boardLEDs {
		if strings.Contains(model, b.model) {
			logger.Info("Using sysfs LED controller", "board_model", model)
			return newSysfs(root, b.leds)
		}
	}
	logger.Info("No LED support detected, using no-op controller", "board_model", model)
	return newNoop(logger)
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}
	// Device tree strings are NUL terminated.
	return strings.TrimRight(string(data), "\x00")
}
