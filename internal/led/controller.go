package led

// StatusLED is the logical name of the board LED that shows link state.
const StatusLED = "status"

// Controller abstracts LED hardware control across different SBC boards.
// Implementations handle board-specific LED naming and capabilities.
type Controller interface {
	// Set controls an LED's state and optional pattern.
	//   name:    logical LED name (e.g. "status")
	//   enabled: whether the LED should be on or off
	//   pattern: "solid", "blink" or a raw trigger; empty leaves it unchanged
	Set(name string, enabled bool, pattern string) error

	// Available returns the logical LED names supported by this controller.
	Available() []string

	// Patterns returns the patterns supported by this controller.
	Patterns() []string
}
