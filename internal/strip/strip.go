// Package strip drives the physical (or simulated) addressable LED strip.
package strip

// RGB is one pixel as sent to the strip.
type RGB struct {
	R, G, B uint8
}

// Black is an unlit pixel.
var Black = RGB{}

// Strip abstracts the LED transport.
// Show blocks until the frame has been handed to the device.
type Strip interface {
	// Show pushes one full frame. len(pixels) must equal Len().
	Show(pixels []RGB) error

	// Len returns the number of addressable pixels.
	Len() int

	// Close releases the device and blanks it where supported.
	Close() error
}
