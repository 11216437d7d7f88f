// Package link connects the warp core to a NATS broker so home automation
// can drive it.
//
// # Subject Hierarchy
//
//	warpcore.{thing}.{param}               # Set a parameter (broker → core)
//	warpcore.{thing}.status.{field}        # Current value (core → broker)
//	warpcore.{thing}.status                # Whole status as JSON (core → broker)
//
// {param} is one of warpFactor, hue, saturation, brightness, pattern. The
// payload is a decimal integer; out-of-range values are clamped.
// Status fields are WarpFactor, hue, saturation, brightness, pattern, plus
// FWVersion and FWDate which are sent once per connect.
//
// {thing} defaults to WarpCore_{hostname}.
//
// The package uses fire-and-forget messaging (core NATS, no JetStream).
// The engine keeps rendering when the broker is unreachable.
//
// # Debugging with nats CLI
//
// Watch everything a core publishes:
//
//	nats sub "warpcore.WarpCore_pi.status.>"
//
// Switch to the core breach pattern:
//
//	nats pub "warpcore.WarpCore_pi.pattern" 2
//
// Set the base hue to green:
//
//	nats pub "warpcore.WarpCore_pi.hue" 96
//
// # Embedded Broker
//
// With link.embedded enabled the process starts its own NATS server
// and connects to it, which is handy for a standalone install:
//
//	nats sub "warpcore.>" -s nats://localhost:4222
//
// # Status Message
//
// warpcore.{thing}.status:
//
//	{
//	  "thing": "WarpCore_pi",
//	  "timestamp": "2024-01-01T12:00:00Z",
//	  "warp_factor": 2,
//	  "hue": 160,
//	  "saturation": 255,
//	  "brightness": 160,
//	  "pattern": 1,
//	  "source": "web"
//	}
package link
