// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"render": "debug",  // Per-module overrides
//			"api":    "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("mymodule")
//	logger.Info("Starting up", "port", 8080)
//	logger.Debug("Details", "config", cfg)
//	logger.Warn("Something unusual", "error", err)
//	logger.Error("Failed", "error", err)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("link").With("thing", name)
//	logger.Info("Connected")  // Includes thing in all logs
//
// # Log Levels
//
//	debug - Verbose debugging information
//	info  - General operational messages
//	warn  - Warning conditions
//	error - Error conditions
//
// # Output Destinations
//
// Each module logger fans out through a [MultiHandler] to whatever is present:
// the console (stdout when it is a terminal, pipe, socket or file), the
// systemd journal when [github.com/coreos/go-systemd/v22/journal.Enabled]
// reports it, and always a [BufferHandler] feeding the ring buffer behind
// the /api/logs/stream endpoint. [SetOutput] swaps the console writer;
// io.Discard keeps a full-screen terminal strip readable.
//
// # Runtime Levels
//
// Each module logger holds a [log/slog.LevelVar]. [SetLevels] updates them in
// place, which is how the config watcher applies edits to the [logging]
// section without a restart.
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t warpcore              # All warpcore logs
//	journalctl -t warpcore -f           # Follow live
//	journalctl -t warpcore --since "5m" # Last 5 minutes
//	journalctl -t warpcore -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t warpcore MODULE=engine
//	journalctl -t warpcore PARAM=hue
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	render = "debug"
//	api = "warn"
//	link = "error"
package logging
