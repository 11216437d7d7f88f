package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/warpcore/internal/logging"
)

// streamPaths are SSE endpoints; they log when the client disconnects.
var streamPaths = map[string]bool{
	"/api/events":      true,
	"/api/logs/stream": true,
}

func isStream(path string) bool {
	return streamPaths[path]
}

// requestLevel picks the access log level. Preflights and SSE streams that
// ended normally log at debug.
func requestLevel(method, path string, status int) slog.Level {
	switch {
	case method == http.MethodOptions, isStream(path) && status < 400:
		return slog.LevelDebug
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// HTTPLoggingMiddleware writes one access log line per request.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	u := ctx.URL()

	attrs := []slog.Attr{
		slog.String("method", ctx.Method()),
		slog.String("path", u.Path),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	// The auth query parameter carries credentials; never log it.
	if u.RawQuery != "" && !u.Query().Has("auth") {
		attrs = append(attrs, slog.String("query", u.RawQuery))
	}
	if ua := ctx.Header("User-Agent"); ua != "" {
		attrs = append(attrs, slog.String("user_agent", ua))
	}

	next(ctx)

	status := ctx.Status()
	attrs = append(attrs, slog.Int("status", status), slog.Duration("duration", time.Since(start)))
	logging.GetLogger("http").LogAttrs(ctx.Context(), requestLevel(ctx.Method(), u.Path, status),
		"HTTP request completed", attrs...)
}
