// Package ui renders the warp core control page.
package ui

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed index.html
var indexHTML string

var page = template.Must(template.New("index").Parse(indexHTML))

// PatternButton is one pattern choice on the page.
type PatternButton struct {
	ID    int
	Name  string
	Label string
}

// Page holds the values the control page is rendered with.
type Page struct {
	Brightness int
	Saturation int
	Hue        int
	WarpFactor int
	Pattern    int
	Patterns   []PatternButton
	Thing      string
	Version    string
	BuildDate  string
}

// Handler serves the control page filled from data on each request.
func Handler(data func() Page, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		var buf bytes.Buffer
		if err := page.Execute(&buf, data()); err != nil {
			logger.Error("Failed to render control page", "error", err)
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})
}
