package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testPage() Page {
	return Page{
		Brightness: 200,
		Saturation: 255,
		Hue:        96,
		WarpFactor: 7,
		Pattern:    2,
		Patterns: []PatternButton{
			{ID: 1, Name: "standard", Label: "Standard"},
			{ID: 2, Name: "core-breach", Label: "Core Breach"},
		},
		Thing:     "WarpCore_test",
		Version:   "1.2.3",
		BuildDate: "2025-01-27",
	}
}

func TestHandlerRendersValues(t *testing.T) {
	h := Handler(testPage, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`id="brightness" data-param="brightness" min="0" max="255" step="1" value="200"`,
		`id="warpFactor" data-param="warpFactor" min="1" max="9" step="1" value="7"`,
		`class="button active" data-pattern="2"`,
		`value="Core Breach"`,
		"WarpCore_test",
		"Firmware Version: 1.2.3 - 2025-01-27",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, `class="button active" data-pattern="1"`) {
		t.Error("inactive pattern marked active")
	}
}

func TestHandlerEscapesThing(t *testing.T) {
	p := testPage()
	p.Thing = "<script>alert(1)</script>"
	h := Handler(func() Page { return p }, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
		t.Error("thing name was not escaped")
	}
}

func TestHandlerRejectsPost(t *testing.T) {
	h := Handler(testPage, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
