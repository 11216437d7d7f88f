package led

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestNoopController(t *testing.T) {
	ctrl := newNoop(slog.New(slog.DiscardHandler))

	if err := ctrl.Set(StatusLED, true, "solid"); err != nil {
		t.Errorf("Set() returned error: %v", err)
	}
	if types := ctrl.Available(); len(types) != 0 {
		t.Errorf("Available() = %v, want empty slice", types)
	}
	if patterns := ctrl.Patterns(); len(patterns) != 0 {
		t.Errorf("Patterns() = %v, want empty slice", patterns)
	}
}

func TestSysfsController_Available(t *testing.T) {
	ctrl := newSysfs(t.TempDir(), map[string]string{StatusLED: "ACT", "power": "PWR"})
	got := ctrl.Available()
	if len(got) != 2 || got[0] != "power" || got[1] != StatusLED {
		t.Errorf("Available() = %v, want [power status]", got)
	}
}

func TestSysfsController_Set_InvalidType(t *testing.T) {
	ctrl := newSysfs(t.TempDir(), map[string]string{StatusLED: "ACT"})
	if err := ctrl.Set("nonexistent", true, ""); err == nil {
		t.Error("Set() with invalid LED name should return error")
	}
}

func TestSysfsController_Set_Missing(t *testing.T) {
	ctrl := newSysfs(t.TempDir(), map[string]string{StatusLED: "ACT"})
	if err := ctrl.Set(StatusLED, true, "solid"); err == nil {
		t.Error("Set() should fail when the sysfs LED directory is missing")
	}
}

func TestSysfsController_SetWritesTriggerAndBrightness(t *testing.T) {
	root := t.TempDir()
	ledDir := filepath.Join(root, "ACT")
	if err := os.MkdirAll(ledDir, 0o755); err != nil {
		t.Fatal(err)
	}
	ctrl := newSysfs(root, map[string]string{StatusLED: "ACT"})

	tests := []struct {
		pattern     string
		enabled     bool
		wantTrigger string
		wantBright  string
	}{
		{"blink", true, "heartbeat", "1"},
		{"solid", true, "none", "1"},
		{"timer", false, "timer", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if err := ctrl.Set(StatusLED, tt.enabled, tt.pattern); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			trigger, _ := os.ReadFile(filepath.Join(ledDir, "trigger"))
			bright, _ := os.ReadFile(filepath.Join(ledDir, "brightness"))
			if string(trigger) != tt.wantTrigger {
				t.Errorf("trigger = %q, want %q", trigger, tt.wantTrigger)
			}
			if string(bright) != tt.wantBright {
				t.Errorf("brightness = %q, want %q", bright, tt.wantBright)
			}
		})
	}
}
