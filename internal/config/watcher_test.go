package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smazurov/warpcore/internal/logging"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newLoggingWatcher(t *testing.T, debounce time.Duration, opts ...WatcherOption[logging.Config]) (*Watcher[logging.Config], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warpcore.toml")
	writeConfig(t, path, "[logging]\nlevel = \"info\"\n")

	opts = append([]WatcherOption[logging.Config]{WithDebounce[logging.Config](debounce)}, opts...)
	w := NewConfigWatcher(path, ReadLoggingConfig, newTestLogger(), opts...)
	return w, path
}

func startWatcher(t *testing.T, w *Watcher[logging.Config]) {
	t.Helper()
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("watcher.Stop failed: %v", err)
		}
	})
	// Wait for watcher to initialize
	time.Sleep(100 * time.Millisecond)
}

func TestConfigWatcher_ReloadsLoggingLevels(t *testing.T) {
	w, path := newLoggingWatcher(t, 50*time.Millisecond)

	received := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) {
		received <- cfg
	})
	startWatcher(t, w)

	writeConfig(t, path, "[logging]\nlevel = \"debug\"\n\n[logging.modules]\nengine = \"warn\"\n")

	select {
	case cfg := <-received:
		if cfg.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Level)
		}
		if cfg.Modules["engine"] != "warn" {
			t.Errorf("engine = %q, want warn", cfg.Modules["engine"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestConfigWatcher_RenameSave(t *testing.T) {
	w, path := newLoggingWatcher(t, 50*time.Millisecond)

	received := make(chan logging.Config, 4)
	w.OnReload(func(cfg logging.Config) {
		received <- cfg
	})
	startWatcher(t, w)

	tmp := path + ".swp"
	writeConfig(t, tmp, "[logging]\nlevel = \"error\"\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Level != "error" {
			t.Errorf("Level = %q, want error", cfg.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestConfigWatcher_IgnoresSiblingFiles(t *testing.T) {
	w, path := newLoggingWatcher(t, 50*time.Millisecond)

	var count atomic.Int32
	w.OnReload(func(_ logging.Config) {
		count.Add(1)
	})
	startWatcher(t, w)

	writeConfig(t, filepath.Join(filepath.Dir(path), "other.toml"), "x = 1\n")
	time.Sleep(300 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 reloads for unrelated file, got %d", got)
	}
}

func TestConfigWatcher_MultipleHandlers(t *testing.T) {
	w, path := newLoggingWatcher(t, 50*time.Millisecond)

	var count atomic.Int32
	var mu sync.Mutex
	var levels []string
	for range 3 {
		w.OnReload(func(cfg logging.Config) {
			count.Add(1)
			mu.Lock()
			levels = append(levels, cfg.Level)
			mu.Unlock()
		})
	}
	startWatcher(t, w)

	writeConfig(t, path, "[logging]\nlevel = \"warn\"\n")
	time.Sleep(300 * time.Millisecond)

	if got := count.Load(); got != 3 {
		t.Errorf("expected 3 handlers called, got %d", got)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, level := range levels {
		if level != "warn" {
			t.Errorf("handler %d got level %q", i, level)
		}
	}
}

func TestConfigWatcher_Unsubscribe(t *testing.T) {
	w, path := newLoggingWatcher(t, 50*time.Millisecond)

	var count1, count2 atomic.Int32
	w.OnReload(func(_ logging.Config) { count1.Add(1) })
	unsub := w.OnReload(func(_ logging.Config) { count2.Add(1) })
	startWatcher(t, w)

	writeConfig(t, path, "[logging]\nlevel = \"debug\"\n")
	time.Sleep(300 * time.Millisecond)

	unsub()

	writeConfig(t, path, "[logging]\nlevel = \"info\"\n")
	time.Sleep(300 * time.Millisecond)

	if got := count1.Load(); got != 2 {
		t.Errorf("handler1: expected 2 calls, got %d", got)
	}
	if got := count2.Load(); got != 1 {
		t.Errorf("handler2: expected 1 call, got %d", got)
	}
}

func TestConfigWatcher_ErrorHandler(t *testing.T) {
	errorReceived := make(chan error, 1)
	w, path := newLoggingWatcher(t, 50*time.Millisecond,
		WithErrorHandler[logging.Config](func(err error) {
			errorReceived <- err
		}),
	)

	configReceived := make(chan logging.Config, 1)
	w.OnReload(func(cfg logging.Config) {
		configReceived <- cfg
	})
	startWatcher(t, w)

	writeConfig(t, path, "[logging\nlevel = ")

	select {
	case <-errorReceived:
	case <-configReceived:
		t.Fatal("config handler should not be called on error")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestConfigWatcher_Debounce(t *testing.T) {
	w, path := newLoggingWatcher(t, 200*time.Millisecond)

	var count atomic.Int32
	var last atomic.Value
	w.OnReload(func(cfg logging.Config) {
		count.Add(1)
		last.Store(cfg.Modules["link"])
	})
	startWatcher(t, w)

	levels := []string{"debug", "info", "warn", "error", "debug"}
	for _, level := range levels {
		writeConfig(t, path, fmt.Sprintf("[logging]\nlink = %q\n", level))
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
	if got, _ := last.Load().(string); got != "debug" {
		t.Errorf("expected final link level debug, got %q", got)
	}
}

func TestConfigWatcher_ThreadSafety(t *testing.T) {
	w, path := newLoggingWatcher(t, 10*time.Millisecond)
	startWatcher(t, w)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := w.OnReload(func(_ logging.Config) {})
			time.Sleep(time.Millisecond)
			unsub()
		}()
	}

	for i := range 10 {
		writeConfig(t, path, fmt.Sprintf("[logging]\nformat = \"text\"\n# %d\n", i))
		time.Sleep(20 * time.Millisecond)
	}

	wg.Wait()
}

func TestConfigWatcher_Stop(t *testing.T) {
	w, path := newLoggingWatcher(t, 50*time.Millisecond)

	var count atomic.Int32
	w.OnReload(func(_ logging.Config) {
		count.Add(1)
	})

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}

	writeConfig(t, path, "[logging]\nlevel = \"debug\"\n")
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 calls after stop, got %d", got)
	}
}

func TestConfigWatcher_StopWithoutStart(t *testing.T) {
	w, _ := newLoggingWatcher(t, 50*time.Millisecond)
	if err := w.Stop(); err != nil {
		t.Errorf("Stop before Start returned %v", err)
	}
}

func TestConfigWatcher_SkipsUnchangedContent(t *testing.T) {
	w, path := newLoggingWatcher(t, 50*time.Millisecond)

	var count atomic.Int32
	w.OnReload(func(_ logging.Config) { count.Add(1) })
	startWatcher(t, w)

	writeConfig(t, path, "[logging]\nlevel = \"info\"\n")
	time.Sleep(300 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 reloads for identical content, got %d", got)
	}
}
