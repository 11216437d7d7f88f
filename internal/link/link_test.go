package link

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/smazurov/warpcore/internal/engine"
	"github.com/smazurov/warpcore/internal/events"
	"github.com/smazurov/warpcore/internal/params"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeEngine stores updates and announces status on the bus like the real
// engine does.
type fakeEngine struct {
	mu        sync.Mutex
	store     *params.Store
	bus       *events.Bus
	changes   []engine.Change
	connected int
}

func (f *fakeEngine) Update(source string, changes ...engine.Change) params.Status {
	f.mu.Lock()
	f.changes = append(f.changes, changes...)
	f.mu.Unlock()
	for _, c := range changes {
		f.store.Set(c.Name, c.Value)
	}
	f.announce(source)
	return f.store.Snapshot()
}

func (f *fakeEngine) OnConnected() {
	f.mu.Lock()
	f.connected++
	f.mu.Unlock()
	f.announce(engine.SourceLink)
}

func (f *fakeEngine) announce(source string) {
	s := f.store.Snapshot()
	f.bus.Publish(events.StatusChangedEvent{
		WarpFactor: s.WarpFactor,
		Hue:        s.Hue,
		Saturation: s.Saturation,
		Brightness: s.Brightness,
		Pattern:    s.Pattern,
		Source:     source,
	})
}

func (f *fakeEngine) received() []engine.Change {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Change(nil), f.changes...)
}

func startServer(t *testing.T, port int) *Server {
	t.Helper()
	server := NewServer(ServerOptions{Port: port, Name: "test-server", Logger: testLogger()})
	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(server.Stop)
	return server
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServerStartStop(t *testing.T) {
	server := NewServer(ServerOptions{Port: 14222, Name: "test-server", Logger: testLogger()})

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	if !server.IsRunning() {
		t.Error("Server should be running after Start()")
	}
	if server.ClientURL() == "" {
		t.Error("ClientURL should not be empty")
	}

	server.Stop()
	if server.IsRunning() {
		t.Error("Server should not be running after Stop()")
	}
}

func TestClientGracefulDegradation(t *testing.T) {
	bus := events.New()
	eng := &fakeEngine{store: params.NewStore(), bus: bus}
	client := NewClient(Options{URL: "nats://localhost:59999", Thing: "test", Engine: eng, Bus: bus, Logger: testLogger()})

	if err := client.Connect(); err == nil {
		t.Error("Connect should fail with non-existent server")
	}

	client.PublishStatus(events.StatusChangedEvent{Hue: 1})
	if client.IsConnected() {
		t.Error("Client should not be connected")
	}
	client.Close()
}

func TestClientRequiresEngine(t *testing.T) {
	if err := NewClient(Options{URL: "nats://localhost:59999"}).Connect(); err == nil {
		t.Error("Connect without an engine should fail")
	}
}

func TestClientConnectPublishesFirmwareAndStatus(t *testing.T) {
	server := startServer(t, 14223)

	observer, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	defer observer.Close()

	var mu sync.Mutex
	got := make(map[string]string)
	sub, err := observer.Subscribe("warpcore.core1.status.>", func(msg *nats.Msg) {
		mu.Lock()
		got[msg.Subject] = string(msg.Data)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sub.Unsubscribe() }()
	if err := observer.Flush(); err != nil {
		t.Fatal(err)
	}

	bus := events.New()
	linkEvents := make(chan any, 4)
	unsub := events.SubscribeToChannel[events.LinkStateChangedEvent](bus, linkEvents)
	defer unsub()

	eng := &fakeEngine{store: params.NewStore(), bus: bus}
	client := NewClient(Options{
		URL:       server.ClientURL(),
		Thing:     "core1",
		Version:   "1.2.3",
		BuildDate: "2025-01-27",
		Engine:    eng,
		Bus:       bus,
		Logger:    testLogger(),
	})
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	want := map[string]string{
		"warpcore.core1.status.FWVersion":  "1.2.3",
		"warpcore.core1.status.FWDate":     "2025-01-27",
		"warpcore.core1.status.WarpFactor": "2",
		"warpcore.core1.status.hue":        "160",
		"warpcore.core1.status.saturation": "255",
		"warpcore.core1.status.brightness": "160",
		"warpcore.core1.status.pattern":    "1",
	}
	waitFor(t, "status publish", func() bool {
		mu.Lock()
		defer mu.Unlock()
		for k, v := range want {
			if got[k] != v {
				return false
			}
		}
		return true
	})

	select {
	case ev := <-linkEvents:
		if !ev.(events.LinkStateChangedEvent).Connected {
			t.Error("expected connected link event")
		}
	case <-time.After(time.Second):
		t.Error("no link state event")
	}
	if !client.IsConnected() {
		t.Error("client should report connected")
	}
}

func TestClientAppliesParameterMessages(t *testing.T) {
	server := startServer(t, 14224)

	bus := events.New()
	eng := &fakeEngine{store: params.NewStore(), bus: bus}
	client := NewClient(Options{URL: server.ClientURL(), Thing: "core2", Engine: eng, Bus: bus, Logger: testLogger()})
	if err := client.Connect(); err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	pub, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	statusJSON := make(chan StatusMessage, 8)
	sub, err := pub.Subscribe(SubjectStatusJSON("core2"), func(msg *nats.Msg) {
		if m, err := UnmarshalStatus(msg.Data); err == nil {
			statusJSON <- m
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sub.Unsubscribe() }()
	if err := pub.Flush(); err != nil {
		t.Fatal(err)
	}

	_ = pub.Publish("warpcore.core2.hue", []byte(" 96abc"))
	_ = pub.Publish("warpcore.core2.brightness", []byte("999"))
	_ = pub.Publish("warpcore.core2.pattern", []byte("two"))
	if err := pub.Flush(); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "three updates", func() bool { return len(eng.received()) == 3 })

	changes := eng.received()
	wantChanges := map[params.Name]int{params.Hue: 96, params.Brightness: 999, params.Pattern: 0}
	for _, c := range changes {
		if want, ok := wantChanges[c.Name]; !ok || c.Value != want {
			t.Errorf("change %s = %d, want %d", c.Name, c.Value, want)
		}
	}

	waitFor(t, "clamped status", func() bool {
		for {
			select {
			case m := <-statusJSON:
				if m.Hue == 96 && m.Brightness == 255 && m.Pattern == 1 {
					return true
				}
			default:
				return false
			}
		}
	})
}

func TestClientRetriesUntilBrokerStarts(t *testing.T) {
	bus := events.New()
	eng := &fakeEngine{store: params.NewStore(), bus: bus}
	client := NewClient(Options{
		URL:           "nats://127.0.0.1:14225",
		Thing:         "core3",
		Engine:        eng,
		Bus:           bus,
		Logger:        testLogger(),
		Retry:         true,
		ReconnectWait: 20 * time.Millisecond,
	})
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() with retry error = %v", err)
	}
	defer client.Close()

	if client.IsConnected() {
		t.Fatal("client should not be connected before the broker starts")
	}

	server := startServer(t, 14225)
	waitFor(t, "connect after retry", func() bool {
		eng.mu.Lock()
		defer eng.mu.Unlock()
		return client.IsConnected() && eng.connected > 0
	})

	pub, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	// Subscriptions made while dialing are sent once the link is up.
	_ = pub.Publish(SubjectParam("core3", params.WarpFactor), []byte("7"))
	if err := pub.Flush(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "parameter after retry", func() bool {
		changes := eng.received()
		return len(changes) == 1 && changes[0].Name == params.WarpFactor && changes[0].Value == 7
	})
}

func TestSubjects(t *testing.T) {
	if got := SubjectParam("core", params.WarpFactor); got != "warpcore.core.warpFactor" {
		t.Errorf("SubjectParam = %q", got)
	}
	if got := SubjectStatus("core", StatusField(params.WarpFactor)); got != "warpcore.core.status.WarpFactor" {
		t.Errorf("SubjectStatus = %q", got)
	}
	if got := SubjectStatus("core", StatusField(params.Hue)); got != "warpcore.core.status.hue" {
		t.Errorf("SubjectStatus = %q", got)
	}

	name, err := ParamFromSubject("warpcore.core.saturation")
	if err != nil || name != params.Saturation {
		t.Errorf("ParamFromSubject = %q, %v", name, err)
	}
	if _, err := ParamFromSubject("warpcore.core.status"); err == nil {
		t.Error("status subject should not parse as a parameter")
	}

	if got := SanitizeThing("Warp Core.v2*"); got != "Warp_Core_v2_" {
		t.Errorf("SanitizeThing = %q", got)
	}
}

func TestStatusValuesOrder(t *testing.T) {
	values := StatusValues(params.Status{WarpFactor: 3, Hue: 10, Saturation: 20, Brightness: 30, Pattern: 4})
	want := []StatusValue{
		{"WarpFactor", "3"},
		{"hue", "10"},
		{"saturation", "20"},
		{"brightness", "30"},
		{"pattern", "4"},
	}
	if len(values) != len(want) {
		t.Fatalf("got %d values, want %d", len(values), len(want))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %+v, want %+v", i, values[i], want[i])
		}
	}
}
