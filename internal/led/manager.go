package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/warpcore/internal/events"
)

// Subscriber is the event bus the manager listens on.
type Subscriber interface {
	Subscribe(handler any) func()
}

// Manager drives the status LED from the message link state: solid while
// connected, blinking otherwise.
type Manager struct {
	controller  Controller
	eventBus    Subscriber
	unsubscribe func()
	logger      *slog.Logger
	mu          sync.Mutex
	connected   bool
}

// NewManager creates a new LED manager.
func NewManager(controller Controller, eventBus Subscriber, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Start shows the offline pattern and begins listening for link events.
func (m *Manager) Start() {
	m.update(false)
	m.unsubscribe = m.eventBus.Subscribe(func(e events.LinkStateChangedEvent) {
		m.handleEvent(e)
	})
	m.logger.Info("LED manager started")
}

// Stop unsubscribes from events.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.logger.Info("LED manager stopped")
}

// Connected reports the last link state seen.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Manager) handleEvent(e events.LinkStateChangedEvent) {
	m.logger.Debug("Link state changed", "connected", e.IsConnected())
	m.update(e.IsConnected())
}

func (m *Manager) update(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected

	pattern := "blink"
	if connected {
		pattern = "solid"
	}
	if err := m.controller.Set(StatusLED, true, pattern); err != nil {
		m.logger.Warn("Failed to set status LED", "pattern", pattern, "error", err)
	}
}

// GetController returns the underlying LED controller.
func (m *Manager) GetController() Controller {
	return m.controller
}
