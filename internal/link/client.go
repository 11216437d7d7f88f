package link

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/smazurov/warpcore/internal/engine"
	"github.com/smazurov/warpcore/internal/events"
	"github.com/smazurov/warpcore/internal/metrics"
	"github.com/smazurov/warpcore/internal/params"
)

// Engine is the part of the engine the link drives.
type Engine interface {
	Update(source string, changes ...engine.Change) params.Status
	OnConnected()
}

// Bus is the event bus the link listens on and reports to.
type Bus interface {
	Publish(ev events.Event)
	Subscribe(handler any) func()
}

// Options configures a Client.
type Options struct {
	URL       string
	Thing     string
	User      string
	Password  string
	Version   string
	BuildDate string
	Engine    Engine
	Bus       Bus
	Logger    *slog.Logger

	// Retry keeps dialing when the broker is unreachable at startup.
	// Connect then returns nil and the link comes up once the broker does.
	Retry bool

	// ReconnectWait is the pause between dial attempts, 2s when zero.
	ReconnectWait time.Duration
}

// DefaultThing returns the thing name derived from the hostname.
func DefaultThing() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return SanitizeThing("WarpCore_" + host)
}

// Client connects the engine to a NATS broker: parameter subjects feed
// the engine, status changes are published back.
// Gracefully degrades when NATS is unavailable.
type Client struct {
	opts      Options
	conn      *nats.Conn
	subs      []*nats.Subscription
	unsub     func()
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool
}

// NewClient creates a link client.
func NewClient(opts Options) *Client {
	if opts.Thing == "" {
		opts.Thing = DefaultThing()
	}
	opts.Thing = SanitizeThing(opts.Thing)
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 2 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		opts:   opts,
		logger: logger.With("component", "link", "thing", opts.Thing),
	}
}

// Thing returns the sanitized thing name.
func (c *Client) Thing() string { return c.opts.Thing }

// Connect establishes the connection, subscribes to parameter subjects and
// starts forwarding status changes. On failure the engine keeps running
// without a link, unless Retry is set, in which case dialing continues in
// the background.
func (c *Client) Connect() error {
	if c.opts.Engine == nil {
		return errors.New("link requires an engine")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	opts := []nats.Option{
		nats.Name(c.opts.Thing),
		nats.ReconnectWait(c.opts.ReconnectWait),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(c.opts.Retry),
		nats.ConnectHandler(func(nc *nats.Conn) {
			c.logger.Info("Connected to NATS after retry", "url", nc.ConnectedUrl())
			c.onConnect(nc)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.setConnected(false)
			if err != nil {
				c.logger.Warn("NATS disconnected", "error", err)
			} else {
				c.logger.Debug("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
			c.onConnect(nc)
		}),
	}
	if c.opts.User != "" {
		opts = append(opts, nats.UserInfo(c.opts.User, c.opts.Password))
	}

	conn, err := nats.Connect(c.opts.URL, opts...)
	if err != nil {
		c.logger.Warn("Failed to connect to NATS, running in offline mode", "error", err)
		return err
	}
	c.conn = conn

	for _, name := range params.Names {
		sub, subErr := conn.Subscribe(SubjectParam(c.opts.Thing, name), c.handleParam)
		if subErr != nil {
			c.cleanupLocked()
			return subErr
		}
		c.subs = append(c.subs, sub)
	}
	if c.opts.Bus != nil {
		c.unsub = c.opts.Bus.Subscribe(func(e events.StatusChangedEvent) {
			c.PublishStatus(e)
		})
	}

	if !conn.IsConnected() {
		c.logger.Warn("NATS unreachable, retrying in the background",
			"url", c.opts.URL, "wait", c.opts.ReconnectWait)
		return nil
	}

	c.logger.Info("Connected to NATS", "url", c.opts.URL)
	// The connection lock is held, so announce from a goroutine to let the
	// status publish triggered by OnConnected take the read lock.
	go c.onConnect(conn)
	return nil
}

// onConnect publishes the firmware fields and asks the engine for a full
// status publish.
func (c *Client) onConnect(conn *nats.Conn) {
	c.setConnected(true)

	thing := c.opts.Thing
	c.publish(conn, SubjectStatus(thing, FieldFWVersion), []byte(c.opts.Version))
	c.publish(conn, SubjectStatus(thing, FieldFWDate), []byte(c.opts.BuildDate))

	c.opts.Engine.OnConnected()
}

func (c *Client) setConnected(connected bool) {
	c.mu.Lock()
	changed := c.connected != connected
	c.connected = connected
	c.mu.Unlock()

	metrics.SetLinkConnected(connected)
	if changed && c.opts.Bus != nil {
		c.opts.Bus.Publish(events.LinkStateChangedEvent{
			Connected: connected,
			URL:       c.opts.URL,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}

// handleParam applies one parameter message. The payload is parsed like a
// leading decimal integer; anything else reads as 0.
func (c *Client) handleParam(msg *nats.Msg) {
	name, err := ParamFromSubject(msg.Subject)
	if err != nil {
		c.logger.Debug("Ignoring message", "subject", msg.Subject, "error", err)
		return
	}
	value := params.ParseInt(string(msg.Data))
	metrics.IncLinkMessage(string(name))

	c.logger.Debug("Parameter received", "param", name, "payload", string(msg.Data))
	c.opts.Engine.Update(engine.SourceLink, engine.Change{Name: name, Value: value})
}

// PublishStatus publishes every status field.
// No-op if not connected (graceful degradation).
func (c *Client) PublishStatus(e events.StatusChangedEvent) {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if conn == nil || !connected {
		return
	}

	status := params.Status{
		WarpFactor: e.WarpFactor,
		Hue:        e.Hue,
		Saturation: e.Saturation,
		Brightness: e.Brightness,
		Pattern:    e.Pattern,
	}
	for _, v := range StatusValues(status) {
		c.publish(conn, SubjectStatus(c.opts.Thing, v.Field), []byte(v.Value))
	}

	data, err := StatusMessage{
		Thing:      c.opts.Thing,
		Timestamp:  e.Timestamp,
		WarpFactor: status.WarpFactor,
		Hue:        status.Hue,
		Saturation: status.Saturation,
		Brightness: status.Brightness,
		Pattern:    status.Pattern,
		Source:     e.Source,
	}.Marshal()
	if err != nil {
		c.logger.Warn("Failed to marshal status", "error", err)
		return
	}
	c.publish(conn, SubjectStatusJSON(c.opts.Thing), data)
}

func (c *Client) publish(conn *nats.Conn, subject string, data []byte) {
	if err := conn.Publish(subject, data); err != nil {
		c.logger.Warn("Failed to publish", "subject", subject, "error", err)
	}
}

// IsConnected returns true if connected to NATS.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.conn != nil
}

// Close closes the NATS connection.
func (c *Client) Close() {
	c.mu.Lock()
	c.cleanupLocked()
	c.mu.Unlock()

	c.setConnected(false)
	c.logger.Debug("Link closed")
}

func (c *Client) cleanupLocked() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.subs = nil

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
