package link

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

const readyTimeout = 5 * time.Second

// ServerOptions configures the embedded broker.
type ServerOptions struct {
	Port     int
	Host     string
	Name     string
	User     string
	Password string
	Logger   *slog.Logger
}

// DefaultServerOptions returns the defaults for the embedded broker.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Port: 4222,
		Host: "127.0.0.1",
		Name: "warpcore",
	}
}

// Server is an in-process NATS broker so a single board can run the link
// without external infrastructure.
type Server struct {
	mu     sync.Mutex
	ns     *server.Server
	opts   ServerOptions
	logger *slog.Logger
}

// NewServer creates an embedded broker. Zero fields take the defaults.
func NewServer(opts ServerOptions) *Server {
	def := DefaultServerOptions()
	if opts.Port == 0 {
		opts.Port = def.Port
	}
	if opts.Host == "" {
		opts.Host = def.Host
	}
	if opts.Name == "" {
		opts.Name = def.Name
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, logger: logger.With("component", "nats-server")}
}

// Start runs the broker and blocks until it accepts connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ns != nil {
		return nil
	}

	ns, err := server.NewServer(&server.Options{
		Host:           s.opts.Host,
		Port:           s.opts.Port,
		ServerName:     s.opts.Name,
		NoSigs:         true,
		MaxControlLine: 4096,
		MaxPayload:     4 * 1024,
		Username:       s.opts.User,
		Password:       s.opts.Password,
	})
	if err != nil {
		return fmt.Errorf("create NATS server: %w", err)
	}
	ns.SetLoggerV2(&brokerLog{logger: s.logger}, false, false, false)

	go ns.Start()
	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return fmt.Errorf("NATS server not ready after %s", readyTimeout)
	}

	s.ns = ns
	s.logger.Info("NATS server started", "url", ns.ClientURL())
	return nil
}

// Stop shuts the broker down and waits for it to finish.
func (s *Server) Stop() {
	s.mu.Lock()
	ns := s.ns
	s.ns = nil
	s.mu.Unlock()

	if ns == nil {
		return
	}
	s.logger.Info("Stopping NATS server")
	ns.Shutdown()
	ns.WaitForShutdown()
}

// ClientURL is the URL clients dial. Before Start it is derived from the
// configured host and port.
func (s *Server) ClientURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ns == nil {
		return fmt.Sprintf("nats://%s:%d", s.opts.Host, s.opts.Port)
	}
	return s.ns.ClientURL()
}

// IsRunning reports whether the broker accepts connections.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ns != nil && s.ns.Running()
}

// NumClients returns the number of connected clients.
func (s *Server) NumClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ns == nil {
		return 0
	}
	return s.ns.NumClients()
}

// brokerLog routes nats-server logging into slog.
type brokerLog struct {
	logger *slog.Logger
}

func (l *brokerLog) Noticef(format string, v ...any) { l.logger.Debug(fmt.Sprintf(format, v...)) }
func (l *brokerLog) Warnf(format string, v ...any)   { l.logger.Warn(fmt.Sprintf(format, v...)) }
func (l *brokerLog) Fatalf(format string, v ...any)  { l.logger.Error(fmt.Sprintf(format, v...)) }
func (l *brokerLog) Errorf(format string, v ...any)  { l.logger.Error(fmt.Sprintf(format, v...)) }
func (l *brokerLog) Debugf(format string, v ...any)  { l.logger.Debug(fmt.Sprintf(format, v...)) }
func (l *brokerLog) Tracef(format string, v ...any)  { l.logger.Debug(fmt.Sprintf(format, v...)) }
