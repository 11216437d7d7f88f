package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/warpcore/internal/api/models"
	"github.com/smazurov/warpcore/internal/engine"
	"github.com/smazurov/warpcore/internal/events"
	"github.com/smazurov/warpcore/internal/logging"
	"github.com/smazurov/warpcore/internal/params"
	"github.com/smazurov/warpcore/internal/version"
	"github.com/smazurov/warpcore/ui"
)

const authRealm = `Basic realm="WarpCore"`

// Controller is the part of the engine the API drives.
type Controller interface {
	Update(source string, changes ...engine.Change) params.Status
	Status() params.Status
	Ticks() uint64
}

// Server is the Huma v2 API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	controller Controller
	eventBus   *events.Bus
	logger     *slog.Logger
}

// Options configures the API server.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Controller        Controller
	EventBus          *events.Bus
	Thing             string       // Device name shown on the control page
	CORSOrigin        string       // Access-Control-Allow-Origin, "*" when empty
	PrometheusHandler http.Handler // Optional Prometheus metrics handler
}

// basicAuthMiddleware creates middleware for HTTP basic authentication
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		// Skip auth for operations without security requirements
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		user, pass, err := credentials(ctx)
		if err != nil {
			ctx.SetHeader("WWW-Authenticate", authRealm)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, err.Error())
			return
		}

		if user != username || pass != password {
			ctx.SetHeader("WWW-Authenticate", authRealm)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

// credentials reads basic auth from the Authorization header, falling back
// to the auth query parameter for EventSource clients.
func credentials(ctx huma.Context) (string, string, error) {
	var encoded string
	if header := ctx.Header("Authorization"); header != "" {
		const prefix = "Basic "
		if !strings.HasPrefix(header, prefix) {
			return "", "", huma.Error401Unauthorized("Invalid authentication type")
		}
		encoded = header[len(prefix):]
	} else {
		encoded = ctx.Query("auth")
	}

	if encoded == "" {
		return "", "", huma.Error401Unauthorized("Authentication required")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", huma.Error401Unauthorized("Invalid credentials format")
	}

	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", huma.Error401Unauthorized("Invalid credentials format")
	}
	return user, pass, nil
}

// NewServer creates a new API server with Huma v2 using Go 1.22+ native routing
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	if opts.CORSOrigin != "" {
		corsConfig.AllowOrigin = opts.CORSOrigin
	}

	// Add CORS preflight handler for all OPTIONS requests
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("WarpCore API", version.String())
	config.Info.Description = "Control API for an LED warp core"
	// Empty servers list will make OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}

	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	bus := opts.EventBus
	if bus == nil {
		bus = events.New()
	}

	server := &Server{
		api:        api,
		mux:        mux,
		options:    opts,
		controller: opts.Controller,
		eventBus:   bus,
		logger:     logging.GetLogger("api"),
	}

	// Apply CORS middleware first (before auth)
	api.UseMiddleware(NewCORSMiddleware(corsConfig))

	// Apply HTTP logging middleware after CORS but before auth
	api.UseMiddleware(HTTPLoggingMiddleware)

	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	// Control page at the root; any other unmatched path is a 404.
	page := ui.Handler(server.pageData, server.logger)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if opts.AuthUsername != "" && opts.AuthPassword != "" {
			user, pass, ok := r.BasicAuth()
			if !ok || user != opts.AuthUsername || pass != opts.AuthPassword {
				w.Header().Set("WWW-Authenticate", authRealm)
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
		}
		page.ServeHTTP(w, r)
	})

	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start serves on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting WarpCore API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down without waiting for SSE clients.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	if s.httpServer != nil {
		return s.httpServer.Close()
	}

	return nil
}

func (s *Server) pageData() ui.Page {
	status := s.controller.Status()
	info := version.Get()
	return ui.Page{
		Brightness: status.Brightness,
		Saturation: status.Saturation,
		Hue:        status.Hue,
		WarpFactor: status.WarpFactor,
		Pattern:    status.Pattern,
		Patterns:   patternButtons(),
		Thing:      s.options.Thing,
		Version:    info.Version,
		BuildDate:  version.FirmwareDate(),
	}
}

func patternButtons() []ui.PatternButton {
	infos := patternInfos()
	buttons := make([]ui.PatternButton, len(infos))
	for i, p := range infos {
		buttons[i] = ui.PatternButton{ID: p.ID, Name: p.Name, Label: p.Label}
	}
	return buttons
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "Warp core is rendering",
				Ticks:   s.controller.Ticks(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		versionInfo := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   versionInfo.Version,
				GitCommit: versionInfo.GitCommit,
				BuildDate: versionInfo.BuildDate,
				BuildID:   versionInfo.BuildID,
				GoVersion: versionInfo.GoVersion,
				Compiler:  versionInfo.Compiler,
				Platform:  versionInfo.Platform,
			},
		}, nil
	})

	s.registerParameterRoutes()
	s.registerSettingsRoute()
	s.registerSSERoutes()
	s.registerLogRoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
