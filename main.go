package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/warpcore/cmd"
	"github.com/smazurov/warpcore/internal/api"
	"github.com/smazurov/warpcore/internal/config"
	"github.com/smazurov/warpcore/internal/engine"
	"github.com/smazurov/warpcore/internal/events"
	"github.com/smazurov/warpcore/internal/led"
	"github.com/smazurov/warpcore/internal/link"
	"github.com/smazurov/warpcore/internal/logging"
	"github.com/smazurov/warpcore/internal/metrics/exporters"
	"github.com/smazurov/warpcore/internal/params"
	"github.com/smazurov/warpcore/internal/strip"
	"github.com/smazurov/warpcore/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"warpcore.toml"`

	// Server settings
	Port       string `help:"Port to listen on" short:"p" default:":8080" toml:"server.port" env:"SERVER_PORT"`
	CORSOrigin string `help:"Access-Control-Allow-Origin value" default:"*" toml:"server.cors_origin" env:"SERVER_CORS_ORIGIN"`

	// Auth settings, empty disables auth
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Strip settings
	StripDriver       string `help:"LED strip driver (noop, terminal, ws281x)" default:"noop" toml:"strip.driver" env:"STRIP_DRIVER"`
	StripGPIOPin      int    `help:"GPIO pin of the strip data line" default:"18" toml:"strip.gpio_pin" env:"STRIP_GPIO_PIN"`
	StripSegmentSize  int    `help:"Chase segment size" default:"5" toml:"strip.segment_size" env:"STRIP_SEGMENT_SIZE"`
	StripTop          int    `help:"LEDs above the reaction chamber" default:"10" toml:"strip.top" env:"STRIP_TOP"`
	StripReaction     int    `help:"LEDs in the reaction chamber" default:"3" toml:"strip.reaction" env:"STRIP_REACTION"`
	StripBottom       int    `help:"LEDs below the reaction chamber" default:"15" toml:"strip.bottom" env:"STRIP_BOTTOM"`
	StripMaxRefreshHz int    `help:"Frame rate ceiling in Hz" default:"400" toml:"strip.max_refresh_hz" env:"STRIP_MAX_REFRESH_HZ"`
	StripVolts        int    `help:"Supply voltage for the power limit" default:"5" toml:"strip.volts" env:"STRIP_VOLTS"`
	StripMilliamps    int    `help:"Current budget in mA, 0 disables the limit" default:"1000" toml:"strip.milliamps" env:"STRIP_MILLIAMPS"`

	// Link settings
	LinkEnabled      bool   `help:"Connect to the NATS message link" default:"false" toml:"link.enabled" env:"LINK_ENABLED"`
	LinkURL          string `help:"NATS server URL" default:"nats://127.0.0.1:4222" toml:"link.url" env:"LINK_URL"`
	LinkThing        string `help:"Thing name, WarpCore_<hostname> when empty" default:"" toml:"link.thing" env:"LINK_THING"`
	LinkUser         string `help:"NATS user" default:"" toml:"link.user" env:"LINK_USER"`
	LinkPassword     string `help:"NATS password" default:"" toml:"link.password" env:"LINK_PASSWORD"`
	LinkEmbedded     bool   `help:"Run an embedded NATS server" default:"false" toml:"link.embedded" env:"LINK_EMBEDDED"`
	LinkEmbeddedPort int    `help:"Embedded NATS server port" default:"4222" toml:"link.embedded_port" env:"LINK_EMBEDDED_PORT"`

	// Initial parameters
	ParamsWarpFactor int `help:"Initial warp factor (1-9)" default:"2" toml:"params.warp_factor" env:"PARAMS_WARP_FACTOR"`
	ParamsHue        int `help:"Initial hue (0-255)" default:"160" toml:"params.hue" env:"PARAMS_HUE"`
	ParamsSaturation int `help:"Initial saturation (0-255)" default:"255" toml:"params.saturation" env:"PARAMS_SATURATION"`
	ParamsBrightness int `help:"Initial brightness (0-255)" default:"160" toml:"params.brightness" env:"PARAMS_BRIGHTNESS"`
	ParamsPattern    int `help:"Initial pattern (1-5)" default:"1" toml:"params.pattern" env:"PARAMS_PATTERN"`

	// Features settings
	FeaturesStatusLED bool `help:"Show the link state on the board LED" default:"false" toml:"features.status_led" env:"FEATURES_STATUS_LED"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingEngine string `help:"Engine logging level" default:"info" toml:"logging.engine" env:"LOGGING_ENGINE"`
	LoggingRender string `help:"Renderer logging level" default:"info" toml:"logging.render" env:"LOGGING_RENDER"`
	LoggingStrip  string `help:"Strip driver logging level" default:"info" toml:"logging.strip" env:"LOGGING_STRIP"`
	LoggingLink   string `help:"Message link logging level" default:"info" toml:"logging.link" env:"LOGGING_LINK"`
	LoggingAPI    string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP   string `help:"HTTP access logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingLED    string `help:"Status LED logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
}

func (o *Options) strip() config.Strip {
	return config.Strip{
		Driver:       o.StripDriver,
		GPIOPin:      o.StripGPIOPin,
		SegmentSize:  o.StripSegmentSize,
		Top:          o.StripTop,
		Reaction:     o.StripReaction,
		Bottom:       o.StripBottom,
		MaxRefreshHz: float64(o.StripMaxRefreshHz),
		Volts:        o.StripVolts,
		Milliamps:    o.StripMilliamps,
	}
}

func (o *Options) initialParameters() []engine.Change {
	return []engine.Change{
		{Name: params.Pattern, Value: o.ParamsPattern},
		{Name: params.Brightness, Value: o.ParamsBrightness},
		{Name: params.Hue, Value: o.ParamsHue},
		{Name: params.Saturation, Value: o.ParamsSaturation},
		{Name: params.WarpFactor, Value: o.ParamsWarpFactor},
	}
}

func (o *Options) loggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"engine": o.LoggingEngine,
			"render": o.LoggingRender,
			"strip":  o.LoggingStrip,
			"link":   o.LoggingLink,
			"api":    o.LoggingAPI,
			"http":   o.LoggingHTTP,
			"led":    o.LoggingLED,
		},
	}
}

func main() {
	// Subcommands read the parsed options through this pointer.
	var current *Options

	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}
		current = opts

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")

		var (
			cancel      context.CancelFunc
			runDone     chan error
			ledStrip    strip.Strip
			eventBus    *events.Bus
			linkServer  *link.Server
			linkClient  *link.Client
			ledManager  *led.Manager
			sseExporter *exporters.SSEExporter
			watcher     *config.Watcher[logging.Config]
			server      *api.Server
		)

		hooks.OnStart(func() {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			// Create event bus for in-process event handling
			eventBus = events.New()
			logging.SetLogCallback(func(entry logging.LogEntry) {
				eventBus.Publish(api.LogEntryToEvent(entry))
			})

			s := opts.strip()
			layout, err := s.Layout()
			if err != nil {
				logger.Error("Invalid strip configuration", "error", err)
				os.Exit(1)
			}
			driverConfig, err := s.DriverConfig(layout)
			if err != nil {
				logger.Error("Invalid strip configuration", "error", err)
				os.Exit(1)
			}
			if s.MaxRefreshHz <= 0 {
				logger.Warn("Refresh cap must be positive, using default",
					"max_refresh_hz", s.MaxRefreshHz, "default", s.RefreshHz())
			}
			if s.Driver == strip.DriverTerminal {
				logging.SetOutput(io.Discard)
			}
			ledStrip, err = strip.New(driverConfig, logging.GetLogger("strip"))
			if err != nil {
				logger.Error("Failed to open LED strip", "driver", s.Driver, "error", err)
				os.Exit(1)
			}

			eng, err := engine.New(engine.Options{
				Layout:       layout,
				Strip:        ledStrip,
				Output:       s.Output(),
				MaxRefreshHz: s.RefreshHz(),
				Bus:          eventBus,
				Logger:       logging.GetLogger("engine"),
			})
			if err != nil {
				logger.Error("Failed to create engine", "error", err)
				os.Exit(1)
			}
			eng.Update(engine.SourceConfig, opts.initialParameters()...)

			// The embedded broker must be up before the client dials it
			if opts.LinkEmbedded {
				linkServer = link.NewServer(link.ServerOptions{
					Port:     opts.LinkEmbeddedPort,
					Name:     "warpcore",
					User:     opts.LinkUser,
					Password: opts.LinkPassword,
					Logger:   logging.GetLogger("link"),
				})
				if startErr := linkServer.Start(); startErr != nil {
					logger.Error("Failed to start embedded NATS server", "error", startErr)
					os.Exit(1)
				}
			}

			thing := opts.LinkThing
			if opts.LinkEnabled {
				linkURL := opts.LinkURL
				if linkServer != nil {
					linkURL = linkServer.ClientURL()
				}
				linkClient = link.NewClient(link.Options{
					URL:       linkURL,
					Thing:     opts.LinkThing,
					User:      opts.LinkUser,
					Password:  opts.LinkPassword,
					Version:   version.Get().Version,
					BuildDate: version.FirmwareDate(),
					Engine:    eng,
					Bus:       eventBus,
					Logger:    logging.GetLogger("link"),
					Retry:     true,
				})
				thing = linkClient.Thing()
				// Connect keeps dialing in the background; the core runs offline meanwhile
				_ = linkClient.Connect()
			}

			if opts.FeaturesStatusLED {
				ledLogger := logging.GetLogger("led")
				ledManager = led.NewManager(led.New(ledLogger), eventBus, ledLogger)
				ledManager.Start()
			}

			sseExporter = exporters.NewSSEExporter(eventBus)
			sseExporter.Start(ctx)

			server = api.NewServer(&api.Options{
				AuthUsername:      opts.AuthUsername,
				AuthPassword:      opts.AuthPassword,
				Controller:        eng,
				EventBus:          eventBus,
				Thing:             thing,
				CORSOrigin:        opts.CORSOrigin,
				PrometheusHandler: exporters.HTTPHandler(),
			})

			// Logging levels follow the config file at runtime
			watcher = config.NewConfigWatcher(opts.Config, config.ReadLoggingConfig, logging.GetLogger("config"))
			watcher.OnReload(logging.SetLevels)
			if watchErr := watcher.Start(); watchErr != nil {
				logger.Warn("Config file watcher disabled", "path", opts.Config, "error", watchErr)
			}

			runDone = make(chan error, 1)
			go func() { runDone <- eng.Run(ctx) }()

			if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyReady); notifyErr != nil {
				logger.Debug("systemd notify failed", "error", notifyErr)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

			if server != nil {
				if stopErr := server.Stop(); stopErr != nil {
					logger.Error("Error stopping HTTP server", "error", stopErr)
				}
			}
			if watcher != nil {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping config watcher", "error", stopErr)
				}
			}
			if linkClient != nil {
				linkClient.Close()
			}
			if linkServer != nil {
				linkServer.Stop()
			}
			if ledManager != nil {
				ledManager.Stop()
			}
			if sseExporter != nil {
				sseExporter.Stop()
			}

			// Stop the engine before blanking the strip
			if cancel != nil {
				cancel()
			}
			if runDone != nil {
				if runErr := <-runDone; runErr != nil {
					logger.Error("Engine stopped with error", "error", runErr)
				}
			}
			if ledStrip != nil {
				if closeErr := ledStrip.Close(); closeErr != nil {
					logger.Error("Error closing LED strip", "error", closeErr)
				}
			}
		})
	})

	settings := func() config.Strip { return current.strip() }
	cli.Root().AddCommand(cmd.CreatePreviewCmd(settings))
	cli.Root().AddCommand(cmd.CreateLayoutCmd(settings))

	// Run the CLI
	cli.Run()
}
