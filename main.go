package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/subjectlink/cmd"
	"github.com/smazurov/subjectlink/internal/api"
	"github.com/smazurov/subjectlink/internal/config"
	"github.com/smazurov/subjectlink/internal/events"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/logging"
	"github.com/smazurov/subjectlink/internal/metrics/exporters"
	"github.com/smazurov/subjectlink/internal/nats"
	"github.com/smazurov/subjectlink/internal/provider"
	"github.com/smazurov/subjectlink/internal/scene"
	"github.com/smazurov/subjectlink/internal/session"
	"github.com/smazurov/subjectlink/internal/streamobject"
	"github.com/smazurov/subjectlink/internal/systemd"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Subjects settings
	SubjectsFile string `help:"Subject definitions file" default:"subjects.toml" toml:"subjects.config_file" env:"SUBJECTS_CONFIG_FILE"`

	// Session settings
	SessionFrameRate int `help:"Frames per second sent for every subject" default:"30" toml:"session.frame_rate" env:"SESSION_FRAME_RATE"`

	// Scene settings
	SceneFile    string `help:"Scene description file; empty uses the built-in scene" default:"" toml:"scene.file" env:"SCENE_FILE"`
	SceneAnimate bool   `help:"Move scene cameras along their orbits every tick" default:"true" toml:"scene.animate" env:"SCENE_ANIMATE"`

	// NATS settings
	NatsEnabled      bool   `help:"Publish subjects over NATS" default:"true" toml:"nats.enabled" env:"NATS_ENABLED"`
	NatsAddress      string `help:"NATS server URL; empty starts an embedded server" default:"" toml:"nats.url" env:"NATS_URL"`
	NatsEmbeddedHost string `help:"Listen host of the embedded NATS server" default:"127.0.0.1" toml:"nats.embedded_host" env:"NATS_EMBEDDED_HOST"`
	NatsEmbeddedPort int    `help:"Listen port of the embedded NATS server" default:"4222" toml:"nats.embedded_port" env:"NATS_EMBEDDED_PORT"`

	// Observability settings
	MetricsEnabled bool `help:"Expose Prometheus metrics on /metrics" default:"true" toml:"metrics.prometheus_enabled" env:"METRICS_PROMETHEUS_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSession string `help:"Session logging level" default:"info" toml:"logging.session" env:"LOGGING_SESSION"`
	LoggingNats    string `help:"NATS logging level" default:"info" toml:"logging.nats" env:"LOGGING_NATS"`
	LoggingScene   string `help:"Scene logging level" default:"info" toml:"logging.scene" env:"LOGGING_SCENE"`
	LoggingConfig  string `help:"Config watcher logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"session": opts.LoggingSession,
				"nats":    opts.LoggingNats,
				"scene":   opts.LoggingScene,
				"config":  opts.LoggingConfig,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")

		// Create event bus for in-process event handling
		eventBus := events.New()
		stopLogForwarding := events.ForwardLogs(eventBus)

		sc, orbits, err := loadScene(opts.SceneFile)
		if err != nil {
			logger.Error("Failed to load scene", "file", opts.SceneFile, "error", err)
			os.Exit(1)
		}
		var animator *scene.Animator
		if opts.SceneAnimate && len(orbits) > 0 {
			animator = scene.NewAnimator(sc, orbits, time.Now())
		}

		// Embedded broker unless an external one is configured
		var natsServer *nats.Server
		var publisher *nats.Publisher
		if opts.NatsEnabled {
			natsURL := opts.NatsAddress
			if natsURL == "" {
				natsServer = nats.NewServer(nats.ServerOptions{
					Host:   opts.NatsEmbeddedHost,
					Port:   opts.NatsEmbeddedPort,
					Logger: logging.GetLogger("nats"),
				})
				if startErr := natsServer.Start(); startErr != nil {
					logger.Error("Failed to start embedded NATS server", "error", startErr)
					os.Exit(1)
				}
				natsURL = natsServer.ClientURL()
			}
			publisher = nats.NewPublisher(natsURL, logging.GetLogger("nats"))
			if connErr := publisher.Connect(); connErr != nil {
				logger.Warn("NATS unavailable, subjects are published locally only", "url", natsURL, "error", connErr)
			}
		}

		memory := provider.NewMemory()
		providers := []livelink.Provider{
			provider.Instrument("memory", memory),
			provider.Instrument("bus", provider.NewBus(eventBus)),
		}
		if publisher != nil {
			providers = append(providers, provider.Instrument("nats", publisher))
		}
		fanout := provider.NewMulti(providers...)

		sessionLogger := logging.GetLogger("session")
		sessionConfig := session.Config{
			FrameRate: float64(opts.SessionFrameRate),
			Factory: &streamobject.Factory{
				Provider: fanout,
				Scene:    sc,
				Options:  []streamobject.Option{streamobject.WithLogger(sessionLogger)},
			},
			Bus:    eventBus,
			Logger: sessionLogger,
		}
		if animator != nil {
			sessionConfig.BeforeTick = animator.Step
		}
		sess := session.New(sessionConfig)

		subjects := config.NewSubjectsManager(opts.SubjectsFile)
		if loadErr := subjects.Load(); loadErr != nil {
			logger.Warn("Failed to load subjects, using defaults", "file", opts.SubjectsFile, "error", loadErr)
		}
		if result, syncErr := sess.Sync(subjects.Specs()); syncErr != nil {
			logger.Warn("Some subjects could not be created", "error", syncErr, "created", len(result.Created))
		} else {
			logger.Info("Subjects loaded", "file", opts.SubjectsFile, "count", len(result.Created))
		}

		watcher := config.NewConfigWatcher(opts.SubjectsFile, loadSubjectSpecs, logging.GetLogger("config"))
		watcher.OnReload(func(specs []streamobject.Spec) {
			result, syncErr := sess.Sync(specs)
			if syncErr != nil {
				logger.Warn("Subjects reload incomplete", "error", syncErr)
			}
			if n := len(result.Created) + len(result.Updated) + len(result.Removed); n > 0 {
				logger.Info("Subjects reloaded",
					"created", len(result.Created),
					"updated", len(result.Updated),
					"removed", len(result.Removed))
			}
		})

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Session:      sess,
			Scene:        sc,
			Subjects:     subjects,
			Memory:       memory,
			EventBus:     eventBus,
		}
		if opts.MetricsEnabled {
			apiOpts.PrometheusHandler = exporters.HTTPHandler()
		}
		server := api.NewServer(apiOpts)

		notifier := systemd.NewNotifier(logging.GetLogger("main"))
		ctx, cancel := context.WithCancel(context.Background())
		sessionDone := make(chan struct{})

		hooks.OnStart(func() {
			if startErr := watcher.Start(); startErr != nil {
				logger.Warn("Failed to start subjects watcher, hot-reload disabled", "error", startErr)
			}

			go func() {
				defer close(sessionDone)
				if runErr := sess.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
					logger.Error("Session stopped", "error", runErr)
				}
			}()

			go notifier.Watchdog(ctx)
			notifier.Ready()
			notifier.Status("streaming %d subjects", len(sess.List()))

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			notifier.Stopping()

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping subjects watcher", "error", stopErr)
			}

			// Session shutdown removes every subject while providers are still connected
			cancel()
			<-sessionDone

			if publisher != nil {
				publisher.Close()
			}
			if natsServer != nil {
				natsServer.Stop()
			}
			stopLogForwarding()
		})
	})

	cli.Root().Use = "subjectlink"
	cli.Root().Short = "Stream scene cameras and transforms as live subjects"

	cli.Root().AddCommand(cmd.CreateWatchCmd())
	cli.Root().AddCommand(cmd.CreateSubjectsCmd())

	// Run the CLI
	cli.Run()
}

// loadScene builds the scene from path, or the built-in scene when path is
// empty.
func loadScene(path string) (*scene.Scene, map[string]scene.Orbit, error) {
	if path == "" {
		sc, orbits := scene.Default()
		return sc, orbits, nil
	}
	f, err := scene.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	sc := scene.New()
	orbits, err := f.Apply(sc)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid scene file %s: %w", path, err)
	}
	return sc, orbits, nil
}

// loadSubjectSpecs reads and validates the subjects file for hot reload.
func loadSubjectSpecs(path string) ([]streamobject.Spec, error) {
	specs, err := config.LoadSubjects(path)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateSubjects(specs); err != nil {
		return nil, err
	}
	return specs, nil
}
