// Package app constructs every component and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/leighmacdonald/rconwrap/internal/comparator"
	"github.com/leighmacdonald/rconwrap/internal/config"
	"github.com/leighmacdonald/rconwrap/internal/console"
	"github.com/leighmacdonald/rconwrap/internal/health"
	"github.com/leighmacdonald/rconwrap/internal/httphelper"
	"github.com/leighmacdonald/rconwrap/internal/locale"
	"github.com/leighmacdonald/rconwrap/internal/metrics"
	"github.com/leighmacdonald/rconwrap/internal/query"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BuildVersion = "master" //nolint:gochecknoglobals
	BuildCommit  = ""       //nolint:gochecknoglobals
	BuildDate    = ""       //nolint:gochecknoglobals
	SentryDSN    = ""       //nolint:gochecknoglobals
)

type BuildInfo struct {
	BuildVersion string
	Commit       string
	Date         string
}

func Version() BuildInfo {
	return BuildInfo{
		BuildVersion: BuildVersion,
		Commit:       BuildCommit,
		Date:         BuildDate,
	}
}

type App struct {
	config     *config.Configuration
	console    *console.Console
	comparator *comparator.Comparator
	cache      *health.Cache
	executor   *query.Executor
	metrics    *metrics.Collector
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	sentry     *sentry.Client

	logCloser func()
}

// New creates an app using configFile, or the default search paths when it is empty.
func New(configFile string) *App {
	return &App{
		config:     config.New(configFile),
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
}

// NewWithRegistry creates an app exporting its metrics through registry instead of the
// process wide default one.
func NewWithRegistry(configFile string, registry *prometheus.Registry) *App {
	return &App{
		config:     config.New(configFile),
		registerer: registry,
		gatherer:   registry,
	}
}

// Init loads the config, sets up logging and builds the rcon components. The channel health
// is refreshed once before returning.
func (a *App) Init(ctx context.Context) error {
	if errConfig := a.config.Reload(); errConfig != nil {
		slog.Error("Failed to read config", log.ErrAttr(errConfig))

		return errConfig
	}

	conf := a.config.Config()

	// This is normally set by build time flags, but can be overwritten by the config or env var.
	if conf.Log.SentryDSN != "" {
		SentryDSN = conf.Log.SentryDSN
	} else if value, found := os.LookupEnv("SENTRY_DSN"); found && value != "" {
		SentryDSN = value
	}

	a.setupSentry()

	a.logCloser = log.MustCreateLogger(ctx, conf.Log.File, conf.Log.Level, SentryDSN != "", BuildVersion)

	slog.Debug("Starting rconwrap...",
		slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit),
		slog.String("date", BuildDate),
		slog.String("config", a.config.File()))

	a.metrics = metrics.NewCollector(a.registerer)
	a.console = console.New(a.config)
	a.comparator = comparator.New(a.config)
	a.cache = health.NewCache(a.console, a.comparator, a.config, a.metrics)
	a.executor = query.NewExecutor(a.console, a.cache, a.config, a.metrics, conf.RCON.QueryTimeout)

	healthy := a.cache.Refresh(ctx)
	slog.Info("Cached rcon usability", slog.Bool("healthy", healthy))

	if !healthy {
		slog.Warn(locale.Get(locale.Parse(a.config.Language()), locale.StartupUnusable))
	}

	return nil
}

func (a *App) setupSentry() {
	if SentryDSN == "" {
		slog.Debug("Sentry.io support is disabled. To enable at runtime, set SENTRY_DSN.")

		return
	}

	sentryClient, err := log.NewSentryClient(SentryDSN, true, 0.25, BuildVersion, string(a.config.Config().HTTP.Mode))
	if err != nil {
		slog.Error("Failed to setup sentry client", log.ErrAttr(err))

		return
	}

	slog.Info("Sentry.io support is enabled.")
	a.sentry = sentryClient
}

func (a *App) Config() *config.Configuration {
	return a.config
}

func (a *App) Comparator() *comparator.Comparator {
	return a.comparator
}

func (a *App) Cache() *health.Cache {
	return a.cache
}

func (a *App) Executor() *query.Executor {
	return a.executor
}

// Serve runs the http api until rootCtx is cancelled or the process is signalled.
func (a *App) Serve(rootCtx context.Context) error {
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf := a.config.Config()

	router, errRouter := httphelper.CreateRouter(httphelper.RouterOpts{
		HTTPLogEnabled:    conf.Log.HTTPEnabled,
		LogLevel:          conf.Log.Level,
		Mode:              conf.HTTP.Mode,
		SentryDSN:         SentryDSN,
		Version:           BuildVersion,
		PProfEnabled:      conf.HTTP.PProf,
		PrometheusEnabled: conf.HTTP.Prometheus,
		CORSOrigins:       conf.HTTP.CorsOrigins,
	})
	if errRouter != nil {
		slog.Error("Could not setup router", log.ErrAttr(errRouter))

		return errRouter
	}

	query.NewQueryHandler(router, a.executor, a.cache, a.comparator, a.config)

	if conf.HTTP.Prometheus {
		metrics.NewHandler(router, a.gatherer)
	}

	httpServer := httphelper.NewServer(conf.HTTP.Addr(), router)

	go func() {
		<-ctx.Done()

		slog.Info("Shutting down HTTP service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		if errShutdown := httpServer.Shutdown(shutdownCtx); errShutdown != nil { //nolint:contextcheck
			slog.Error("Error shutting down http service", log.ErrAttr(errShutdown))
		}
	}()

	slog.Info("Starting HTTP server", slog.String("address", conf.HTTP.Addr()))

	errServe := httpServer.ListenAndServe()
	if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
		slog.Error("HTTP server returned error", log.ErrAttr(errServe))

		return errServe
	}

	<-ctx.Done()

	slog.Info("Exiting...")

	return nil
}

func (a *App) Close() error {
	if a.console != nil {
		if errClose := a.console.Close(); errClose != nil {
			slog.Error("Failed to close rcon connection", log.ErrAttr(errClose))
		}
	}

	if a.sentry != nil {
		a.sentry.Flush(2 * time.Second)
	}

	if a.logCloser != nil {
		a.logCloser()
	}

	return nil
}
