// Package app wires configuration, logging, storage, services and the HTTP
// router into a runnable server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"amfiflow/internal/config"
	"amfiflow/internal/dataprocessing"
	"amfiflow/internal/downloader"
	apierrors "amfiflow/internal/errors"
	"amfiflow/internal/infrastructure"
	customMiddleware "amfiflow/internal/middleware"
	"amfiflow/internal/services"
	"amfiflow/internal/storage"
	handlers "amfiflow/internal/transport/http"
)

const (
	// Version is the application version reported by /api/version.
	Version = "1.0.0"
	// AppName is the human-readable service name.
	AppName = "amfiflow - AMFI monthly fund-flow service"
)

// BuildTime is set at compile time via -ldflags.
var BuildTime = ""

// Application is the main application container.
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Logger  *slog.Logger
	Store   *storage.SQLiteStore
	Metrics *infrastructure.Metrics

	Ingestion *services.IngestionService
	Data      *services.DataService
	Health    *services.HealthService
}

// NewApplication creates a new application instance with dependency
// injection.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	store, err := storage.NewSQLiteStore(a.Config.Paths.DatabaseFile, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.Store = store

	fetcher := downloader.New(a.Config.Paths.DownloadsDir, a.Config.Source.DownloadTimeout, a.Logger)
	parser := dataprocessing.NewParser(a.Logger)

	a.Ingestion = services.NewIngestionService(fetcher, parser, store, a.Metrics, a.Logger)
	a.Data = services.NewDataService(store, a.Logger)
	a.Health = services.NewHealthService(Version, BuildTime, store, a.Logger)

	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → Logger → Recoverer, then the rest
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Metrics(a.Metrics))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/version", healthHandler.Version)

			dataHandler := handlers.NewDataHandler(a.Data, a.Logger, errorHandler)
			r.Mount("/amfi", dataHandler.Routes())
		})

		// The trigger endpoint downloads and parses a workbook inline,
		// so it gets a longer timeout than the read endpoints.
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.IngestTimeout, a.Logger))

			ingestHandler := handlers.NewIngestHandler(a.Ingestion, a.Store, a.Logger, errorHandler)
			r.Mount("/download", ingestHandler.Routes())
		})
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Outside the /api group for scrape performance
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

func (a *Application) createServer() {
	// The write timeout must cover the ingest endpoint, which downloads
	// and parses a workbook before responding.
	writeTimeout := a.Config.Server.WriteTimeout
	if a.Config.Server.IngestTimeout > writeTimeout {
		writeTimeout = a.Config.Server.IngestTimeout + 10*time.Second
	}

	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("failed to close storage", slog.String("error", err.Error()))
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Warn("failed to close log file", slog.String("error", err.Error()))
	}

	a.Logger.Info("shutdown complete")
	return nil
}

// ShutdownForTesting releases resources without running the signal loop.
func (a *Application) ShutdownForTesting() {
	_ = a.Store.Close()
	_ = infrastructure.CloseLogFile()
}

// WaitForReady polls the health endpoint until the server responds or the
// timeout elapses. Used by integration tests.
func WaitForReady(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/api/health/live")
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("server at %s not ready after %s", addr, timeout)
}
