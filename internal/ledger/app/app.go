package app

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/verdigris-systems/ledgerd/internal/ledger/http"
	"github.com/verdigris-systems/ledgerd/internal/ledger/metrics"
	"github.com/verdigris-systems/ledgerd/internal/ledger/replay"
	"github.com/verdigris-systems/ledgerd/internal/ledger/service"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store/drivers/postgres"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store/drivers/sqlite"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the ledger service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	signingKey ed25519.PrivateKey
	nonceCache replay.NonceCache
	metrics    *metrics.Metrics

	// Services
	registrationService *service.RegistrationService
	publisherService    *service.ChainPublisher
	crossSignService    *service.CrossSignService
	replayValidator     *replay.Validator

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ledger-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	key, err := InitSigningKey(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signingKey = key

	if err := app.initNonceCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("ledger service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"publish_new_clients", app.cfg.PublishNewClients,
		"cross_sign_peers", len(app.cfg.CrossSignPeers),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ledger service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close the nonce cache if it holds a connection
	if closer, ok := app.nonceCache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error("error closing nonce cache", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("ledger service stopped")
	return nil
}

// initDatabase initializes the configured database driver and applies
// migrations.
func (app *Application) initDatabase() error {
	switch app.cfg.DatabaseDriver {
	case "postgres":
		if app.cfg.DatabaseURL == "" {
			return fmt.Errorf("LEDGER_DATABASE_URL is required for the postgres driver")
		}
		db, err := postgres.NewStore(app.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}

	case "sqlite":
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(host)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}

	default:
		return fmt.Errorf("unknown database driver %q", app.cfg.DatabaseDriver)
	}

	app.logger.Info("database migrations applied successfully",
		"driver", app.cfg.DatabaseDriver)
	return nil
}

// initNonceCache selects the replay nonce cache backend.
func (app *Application) initNonceCache() error {
	if app.cfg.RedisURL == "" {
		app.nonceCache = replay.NewMemoryCache()
		return nil
	}

	cache, err := replay.NewRedisCache(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to initialize redis nonce cache: %w", err)
	}
	app.nonceCache = cache
	app.logger.Info("redis nonce cache enabled")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.registrationService = service.NewRegistrationService(app.db)
	app.publisherService = service.NewChainPublisher(app.db, app.signingKey, app.metrics)
	app.crossSignService = service.NewCrossSignService(
		app.db,
		app.publisherService,
		app.signingKey,
		app.metrics,
		app.cfg.Issuer,
		app.cfg.CrossSignPeers,
		app.cfg.CrossSignInterval,
	)
	app.replayValidator = replay.NewValidator(app.cfg.ReplayWindow, app.nonceCache)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	verifier, err := InitVerifier(app.cfg, app.logger)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(verifier, BuildVersion, app.db, app.logger)

	// Wire services to router
	router.Registration = app.registrationService
	router.Publisher = app.publisherService
	router.CrossSign = app.crossSignService
	router.Replay = app.replayValidator
	router.Signer = httpapi.NewResponseSigner(app.signingKey)
	router.Metrics = app.metrics
	router.PublishNewClients = app.cfg.PublishNewClients
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
