package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/reelhub/internal/connector/http"
	"github.com/aussiebroadwan/reelhub/internal/connector/lock"
	"github.com/aussiebroadwan/reelhub/internal/connector/provider"
	"github.com/aussiebroadwan/reelhub/internal/connector/service"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/postgres"
	"github.com/aussiebroadwan/reelhub/internal/connector/store/drivers/sqlite"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/aussiebroadwan/reelhub/pkg/jwtx"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the connector service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          store.Store
	cipher      *cryptox.Cipher
	redis       *redis.Client
	redisLocker *lock.RedisLocker
	providers   *provider.Registry

	lifecycle           *service.TokenLifecycleService
	connectService      *service.ConnectService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "connector-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if len(cfg.OperatorTokenSecret) < jwtx.MinSecretSize {
		return nil, fmt.Errorf("OPERATOR_TOKEN_SECRET must be at least %d bytes", jwtx.MinSecretSize)
	}

	cipher, err := InitCipher(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.cipher = cipher

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initLock(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.providers = NewProviderRegistry(cfg, app.logger)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("connector service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"platforms", app.providers.Platforms(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	app.logger.Info("shutting down connector service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("connector service stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	if app.cfg.UsePostgres() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL, postgres.Options{})
		app.logger.Info("using postgres store")
	} else {
		host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(host)
		app.logger.Info("using sqlite store", "file", app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initLock connects the shared refresh lock when Redis is configured.
// Without it refreshes are only serialized within this process.
func (app *Application) initLock() error {
	if app.cfg.RedisURL == "" {
		app.logger.Info("REDIS_URL not set; refresh lock is process local")
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	app.redis = redis.NewClient(opts)
	app.redisLocker = lock.NewRedisLocker(app.redis, lock.WithTTL(app.cfg.RefreshLockTTL()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.redisLocker.Ping(ctx); err != nil {
		_ = app.redis.Close()
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	app.logger.Info("using redis refresh lock", "ttl", app.redisLocker.TTL())
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	accounts := &service.AccountRegistry{Store: app.db}
	tokens := &service.TokenStore{Store: app.db, Cipher: app.cipher}

	app.lifecycle = &service.TokenLifecycleService{
		Store:          app.db,
		Accounts:       accounts,
		Tokens:         tokens,
		Providers:      app.providers,
		RefreshSkew:    app.cfg.RefreshSkew,
		RefreshTimeout: app.cfg.RefreshTimeout(),
	}
	if app.redisLocker != nil {
		app.lifecycle.Locker = app.redisLocker
	}

	app.connectService = &service.ConnectService{
		Store:     app.db,
		Providers: app.providers,
		Lifecycle: app.lifecycle,
		StateTTL:  app.cfg.ConnectStateTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		jwtx.NewVerifierHS256([]byte(app.cfg.OperatorTokenSecret), app.cfg.OperatorTokenIssuer),
		BuildVersion,
		app.db,
		app.cipher,
		app.logger,
	)

	router.Lifecycle = app.lifecycle
	router.ConnectService = app.connectService
	router.ConnectReturnURL = app.cfg.ConnectReturnURL
	if app.redisLocker != nil {
		router.LockBackend = app.redisLocker
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
