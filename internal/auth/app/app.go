package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/assetshield/adminauth/internal/auth/http"
	"github.com/assetshield/adminauth/internal/auth/service"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/internal/auth/store/drivers/sqlite"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/assetshield/adminauth/pkg/jwtx"
	"github.com/assetshield/adminauth/pkg/ratelimit"
	"github.com/assetshield/adminauth/pkg/slogx"
	"github.com/assetshield/adminauth/pkg/totp"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the admin auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  totp.Clock

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	sealer     *cryptox.Sealer
	engine     *totp.Engine
	limiters   httpapi.Limiters
	redis      *redis.Client // nil unless RATELIMIT_BACKEND=redis

	trustedProxies []netip.Prefix

	// Services
	loginService        *service.LoginService
	adminService        *service.AdminService
	mfaService          *service.MFAService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	trusted, err := httpx.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("%w: TRUSTED_PROXIES: %w", ErrInvalidConfig, err)
	}

	app := &Application{
		cfg:   cfg,
		clock: totp.SystemClock{},
		logger: slogx.New(slogx.Config{
			Service: "adminauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.trustedProxies = trusted

	var ephemeralSealer bool
	if app.sealer, ephemeralSealer, err = InitSealer(app.cfg, app.logger); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize master key: %w", err)
	}
	app.keyManager, err = InitSessionKeys(context.Background(), app.cfg, app.db, app.sealer, ephemeralSealer, app.clock, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	if err := app.initRateLimiters(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.engine = totp.New(totp.WithClock(app.clock))
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("admin auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down admin auth service...")

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

	app.logger.Info("admin auth service stopped")
	return nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initDatabase opens the database and applies migrations. Times are stored
// as UTC text so they compare correctly in SQL.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite",
		app.cfg.DatabaseFile,
	)
	db, err := sqlite.NewStore(dsn)
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

// initRateLimiters builds one limiter per profile on the configured backend.
func (app *Application) initRateLimiters() error {
	if app.cfg.RateLimitBackend != RateLimitRedis {
		limiters, err := httpapi.NewMemoryLimiters()
		if err != nil {
			return fmt.Errorf("failed to create rate limiters: %w", err)
		}
		app.limiters = limiters
		app.logger.Info("rate limiting in memory")
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	app.redis = redis.NewClient(opts)

	profiles := []struct {
		name string
		cfg  ratelimit.Config
		dst  *ratelimit.Limiter
	}{
		{"strict", ratelimit.Strict, &app.limiters.Strict},
		{"moderate", ratelimit.Moderate, &app.limiters.Moderate},
		{"lenient", ratelimit.Lenient, &app.limiters.Lenient},
		{"public", ratelimit.Public, &app.limiters.Public},
	}
	for _, p := range profiles {
		l, err := ratelimit.NewRedis(app.redis, p.cfg, "adminauth:rl:"+p.name+":")
		if err != nil {
			_ = app.redis.Close()
			return fmt.Errorf("failed to create %s rate limiter: %w", p.name, err)
		}
		*p.dst = l
	}

	app.logger.Info("rate limiting in redis", "addr", opts.Addr)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Engine: app.engine,
		Sealer: app.sealer,
		Issuer: app.cfg.TOTPIssuer,
	}
	app.loginService = &service.LoginService{
		Store:          app.db,
		Engine:         app.engine,
		Sealer:         app.sealer,
		KeyManager:     app.keyManager,
		Issuer:         app.cfg.Issuer,
		SessionTTL:     app.cfg.SessionTTL,
		ChallengeTTL:   app.cfg.ChallengeTTL,
		AttemptLimiter: app.limiters.Strict, // per admin, across challenges and IPs
	}
	app.adminService = &service.AdminService{
		Store:  app.db,
		Engine: app.engine,
		Sealer: app.sealer,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Engine: app.engine,
		Token:  app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.clock,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		app.cfg.Issuer,
		BuildVersion,
		app.db,
		app.limiters,
		app.logger,
	)

	router.TrustedProxies = app.trustedProxies
	router.LoginService = app.loginService
	router.AdminService = app.adminService
	router.MFAService = app.mfaService
	router.BootstrapService = app.bootstrapService
	if app.redis != nil {
		router.RateLimitPing = func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		}
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
