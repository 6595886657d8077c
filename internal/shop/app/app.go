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

	httpapi "github.com/shopcore/minishop/internal/shop/http"
	"github.com/shopcore/minishop/internal/shop/notify"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/internal/shop/store/drivers/sqlite"
	"github.com/shopcore/minishop/pkg/jwtx"
	"github.com/shopcore/minishop/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the shop service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens *jwtx.HS256

	// Services
	authService         *service.AuthService
	userService         *service.UserService
	inviteService       *service.InviteService
	productService      *service.ProductService
	orderService        *service.OrderService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "minishop",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	tokens, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.tokens = tokens

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	if err := app.seedSuperuser(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("shop service starting", "port", app.cfg.Port, "version", BuildVersion)

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
			// The housekeeping goroutine and the store still need tearing
			// down even though the server never came up.
			if sErr := app.Shutdown(); sErr != nil {
				app.logger.Error("cleanup after server failure failed", "error", sErr)
			}
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
	app.logger.Info("shutting down shop service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("shop service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
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

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:     app.db,
		Signer:    app.tokens,
		Issuer:    app.cfg.Issuer,
		AccessTTL: jwtx.DefaultAccessTokenTTL,
	}

	app.userService = &service.UserService{Store: app.db}
	app.inviteService = &service.InviteService{
		Store:   app.db,
		Sender:  &notify.LogSender{Logger: app.logger},
		BaseURL: app.cfg.BaseURL,
		TTL:     app.cfg.InviteTTL,
	}
	app.productService = &service.ProductService{Store: app.db}
	app.orderService = &service.OrderService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Logger: app.logger,
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
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.InviteService = app.inviteService
	router.ProductService = app.productService
	router.OrderService = app.orderService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// seedSuperuser creates the initial superuser from SHOP_BOOTSTRAP_* config
// when the users table is empty. Missing config on an empty database is not
// an error; the operator can still bootstrap later by restarting with the
// variables set.
func (app *Application) seedSuperuser() error {
	if app.cfg.BootstrapUsername == "" || app.cfg.BootstrapPassword == "" {
		return nil
	}

	ctx := context.Background()
	_, err := app.bootstrapService.Bootstrap(
		ctx,
		app.cfg.BootstrapUsername,
		app.cfg.BootstrapEmail,
		app.cfg.BootstrapPassword,
	)
	if err != nil {
		if errors.Is(err, service.ErrBootstrapAlready) {
			app.logger.Debug("bootstrap skipped, users already exist")
			return nil
		}
		return fmt.Errorf("failed to seed superuser: %w", err)
	}

	return nil
}
