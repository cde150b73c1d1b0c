// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

// Command api is the entry point for the Sachly HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phamduc/sachly/internal/api"
	"github.com/phamduc/sachly/internal/books"
	"github.com/phamduc/sachly/internal/platform/config"
	"github.com/phamduc/sachly/internal/platform/constants"
	"github.com/phamduc/sachly/internal/platform/migration"
	pgstore "github.com/phamduc/sachly/internal/platform/postgres"
	redisstore "github.com/phamduc/sachly/internal/platform/redis"
	"github.com/phamduc/sachly/internal/platform/sec"
	"github.com/phamduc/sachly/internal/platform/upload"
	"github.com/phamduc/sachly/internal/users/account"
	"github.com/phamduc/sachly/internal/users/auth"
	"github.com/phamduc/sachly/internal/users/cart"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Sachly] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Storage Infrastructure ──────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	fileStore, err := upload.NewStore(cfg.StaticDir)
	must(log, err, "initialize static file store")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, jwtSvc, log)
	authHandler := auth.NewHandler(authService, cfg.IsProduction())

	accountRepository := account.NewAccountRepository(pool)
	accountService := account.NewService(accountRepository, fileStore, log)
	accountHandler := account.NewHandler(accountService)

	cartRepository := cart.NewRepository(pool)
	cartService := cart.NewService(cartRepository, log)
	cartHandler := cart.NewHandler(cartService)

	bookRepository := books.NewBookRepository(pool)
	ratingRepository := books.NewRatingRepository(pool)
	ratingCache := books.NewRatingCache(rdb)
	bookService := books.NewService(bookRepository, ratingRepository, ratingCache, fileStore, log)
	bookHandler := books.NewHandler(bookService)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	// serverCtx outlives startupCtx; it scopes background goroutines
	// (rate limiter cleanup) to the process lifetime.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, api.Dependencies{
		Config:   cfg,
		Logger:   log,
		Pool:     pool,
		Redis:    rdb,
		Verifier: jwtSvc,

		AuthHandler:    authHandler,
		AccountHandler: accountHandler,
		CartHandler:    cartHandler,
		BookHandler:    bookHandler,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server_listening", slog.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
