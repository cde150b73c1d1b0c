// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

/*
Package api assembles the HTTP surface of the Sachly server.

It owns the middleware chain, mounts every domain router, and exposes the
operational endpoints (health, readiness, static assets). Domain packages
never see each other; this is the only place where they are composed.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/phamduc/sachly/internal/books"
	"github.com/phamduc/sachly/internal/platform/config"
	"github.com/phamduc/sachly/internal/platform/constants"
	"github.com/phamduc/sachly/internal/platform/middleware"
	"github.com/phamduc/sachly/internal/users/account"
	"github.com/phamduc/sachly/internal/users/auth"
	"github.com/phamduc/sachly/internal/users/cart"
)

// Server aggregates everything needed to serve the Sachly API.
type Server struct {
	router chi.Router
	http   *http.Server
}

// Dependencies carries the constructed services and infrastructure handles
// the router needs.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    *goredis.Client
	Verifier middleware.TokenVerifier

	AuthHandler    *auth.Handler
	AccountHandler *account.Handler
	CartHandler    *cart.Handler
	BookHandler    *books.Handler
}

/*
NewServer builds the full HTTP router.

Description: The middleware chain runs outermost-first: tracing, logging,
deadline, rate limit, panic recovery, session decoding, CORS. Authentication
is decode-only here; route groups opt into RequireAuth/RequireRole
themselves.

Parameters:
  - context: context.Context (Owns the rate limiter's cleanup goroutine)
  - deps: Dependencies

Returns:
  - *Server: A ready-to-serve router
*/
func NewServer(context context.Context, deps Dependencies) *Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(deps.Logger),
		middleware.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(context),
		middleware.PanicRecovery(deps.Logger),
		middleware.Authenticate(deps.Verifier),
		middleware.CORS(deps.Config),
	)

	// Operational endpoints
	health := newHealthHandler(deps.Pool, deps.Redis)
	router.Get("/health", health.liveness)
	router.Get("/ready", health.readiness)

	// Session lifecycle at the root: /login, /refresh, /logout, /change-password
	deps.AuthHandler.RegisterRoutes(router)

	// Account domain plus the caller's cart
	router.Route("/user", func(r chi.Router) {
		deps.AccountHandler.RegisterRoutes(r)
		r.Mount("/cart", deps.CartHandler.Routes())
	})

	// Catalog domain
	router.Route("/books", func(r chi.Router) {
		deps.BookHandler.RegisterRoutes(r)
	})

	// Uploaded assets (avatars, covers)
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(deps.Config.StaticDir)))
	router.Get("/static/*", fileServer.ServeHTTP)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + deps.Config.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
	}
}

// Handler exposes the composed router as a standard http.Handler.
func (server *Server) Handler() http.Handler {
	return server.router
}

// ListenAndServe starts accepting connections. It blocks until the listener
// fails or [Server.Shutdown] completes.
func (server *Server) ListenAndServe() error {
	return server.http.ListenAndServe()
}

// Shutdown drains in-flight requests, waiting at most the given timeout.
func (server *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return server.http.Shutdown(ctx)
}
