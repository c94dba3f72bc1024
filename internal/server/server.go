// Package server wires handlers and middleware into the HTTP surface
// of the expense tracker service
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/expensekeeper/internal/auth"
	"github.com/iudanet/expensekeeper/internal/config"
	"github.com/iudanet/expensekeeper/internal/server/handlers"
	"github.com/iudanet/expensekeeper/internal/server/middleware"
	"github.com/iudanet/expensekeeper/internal/server/storage"
	"github.com/iudanet/expensekeeper/internal/server/token"
)

// Deps carries everything the HTTP surface needs
type Deps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Users      storage.UserStorage
	Expenses   storage.ExpenseStorage
	Tokens     *token.Service
	Revocation auth.RevocationChecker
}

// NewHandler builds the complete route table with the middleware chain
// recovery -> logging (skipping /health) -> ratelimit -> routes
func NewHandler(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Logger, d.Users, d.Tokens, d.Revocation)
	expenseHandler := handlers.NewExpenseHandler(d.Logger, d.Expenses, d.Config.ExpensesPerPage)
	profileHandler := handlers.NewProfileHandler(d.Logger, d.Users)
	healthHandler := handlers.NewHealthHandler(d.Logger)

	authRequired := middleware.AuthMiddleware(d.Logger, d.Tokens, d.Revocation, d.Users)

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /expenses/categories", expenseHandler.Categories)

	// Logout and refresh parse their own bearer token: logout must see the
	// jti to revoke and refresh carries a refresh token, not an access token
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /auth/refresh", authHandler.Refresh)

	// Identity-scoped endpoints
	mux.Handle("GET /auth/me", authRequired(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /expenses", authRequired(http.HandlerFunc(expenseHandler.List)))
	mux.Handle("POST /expenses", authRequired(http.HandlerFunc(expenseHandler.Create)))
	mux.Handle("GET /expenses/summary", authRequired(http.HandlerFunc(expenseHandler.Summary)))
	mux.Handle("GET /expenses/{id}", authRequired(http.HandlerFunc(expenseHandler.Get)))
	mux.Handle("PUT /expenses/{id}", authRequired(http.HandlerFunc(expenseHandler.Update)))
	mux.Handle("DELETE /expenses/{id}", authRequired(http.HandlerFunc(expenseHandler.Delete)))
	mux.Handle("GET /user/profile", authRequired(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PUT /user/profile", authRequired(http.HandlerFunc(profileHandler.Update)))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(d.Config.RateLimit, d.Config.RateWindow, d.Logger)(handler)
	handler = middleware.LoggingWithSkip(d.Logger, []string{"/health"})(handler)
	handler = middleware.RecoveryMiddleware(d.Logger)(handler)

	return handler
}

// Server is the HTTP server with graceful shutdown
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a server listening on addr
func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
