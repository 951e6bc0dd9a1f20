// Package server exposes the auth and user operations over HTTP. Tokens
// travel as httpOnly cookies for browser clients, with an Authorization
// Bearer fallback for programmatic ones.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/RikiBob/test-task-for-dzen-code/internal/audit"
	auditrepo "github.com/RikiBob/test-task-for-dzen-code/internal/audit/repository"
	"github.com/RikiBob/test-task-for-dzen-code/internal/identity/service"
	"github.com/RikiBob/test-task-for-dzen-code/internal/session"
	"github.com/RikiBob/test-task-for-dzen-code/internal/telemetry"
)

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config carries the Server's dependencies. Audit and Emitter may be nil;
// then the corresponding events are simply not recorded.
type Config struct {
	Auth       *service.AuthService
	Sessions   *session.Manager
	Audit      audit.AuditLogger
	AuditLogs  auditrepo.Repository
	Emitter    telemetry.EventEmitter
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Checks     map[string]HealthCheck
}

// Server is the HTTP surface over the auth service and session manager.
type Server struct {
	auth       *service.AuthService
	sessions   *session.Manager
	audit      audit.AuditLogger
	auditLogs  auditrepo.Repository
	emitter    telemetry.EventEmitter
	accessTTL  time.Duration
	refreshTTL time.Duration
	checks     map[string]HealthCheck
	router     chi.Router
}

// New returns a Server with its routes mounted.
func New(cfg Config) *Server {
	s := &Server{
		auth:       cfg.Auth,
		sessions:   cfg.Sessions,
		audit:      cfg.Audit,
		auditLogs:  cfg.AuditLogs,
		emitter:    cfg.Emitter,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		checks:     cfg.Checks,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(clientIPContext)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/auth", func(rr chi.Router) {
		rr.Post("/login", s.handleLogin)
		rr.Post("/refresh", s.handleRefresh)
		rr.With(s.requireAuth).Post("/logout", s.handleLogout)
	})

	r.Route("/user", func(rr chi.Router) {
		rr.Post("/", s.handleRegister)
		rr.With(s.requireAuth).Delete("/", s.handleDeleteAccount)
	})

	r.With(s.requireAuth).Get("/audit", s.handleListAudit)

	s.router = r
	return s
}

// Router returns the HTTP handler for the server.
func (s *Server) Router() http.Handler {
	return s.router
}
