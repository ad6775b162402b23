// Package web provides the HTTP server and handlers for the transfer service.
package web

import (
	"context"
	"net/http"

	"github.com/dataflow-project/dataflow/internal/config"
	"github.com/dataflow-project/dataflow/internal/store"
	"github.com/dataflow-project/dataflow/internal/transfer"
	"github.com/dataflow-project/dataflow/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// TransferService is the engine surface the web layer consumes.
// *transfer.Engine satisfies this; tests substitute stubs.
type TransferService interface {
	Execute(ctx context.Context, cfg transfer.Config) (transfer.Status, error)
	GetStatus(id string) (transfer.Status, bool)
	ListStatuses() []transfer.Status
}

// Server is the HTTP server for the transfer service.
type Server struct {
	service TransferService
	stores  *store.Manager
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service TransferService, stores *store.Manager, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		stores:  stores,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimiddleware.Recoverer)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleRoot)
	s.router.Get("/flow", s.handleFlow)

	// Health
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/transfer", s.handleTransfer)
		r.Get("/transfer/{transferID}", s.handleTransferStatus)
		r.Get("/transfers", s.handleListTransfers)

		r.Get("/databases", s.handleListDatabases)
		r.Post("/databases/initialize", s.handleInitializeDatabases)
	})
}

// Handler returns the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
