package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davidbz/atelier/internal/config"
	"github.com/davidbz/atelier/internal/httpserver/middleware"
	"github.com/davidbz/atelier/internal/observability"
)

// Server represents the HTTP server.
type Server struct {
	config      *config.ServerConfig
	handler     *Handler
	middlewares middleware.Middleware
	srv         *http.Server
}

// NewServer creates a new HTTP server (DI constructor).
func NewServer(
	cfg *config.ServerConfig,
	handler *Handler,
	middlewares middleware.Middleware,
) *Server {
	return &Server{
		config:      cfg,
		handler:     handler,
		middlewares: middlewares,
	}
}

// Routes returns the full handler tree with middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/generations", s.handler.HandleGenerate)
	mux.HandleFunc("POST /v1/generations/batch", s.handler.HandleBatch)
	mux.HandleFunc("POST /v1/generations/{id}/refine", s.handler.HandleRefine)
	mux.HandleFunc("GET /v1/generations/history", s.handler.HandleHistory)
	mux.HandleFunc("GET /v1/generations/statistics", s.handler.HandleStatistics)
	mux.HandleFunc("GET /v1/generations/parameters", s.handler.HandleParameters)
	mux.HandleFunc("GET /v1/generations/{id}", s.handler.HandleGetGeneration)
	mux.HandleFunc("GET /v1/cache/stats", s.handler.HandleCacheStats)
	mux.HandleFunc("DELETE /v1/cache", s.handler.HandleClearCache)
	mux.HandleFunc("GET /health", s.handler.HandleHealth)

	if s.middlewares == nil {
		return mux
	}
	return s.middlewares(mux)
}

// Start serves until Shutdown is called. ctx is used for logging only; in-flight
// requests are drained by Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
	}

	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if s.srv == nil {
		return nil
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
