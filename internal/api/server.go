package api

import (
	"context"
	"net/http"
	"time"

	"github.com/conselheirocristao/newsletter/internal/config"
)

// Server wraps the HTTP server lifecycle around the router.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates the API server.
func NewServer(cfg config.ServerConfig, h *Handlers, allowedOrigins []string) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(h, allowedOrigins),
	}
}

// ListenAndServe starts the HTTP server.
// WriteTimeout is generous because a campaign send handler stays open for
// the whole sequential fanout.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
