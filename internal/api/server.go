// Package api serves reviews over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/panbanda/scry/internal/fixer"
	"github.com/panbanda/scry/internal/report"
	"github.com/panbanda/scry/pkg/review"
)

// Server is the HTTP API server.
type Server struct {
	router     *http.ServeMux
	server     *http.Server
	addr       string
	logger     *slog.Logger
	engine     *review.Engine
	suggester  *fixer.Suggester
	reports    *report.Writer
	individual bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSuggester sets the fix suggester used for every issue.
func WithSuggester(sg *fixer.Suggester) Option {
	return func(s *Server) { s.suggester = sg }
}

// WithReports appends every analyzed upload to the report writer. When
// individual is set, one file per issue is written as well.
func WithReports(w *report.Writer, individual bool) Option {
	return func(s *Server) {
		s.reports = w
		s.individual = individual
	}
}

// NewServer creates a server listening on addr.
func NewServer(addr string, engine *review.Engine, opts ...Option) (*Server, error) {
	s := &Server{
		addr:   addr,
		engine: engine,
		logger: slog.New(slog.DiscardHandler),
		router: http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.suggester == nil {
		sg, err := fixer.New(fixer.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.suggester = sg
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.applyMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /{$}", s.handleRoot)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("POST /analyze/file", s.handleAnalyzeFile)
}

// Start serves until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// applyMiddleware wraps the handler; the last one applied runs first.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	return handler
}
