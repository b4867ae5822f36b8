// Package api serves the embed-hosting surface: the generic loader shim,
// per-bot generated snippets, the widget bootstrap page, and a health
// endpoint.
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: recovery, request ID, logging, CORS
//   - ratelimit.go: per-IP token bucket limiting
//   - embed.go: /embed.js and /snippet endpoints
//   - widget.go: /widget bootstrap page
//   - health.go: /healthz
//   - response.go: JSON response helpers
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hasnain769/botharbor/internal/config"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout bounds header reads to resist Slowloris clients.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout = 60 * time.Second

	// IdleTimeout applies to keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// Server is the HTTP server for the embed-hosting surface.
type Server struct {
	mux     *http.ServeMux
	cfg     *config.Config
	logger  *slog.Logger
	limiter *rateLimiter
}

// NewServer creates a server with all routes registered.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("api.NewServer: config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		cfg:     cfg,
		logger:  logger,
		limiter: newRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}

	s.mux.HandleFunc("GET /embed.js", s.handleShim)
	s.mux.HandleFunc("GET /snippet", s.handleSnippet)
	s.mux.HandleFunc("GET /widget", s.handleWidget)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s, nil
}

// Handler returns the HTTP handler with middleware applied.
// Order: recovery → request ID → logging → CORS → rate limit → routes.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		requestIDMiddleware(),
		loggingMiddleware(s.logger),
		corsMiddleware(),
		rateLimitMiddleware(s.limiter, s.cfg.TrustProxy, s.logger),
	)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = config.DefaultListenAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
