package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jukecast/jukecast/internal/logger"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int

	// ReadHeaderTimeout bounds how long reading request headers may take.
	ReadHeaderTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for in-flight requests
	// (including active streams) during graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server is the HTTP server hosting the control plane and stream endpoint.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	shutdownOnce    sync.Once
}

// NewServer creates the HTTP server around the given handler.
//
// The server deliberately sets no WriteTimeout: stream responses run for as
// long as the client listens. Slow-client protection comes from
// ReadHeaderTimeout and from clients owning their own read deadlines.
func NewServer(cfg ServerConfig, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Start runs the server until the context is cancelled or the listener fails.
// On context cancellation the server shuts down gracefully and Start returns
// nil.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		return s.Stop(context.Background())
	}
}

// Stop gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var err error

	s.shutdownOnce.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()

		logger.Info("http server shutting down", "timeout", s.shutdownTimeout)
		if shutdownErr := s.httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			err = fmt.Errorf("http server shutdown: %w", shutdownErr)
		}
	})

	return err
}
