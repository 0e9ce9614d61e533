package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"NewsDigest/internal/logging"
)

// Server runs the digest endpoint until shut down.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer binds handler to addr with conservative timeouts.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      90 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logger: logging.OrDiscard(logger),
	}
}

// Start blocks serving requests. A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
