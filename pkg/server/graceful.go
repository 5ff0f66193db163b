// Package server wraps net/http with graceful startup and shutdown.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sangeeta1998/lanc/pkg/logging"
)

// GracefulServer wraps an HTTP server with graceful shutdown on
// SIGINT/SIGTERM.
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewGracefulServer creates a graceful HTTP server.
func NewGracefulServer(addr string, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Start serves until Shutdown is called or a termination signal
// arrives. The shutdown timeout bounds in-flight request draining.
func (gs *GracefulServer) Start(shutdownTimeout time.Duration) error {
	go gs.handleSignals(shutdownTimeout)

	gs.logger.Info("http server starting", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("http server shutting down", logging.Duration("timeout", timeout))
		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.logger.Error("shutdown failed", logging.Error(shutdownErr))
		} else {
			gs.logger.Info("http server shutdown complete")
		}
	})
	return err
}

// Done is closed once shutdown begins.
func (gs *GracefulServer) Done() <-chan struct{} {
	return gs.shutdownCh
}

func (gs *GracefulServer) handleSignals(shutdownTimeout time.Duration) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		gs.logger.Info("signal received", logging.String("signal", sig.String()))
		gs.Shutdown(shutdownTimeout)
	case <-gs.shutdownCh:
	}
}
