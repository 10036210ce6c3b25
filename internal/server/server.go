// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package server implements the HTTP API serving the discovered addresses.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New creates a new server listening on the given address.
func New(listenAddress string, service Service, logger *zap.Logger) *Server {
	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           NewHandler(service, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}
}

// Run runs the server until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return s.Serve(ctx, listener)
}

// Serve serves the API on the given listener until the context is canceled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil { //nolint:contextcheck
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	})

	eg.Go(func() error {
		s.logger.Info("serving API", zap.Stringer("address", listener.Addr()))

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to run server: %w", err)
		}

		return nil
	})

	return eg.Wait()
}

// NewHandler creates the API handler, HTTP/2 without TLS is accepted.
func NewHandler(service Service, logger *zap.Logger) http.Handler {
	h := &handler{
		service: service,
		logger:  logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /primary", h.primary)
	mux.HandleFunc("GET /addresses", h.addresses)
	mux.HandleFunc("GET /healthz", h.healthz)

	return h2c.NewHandler(mux, &http2.Server{})
}
