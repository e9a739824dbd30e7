// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

const shutdownTimeout = 5 * time.Second

// Serve serves the handler on the listener until the context is canceled,
// then shuts the server down gracefully.
func Serve(ctx context.Context, l net.Listener, h http.Handler, readHeaderTimeout time.Duration, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(l) }()

	logger.InfoContext(ctx, "Listening", "module", "api", "address", l.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.UnknownError.WithFormat("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return errors.UnknownError.WithFormat("shutdown: %w", err)
	}
	return nil
}

// MetricsHandler serves prometheus metrics at /metrics, for a metrics server
// separate from the API.
func MetricsHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	return r
}
