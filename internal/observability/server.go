package observability

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dbchat/dbchat/internal/debug"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler returns the HTTP handler serving /metrics.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Serve starts a metrics server on addr in the background. The returned
// server is shut down by the caller.
func Serve(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           NewHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			debug.Error("metrics server stopped", "error", err)
		}
	}()

	debug.Info("serving metrics", "addr", ln.Addr().String())
	return srv, nil
}
