// Package metrics exposes Prometheus counters for user synchronization.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/bookshelf/internal/platform/timeouts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sync holds the counters shared by the sync client and sync server.
type Sync struct {
	ClientCalls *prometheus.CounterVec
	Applied     *prometheus.CounterVec
}

// NewSync creates sync counters and registers them with reg. A nil reg skips
// registration, which keeps tests free of global state.
func NewSync(reg prometheus.Registerer) (*Sync, error) {
	m := &Sync{
		ClientCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookshelf",
			Subsystem: "usersync",
			Name:      "client_calls_total",
			Help:      "User sync calls issued by the origin service, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		Applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookshelf",
			Subsystem: "usersync",
			Name:      "apply_total",
			Help:      "User sync events applied by the receiving service, by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.ClientCalls, m.Applied} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register sync metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveClientCall counts one sync client round trip.
func (m *Sync) ObserveClientCall(operation, outcome string) {
	if m == nil {
		return
	}
	m.ClientCalls.WithLabelValues(operation, outcome).Inc()
}

// ObserveApply counts one applied sync event.
func (m *Sync) ObserveApply(operation, outcome string) {
	if m == nil {
		return
	}
	m.Applied.WithLabelValues(operation, outcome).Inc()
}

// Serve exposes gatherer at /metrics on addr until ctx ends. An empty addr
// disables the endpoint.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on metrics addr %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: timeouts.ReadHeader}

	log.Printf("metrics available at http://%s/metrics", listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	}
}
