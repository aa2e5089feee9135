// Package grpc holds shared gRPC client and server wiring.
package grpc

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultClientDialOptions returns standard dial options for in-network clients.
// Includes OTel gRPC stats handlers so every outbound call propagates trace
// context automatically when a TracerProvider is registered.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// DefaultServerOptions returns standard server options followed by extra.
func DefaultServerOptions(extra ...gogrpc.ServerOption) []gogrpc.ServerOption {
	opts := []gogrpc.ServerOption{
		gogrpc.StatsHandler(otelgrpc.NewServerHandler()),
	}
	return append(opts, extra...)
}

// NewClient creates a lazily connecting client for addr. The connection is
// established on first use, so an unreachable peer never blocks startup.
func NewClient(addr string, extra ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("gRPC address is required")
	}
	opts := append(DefaultClientDialOptions(), extra...)
	conn, err := gogrpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gRPC client for %s: %w", addr, err)
	}
	return conn, nil
}
