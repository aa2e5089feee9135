// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when waiting for a gRPC peer to report healthy.
const GRPCDial = 2 * time.Second

// SyncRequest caps a single user-sync round trip from the origin service.
const SyncRequest = 2 * time.Second

// ReadHeader limits how long the metrics HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long HTTP servers wait for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
