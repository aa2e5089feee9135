// Package server composes and runs the auth process boundary.
//
// It hosts the UserSyncService receiver and the AuthService session checks
// over one gRPC listener, backed by the configured shadow user store and
// session invalidation store.
package server
