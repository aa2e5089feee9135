// Package user is the origin of user accounts and login sessions.
//
// Subpackages:
//   - app: user server wiring and lifecycle
//   - api/grpc/user: gRPC UserService handlers
//   - storage: persistence interfaces and the SQLite implementation
package user
