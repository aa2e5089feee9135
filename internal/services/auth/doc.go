// Package auth is the receiving side of user synchronization.
//
// It keeps shadow copies of users owned by the user service and remembers
// invalidated sessions so session checks can reject them until their tokens
// expire.
//
// Subpackages:
//   - app: auth server wiring and lifecycle
//   - api/grpc/usersync: UserSyncService receiver
//   - api/grpc/auth: AuthService session checks
//   - shadow: idempotent apply logic for sync events
//   - events: NATS notifications for applied events
//   - storage: shadow user and invalidation store backends
package auth
