// Package server composes and runs the user process boundary.
//
// It serves UserService over gRPC and holds a lazily connected sync client
// toward the auth service. An unreachable auth service never blocks startup.
package server
