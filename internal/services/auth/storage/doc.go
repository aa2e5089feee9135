// Package storage defines persistence contracts for the auth service.
//
// Shadow users and invalidated sessions each have more than one backend, so
// apply logic and handlers depend only on these interfaces.
package storage
