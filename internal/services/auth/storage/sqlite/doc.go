// Package sqlite provides the SQLite-backed shadow user store.
//
// It is the default store of the auth service and the one used in tests.
package sqlite
