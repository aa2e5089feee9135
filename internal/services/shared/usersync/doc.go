// Package usersync carries user and session events from the user service to
// the auth service.
//
// Events are converted field by field to the usersync.v1 wire messages. The
// Client reports every delivery as a Result and never returns an error to its
// caller; the local change that triggered the event always stands.
package usersync
