// Package errors provides coded domain errors shared by bookshelf services.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// User errors
	CodeUserEmptyName     Code = "USER_EMPTY_NAME"
	CodeUserInvalidName   Code = "USER_INVALID_NAME"
	CodeUserInvalidID     Code = "USER_INVALID_ID"
	CodeUserAlreadyExists Code = "USER_ALREADY_EXISTS"
	CodeUserIDConflict    Code = "USER_ID_CONFLICT"

	// Session errors
	CodeSessionEmptyID      Code = "SESSION_EMPTY_ID"
	CodeSessionTokenInvalid Code = "SESSION_TOKEN_INVALID"
	CodeSessionExpired      Code = "SESSION_EXPIRED"

	// Sync errors
	CodeSyncUnavailable    Code = "SYNC_UNAVAILABLE"
	CodeSyncRejected       Code = "SYNC_REJECTED"
	CodeSyncStoreFailure   Code = "SYNC_STORE_FAILURE"
	CodeSyncUnauthorized   Code = "SYNC_UNAUTHORIZED"
	CodeSyncNotConfigured  Code = "SYNC_NOT_CONFIGURED"
	CodeSyncMalformedReply Code = "SYNC_MALFORMED_REPLY"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeUserEmptyName,
		CodeUserInvalidName,
		CodeUserInvalidID,
		CodeSessionEmptyID:
		return codes.InvalidArgument

	// Unauthenticated - credentials missing or rejected
	case CodeSessionTokenInvalid,
		CodeSessionExpired,
		CodeSyncUnauthorized:
		return codes.Unauthenticated

	// FailedPrecondition - state doesn't allow operation
	case CodeUserIDConflict,
		CodeSyncNotConfigured:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeUserAlreadyExists:
		return codes.AlreadyExists

	case CodeSyncUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
