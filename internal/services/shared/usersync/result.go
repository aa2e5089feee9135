package usersync

import (
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
)

// Outcome classifies how a sync delivery or apply step ended.
type Outcome string

const (
	// OutcomeApplied means the receiver changed its state, or the origin got a
	// positive acknowledgement.
	OutcomeApplied Outcome = "applied"
	// OutcomeDuplicate means the receiver already held the event's state.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeNegative means the receiver acknowledged with success=false.
	OutcomeNegative Outcome = "negative"
	// OutcomeRejected means the event was invalid or the receiver refused the call.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnavailable means the receiver could not be reached in time.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeFailed means a local error prevented a definite answer.
	OutcomeFailed Outcome = "failed"
)

// Result is the explicit outcome of a delivery or an apply step.
type Result struct {
	Outcome Outcome
	Err     *apperrors.Error
}

// Succeeded reports whether the state is consistent with the event.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeApplied || r.Outcome == OutcomeDuplicate
}

// Error returns the failure cause, or nil for successful results.
func (r Result) Error() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

func Applied() Result {
	return Result{Outcome: OutcomeApplied}
}

func Duplicate() Result {
	return Result{Outcome: OutcomeDuplicate}
}

func Negative() Result {
	return Result{
		Outcome: OutcomeNegative,
		Err:     apperrors.New(apperrors.CodeSyncRejected, "receiver reported failure"),
	}
}

// Rejected wraps err as a rejection. Domain errors keep their code.
func Rejected(err error) Result {
	return Result{Outcome: OutcomeRejected, Err: asAppError(err, apperrors.CodeSyncRejected)}
}

func Unavailable(err error) Result {
	return Result{Outcome: OutcomeUnavailable, Err: asAppError(err, apperrors.CodeSyncUnavailable)}
}

// Failed wraps err as a local failure. Domain errors keep their code.
func Failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: asAppError(err, apperrors.CodeSyncStoreFailure)}
}

func asAppError(err error, fallback apperrors.Code) *apperrors.Error {
	if err == nil {
		return apperrors.New(fallback, string(fallback))
	}
	if appErr, ok := err.(*apperrors.Error); ok {
		return appErr
	}
	return apperrors.Wrap(fallback, "sync", err)
}
