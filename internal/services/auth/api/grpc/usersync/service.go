// Package usersync implements the usersync.v1.UserSyncService gRPC API.
package usersync

import (
	"context"
	"fmt"

	usersyncv1 "github.com/louisbranch/bookshelf/api/gen/go/usersync/v1"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/logging"
	"github.com/louisbranch/bookshelf/internal/platform/metrics"
	"github.com/louisbranch/bookshelf/internal/platform/requestctx"
	syncevent "github.com/louisbranch/bookshelf/internal/services/shared/usersync"
)

// Applier applies decoded sync events to local state.
type Applier interface {
	ApplyUserCreated(ctx context.Context, in syncevent.UserCreated) syncevent.Result
	ApplySessionInvalidate(ctx context.Context, in syncevent.SessionInvalidate) syncevent.Result
}

// Service acknowledges every sync call with exactly the apply result. Apply
// failures and panics become success=false; the RPC itself never fails.
type Service struct {
	usersyncv1.UnimplementedUserSyncServiceServer
	applier Applier
	metrics *metrics.Sync
}

// NewService creates the sync service. m may be nil.
func NewService(applier Applier, m *metrics.Sync) *Service {
	return &Service{applier: applier, metrics: m}
}

// SendUserCreated applies a NewUser request.
func (s *Service) SendUserCreated(ctx context.Context, in *usersyncv1.NewUser) (*usersyncv1.NewUserSynced, error) {
	event := syncevent.UserCreatedFromWire(in)
	result := s.apply(ctx, syncevent.OperationUserCreated, func(applier Applier) syncevent.Result {
		return applier.ApplyUserCreated(ctx, event)
	})
	return &usersyncv1.NewUserSynced{Success: result.Succeeded()}, nil
}

// BlockSession applies an InvalidateToken request.
func (s *Service) BlockSession(ctx context.Context, in *usersyncv1.InvalidateToken) (*usersyncv1.TokenInvalidated, error) {
	event := syncevent.SessionInvalidateFromWire(in)
	result := s.apply(ctx, syncevent.OperationSessionInvalidate, func(applier Applier) syncevent.Result {
		return applier.ApplySessionInvalidate(ctx, event)
	})
	return &usersyncv1.TokenInvalidated{Success: result.Succeeded()}, nil
}

func (s *Service) apply(ctx context.Context, operation string, fn func(Applier) syncevent.Result) (result syncevent.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = syncevent.Failed(apperrors.New(apperrors.CodeSyncStoreFailure, fmt.Sprintf("apply panicked: %v", r)))
		}
		s.observe(ctx, operation, result)
	}()

	if s == nil || s.applier == nil {
		return syncevent.Failed(apperrors.New(apperrors.CodeSyncNotConfigured, "sync applier is not configured"))
	}
	return fn(s.applier)
}

func (s *Service) observe(ctx context.Context, operation string, result syncevent.Result) {
	if s != nil {
		s.metrics.ObserveApply(operation, string(result.Outcome))
	}
	caller := requestctx.CallerFromContext(ctx)
	if caller == "" {
		caller = "anonymous"
	}
	switch result.Outcome {
	case syncevent.OutcomeApplied:
	case syncevent.OutcomeDuplicate:
		logging.Printf(ctx, "sync: %s from %s already applied", operation, caller)
	default:
		logging.Printf(ctx, "sync error: apply %s from %s %s: %v", operation, caller, result.Outcome, result.Err)
	}
}
