// Package shadow applies user-sync events to the auth service's local state.
//
// Every apply step is idempotent: a repeated UserCreated finds the existing
// shadow user by name, and a repeated SessionInvalidate refreshes the entry.
package shadow

import (
	"context"
	"errors"
	"strconv"
	"time"

	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/logging"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
)

// DefaultInvalidationTTL is how long an invalidated session is remembered.
const DefaultInvalidationTTL = time.Hour

// Publisher announces applied events. Publish errors never change a result.
type Publisher interface {
	PublishUserCreated(ctx context.Context, user usersync.UserCreated) error
	PublishSessionInvalidated(ctx context.Context, session usersync.SessionInvalidate, expiresAt time.Time) error
}

// Applier reconciles incoming sync events with the shadow user store and the
// session invalidation store.
type Applier struct {
	users     storage.ShadowUserStore
	sessions  storage.InvalidationStore
	ttl       time.Duration
	clock     func() time.Time
	publisher Publisher
}

// Option configures an Applier.
type Option func(*Applier)

// WithInvalidationTTL sets how long blocked sessions are remembered.
func WithInvalidationTTL(ttl time.Duration) Option {
	return func(a *Applier) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(a *Applier) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithPublisher announces every applied event through p.
func WithPublisher(p Publisher) Option {
	return func(a *Applier) {
		a.publisher = p
	}
}

// NewApplier creates an Applier over the given stores.
func NewApplier(users storage.ShadowUserStore, sessions storage.InvalidationStore, opts ...Option) *Applier {
	a := &Applier{
		users:    users,
		sessions: sessions,
		ttl:      DefaultInvalidationTTL,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ApplyUserCreated stores a shadow user unless one with the same name exists.
//
// A uniqueness violation from a concurrent writer is resolved by reading the
// name back: when it is present the event is a duplicate. When it is absent
// the violation came from the id, which another name already holds, and the
// event is rejected.
func (a *Applier) ApplyUserCreated(ctx context.Context, in usersync.UserCreated) usersync.Result {
	event, err := in.Normalize()
	if err != nil {
		return usersync.Rejected(err)
	}
	if a == nil || a.users == nil {
		return usersync.Failed(apperrors.New(apperrors.CodeSyncNotConfigured, "shadow user store is not configured"))
	}

	exists, err := a.users.ExistsByName(ctx, event.Name)
	if err != nil {
		return usersync.Failed(apperrors.Wrap(apperrors.CodeSyncStoreFailure, "check shadow user", err))
	}
	if exists {
		return usersync.Duplicate()
	}

	err = a.users.Save(ctx, storage.ShadowUser{ID: event.ID, Name: event.Name, SyncedAt: a.clock().UTC()})
	if errors.Is(err, storage.ErrConflict) {
		return a.resolveConflict(ctx, event, err)
	}
	if err != nil {
		return usersync.Failed(apperrors.Wrap(apperrors.CodeSyncStoreFailure, "save shadow user", err))
	}

	if a.publisher != nil {
		if err := a.publisher.PublishUserCreated(ctx, event); err != nil {
			logging.Printf(ctx, "publish user created %d: %v", event.ID, err)
		}
	}
	return usersync.Applied()
}

func (a *Applier) resolveConflict(ctx context.Context, event usersync.UserCreated, cause error) usersync.Result {
	existing, err := a.users.FindByName(ctx, event.Name)
	if err == nil {
		if existing.ID != event.ID {
			logging.Printf(ctx, "shadow user %q already synced with id %d, event id %d", event.Name, existing.ID, event.ID)
		}
		return usersync.Duplicate()
	}
	if errors.Is(err, storage.ErrNotFound) {
		conflict := apperrors.WithMetadata(apperrors.CodeUserIDConflict, "user id is held by another name", map[string]string{
			"user_id":   strconv.FormatInt(event.ID, 10),
			"user_name": event.Name,
		})
		conflict.Cause = cause
		return usersync.Rejected(conflict)
	}
	return usersync.Failed(apperrors.Wrap(apperrors.CodeSyncStoreFailure, "resolve shadow user conflict", err))
}

// ApplySessionInvalidate blocks a session until now plus the invalidation TTL.
func (a *Applier) ApplySessionInvalidate(ctx context.Context, in usersync.SessionInvalidate) usersync.Result {
	event, err := in.Normalize()
	if err != nil {
		return usersync.Rejected(err)
	}
	if a == nil || a.sessions == nil {
		return usersync.Failed(apperrors.New(apperrors.CodeSyncNotConfigured, "invalidation store is not configured"))
	}

	expiresAt := a.clock().Add(a.ttl)
	if err := a.sessions.Invalidate(ctx, event.SessionID, expiresAt); err != nil {
		return usersync.Failed(apperrors.Wrap(apperrors.CodeSyncStoreFailure, "invalidate session", err))
	}

	if a.publisher != nil {
		if err := a.publisher.PublishSessionInvalidated(ctx, event, expiresAt); err != nil {
			logging.Printf(ctx, "publish session invalidated: %v", err)
		}
	}
	return usersync.Applied()
}
