package storage

import (
	"context"
	"time"

	"github.com/louisbranch/bookshelf/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrConflict indicates a write violated a uniqueness constraint. Stores wrap
// the driver error with this code, so errors.Is(err, ErrConflict) holds.
var ErrConflict = errors.New(errors.CodeUserAlreadyExists, "record already exists")

// ShadowUser is the auth service's copy of a user owned by the user service.
type ShadowUser struct {
	ID       int64
	Name     string
	SyncedAt time.Time
}

// ShadowUserStore persists shadow users. Name and ID are both unique.
type ShadowUserStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByName(ctx context.Context, name string) (ShadowUser, error)
	Save(ctx context.Context, u ShadowUser) error
	DeleteByID(ctx context.Context, id int64) error
}

// InvalidationStore remembers invalidated sessions until they expire.
//
// Unknown session ids are not invalidated. An entry is reported from the
// moment Invalidate returns until expiresAt, and never after it.
type InvalidationStore interface {
	Invalidate(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsInvalidated(ctx context.Context, sessionID string) (bool, error)
}
