// Package storage defines persistence contracts for the user service.
package storage

import (
	"context"
	"time"

	"github.com/louisbranch/bookshelf/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates the user name is taken.
var ErrAlreadyExists = errors.New(errors.CodeUserAlreadyExists, "user name already exists")

// User is an account owned by this service.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Session is a login session. RevokedAt is nil while the session is active.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// UserStore persists users. Names are unique and ids are assigned on insert.
type UserStore interface {
	CreateUser(ctx context.Context, name string, createdAt time.Time) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
}

// SessionStore persists sessions.
type SessionStore interface {
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	// RevokeSession marks the session revoked at the given time. Revoking an
	// already revoked session keeps the first time.
	RevokeSession(ctx context.Context, id string, at time.Time) error
}
