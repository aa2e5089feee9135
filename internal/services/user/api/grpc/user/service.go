// Package user implements the user.v1.UserService gRPC API.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	userv1 "github.com/louisbranch/bookshelf/api/gen/go/user/v1"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/id"
	"github.com/louisbranch/bookshelf/internal/platform/logging"
	"github.com/louisbranch/bookshelf/internal/platform/sessiontoken"
	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
	"github.com/louisbranch/bookshelf/internal/services/user/storage"
)

// Syncer propagates local changes to the auth service.
type Syncer interface {
	SendUserCreated(ctx context.Context, user usersync.UserCreated) bool
	BlockSession(ctx context.Context, sessionID string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(sessionID, userName string, ttl time.Duration) (string, time.Time, error)
}

// Store is the persistence the service needs.
type Store interface {
	storage.UserStore
	storage.SessionStore
}

// Option configures a UserService.
type Option func(*UserService)

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *UserService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *UserService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *UserService) {
		if fn != nil {
			s.idGenerator = fn
		}
	}
}

// UserService owns users and sessions. Every local commit stands regardless
// of whether the sync call that follows it succeeds.
type UserService struct {
	userv1.UnimplementedUserServiceServer
	store       Store
	tokens      TokenIssuer
	syncer      Syncer
	sessionTTL  time.Duration
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewUserService creates the service. tokens and syncer may be nil.
func NewUserService(store Store, tokens TokenIssuer, syncer Syncer, opts ...Option) *UserService {
	s := &UserService{
		store:       store,
		tokens:      tokens,
		syncer:      syncer,
		sessionTTL:  sessiontoken.DefaultTTL,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser persists a user and announces it to the auth service.
func (s *UserService) CreateUser(ctx context.Context, in *userv1.CreateUserRequest) (*userv1.CreateUserResponse, error) {
	if s.store == nil {
		return nil, apperrors.HandleError(apperrors.New(apperrors.CodeSyncNotConfigured, "user store is not configured"))
	}
	name, err := usersync.NormalizeName(in.GetName())
	if err != nil {
		return nil, apperrors.HandleError(err)
	}

	created, err := s.store.CreateUser(ctx, name, s.clock().UTC())
	if err != nil {
		return nil, apperrors.HandleError(err)
	}

	if s.syncer != nil {
		event := usersync.UserCreated{ID: created.ID, Name: created.Name}
		if s.syncer.SendUserCreated(context.WithoutCancel(ctx), event) {
			logging.Printf(ctx, "user %d synced to auth", created.ID)
		}
	}

	return &userv1.CreateUserResponse{Id: created.ID, Name: created.Name}, nil
}

// StartSession opens a session for an existing user and issues its token.
func (s *UserService) StartSession(ctx context.Context, in *userv1.StartSessionRequest) (*userv1.StartSessionResponse, error) {
	if s.store == nil || s.tokens == nil {
		return nil, apperrors.HandleError(apperrors.New(apperrors.CodeSyncNotConfigured, "sessions are not configured"))
	}
	if in.GetUserId() <= 0 {
		return nil, apperrors.HandleError(usersync.ErrInvalidID)
	}

	u, err := s.store.GetUser(ctx, in.GetUserId())
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	sessionID, err := s.idGenerator()
	if err != nil {
		return nil, apperrors.HandleError(apperrors.Wrap(apperrors.CodeUnknown, "generate session id", err))
	}
	token, expiresAt, err := s.tokens.Issue(sessionID, u.Name, s.sessionTTL)
	if err != nil {
		return nil, apperrors.HandleError(err)
	}

	if err := s.store.PutSession(ctx, storage.Session{
		ID:        sessionID,
		UserID:    u.ID,
		CreatedAt: s.clock().UTC(),
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, apperrors.HandleError(err)
	}

	return &userv1.StartSessionResponse{
		SessionId: sessionID,
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// EndSession revokes a session locally, then asks auth to stop honoring it.
func (s *UserService) EndSession(ctx context.Context, in *userv1.EndSessionRequest) (*userv1.EndSessionResponse, error) {
	if s.store == nil {
		return nil, apperrors.HandleError(apperrors.New(apperrors.CodeSyncNotConfigured, "sessions are not configured"))
	}
	sessionID := strings.TrimSpace(in.GetSessionId())
	if sessionID == "" {
		return nil, apperrors.HandleError(usersync.ErrEmptySessionID)
	}

	if err := s.store.RevokeSession(ctx, sessionID, s.clock().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.HandleError(apperrors.New(apperrors.CodeNotFound, "session not found"))
		}
		return nil, apperrors.HandleError(err)
	}

	if s.syncer != nil {
		if s.syncer.BlockSession(context.WithoutCancel(ctx), sessionID) {
			logging.Printf(ctx, "session %s blocked on auth", sessionID)
		}
	}
	return &userv1.EndSessionResponse{}, nil
}
