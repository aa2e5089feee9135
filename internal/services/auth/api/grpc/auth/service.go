// Package auth implements the auth.v1.AuthService gRPC API.
package auth

import (
	"context"
	"errors"

	authv1 "github.com/louisbranch/bookshelf/api/gen/go/auth/v1"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/logging"
	"github.com/louisbranch/bookshelf/internal/platform/sessiontoken"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
)

// TokenParser verifies session tokens.
type TokenParser interface {
	Parse(token string) (sessiontoken.Claims, error)
}

// AuthService answers session checks for other services.
//
// A token is valid when its signature and expiry verify and its session has
// not been invalidated. The shadow user lookup only enriches the answer.
type AuthService struct {
	authv1.UnimplementedAuthServiceServer
	tokens   TokenParser
	sessions storage.InvalidationStore
	users    storage.ShadowUserStore
}

// NewAuthService creates the service. users may be nil.
func NewAuthService(tokens TokenParser, sessions storage.InvalidationStore, users storage.ShadowUserStore) *AuthService {
	return &AuthService{tokens: tokens, sessions: sessions, users: users}
}

// CheckSession verifies a session token.
func (s *AuthService) CheckSession(ctx context.Context, in *authv1.CheckSessionRequest) (*authv1.CheckSessionResponse, error) {
	if s.tokens == nil || s.sessions == nil {
		return nil, apperrors.HandleError(apperrors.New(apperrors.CodeSyncNotConfigured, "session checks are not configured"))
	}

	claims, err := s.tokens.Parse(in.GetToken())
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeSessionExpired) || apperrors.IsCode(err, apperrors.CodeSessionTokenInvalid) {
			return &authv1.CheckSessionResponse{Valid: false}, nil
		}
		return nil, apperrors.HandleError(err)
	}

	invalidated, err := s.sessions.IsInvalidated(ctx, claims.SessionID)
	if err != nil {
		return nil, apperrors.HandleError(apperrors.Wrap(apperrors.CodeSyncStoreFailure, "check session", err))
	}

	resp := &authv1.CheckSessionResponse{
		Valid:     !invalidated,
		SessionId: claims.SessionID,
		UserName:  claims.UserName,
	}
	if !resp.Valid || s.users == nil {
		return resp, nil
	}

	name, err := usersync.NormalizeName(claims.UserName)
	if err != nil {
		return resp, nil
	}
	user, err := s.users.FindByName(ctx, name)
	switch {
	case err == nil:
		resp.UserId = user.ID
	case errors.Is(err, storage.ErrNotFound):
	default:
		logging.Printf(ctx, "lookup shadow user %q: %v", name, err)
	}
	return resp, nil
}
