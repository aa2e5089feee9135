// Package sessiontoken issues and verifies signed session tokens.
//
// A token is an HS256 JWT whose jti is the session id and whose subject is
// the user name. Tokens carry no other state; revocation is answered by the
// auth service's invalidation store.
package sessiontoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
)

// Issuer is the iss claim on session tokens.
const Issuer = "bookshelf-user"

// DefaultTTL is the lifetime of a session token.
const DefaultTTL = time.Hour

// MinKeyLength is the minimum signing key size in bytes.
const MinKeyLength = 32

// Claims are the verified contents of a session token.
type Claims struct {
	SessionID string
	UserName  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Signer issues and verifies tokens with one symmetric key.
type Signer struct {
	key   []byte
	clock func() time.Time
}

// NewSigner validates key and returns a Signer. A nil clock uses time.Now.
func NewSigner(key []byte, clock func() time.Time) (*Signer, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("session token key must be at least %d bytes", MinKeyLength)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Signer{key: append([]byte(nil), key...), clock: clock}, nil
}

// Issue signs a token for sessionID valid for ttl.
func (s *Signer) Issue(sessionID, userName string, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", time.Time{}, apperrors.New(apperrors.CodeSessionEmptyID, "session id is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.clock().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userName,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies token and returns its claims. Expired tokens yield
// CodeSessionExpired; every other failure yields CodeSessionTokenInvalid.
func (s *Signer) Parse(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeSessionTokenInvalid, "session token is required")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperrors.Wrap(apperrors.CodeSessionExpired, "session token expired", err)
		}
		return Claims{}, apperrors.Wrap(apperrors.CodeSessionTokenInvalid, "session token invalid", err)
	}
	if strings.TrimSpace(claims.ID) == "" {
		return Claims{}, apperrors.New(apperrors.CodeSessionTokenInvalid, "session token has no session id")
	}

	out := Claims{SessionID: claims.ID, UserName: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
