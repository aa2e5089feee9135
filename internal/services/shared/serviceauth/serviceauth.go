// Package serviceauth authenticates service-to-service gRPC calls with short
// lived HS256 tokens derived from a shared secret.
package serviceauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	// Header is the metadata key carrying the bearer token.
	Header = "authorization"
	// Audience is the aud claim expected on sync calls.
	Audience = "usersync"
	// DefaultTTL is the lifetime of each issued token.
	DefaultTTL = time.Minute
	// MinSecretLength is the minimum shared secret size in bytes.
	MinSecretLength = 32
)

// Issuer mints tokens on behalf of one calling service.
type Issuer struct {
	secret  []byte
	service string
	ttl     time.Duration
	clock   func() time.Time
}

// NewIssuer returns an Issuer for service. A nil clock uses time.Now.
func NewIssuer(secret []byte, service string, clock func() time.Time) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("shared secret must be at least %d bytes", MinSecretLength)
	}
	service = strings.TrimSpace(service)
	if service == "" {
		return nil, fmt.Errorf("service name is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Issuer{secret: append([]byte(nil), secret...), service: service, ttl: DefaultTTL, clock: clock}, nil
}

// Token returns a freshly signed service token.
func (i *Issuer) Token() (string, error) {
	now := i.clock().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    i.service,
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign service token: %w", err)
	}
	return signed, nil
}

// WithToken returns a context with bearer token metadata when token is non-empty.
func WithToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, Header, "Bearer "+token)
}

// UnaryClientInterceptor attaches a service token to every unary call.
func UnaryClientInterceptor(issuer *Issuer) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req any,
		reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		token, err := issuer.Token()
		if err != nil {
			return err
		}
		return invoker(WithToken(ctx, token), method, req, reply, cc, opts...)
	}
}

// Verifier checks tokens minted by any Issuer sharing the same secret.
type Verifier struct {
	secret []byte
	clock  func() time.Time
}

// NewVerifier returns a Verifier. A nil clock uses time.Now.
func NewVerifier(secret []byte, clock func() time.Time) (*Verifier, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("shared secret must be at least %d bytes", MinSecretLength)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Verifier{secret: append([]byte(nil), secret...), clock: clock}, nil
}

// Verify validates token and returns the calling service name.
func (v *Verifier) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeSyncUnauthorized, "service token rejected", err)
	}
	if strings.TrimSpace(claims.Issuer) == "" {
		return "", apperrors.New(apperrors.CodeSyncUnauthorized, "service token has no issuer")
	}
	return claims.Issuer, nil
}

// FromIncoming extracts the bearer token from incoming metadata.
func FromIncoming(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	for _, value := range md.Get(Header) {
		token, found := strings.CutPrefix(strings.TrimSpace(value), "Bearer ")
		if found && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), true
		}
	}
	return "", false
}

// UnaryServerInterceptor rejects calls to methods under servicePrefix that do
// not carry a valid service token and records the verified caller in the
// handler context. Other methods pass through.
func UnaryServerInterceptor(v *Verifier, servicePrefix string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, servicePrefix) {
			return handler(ctx, req)
		}
		token, ok := FromIncoming(ctx)
		if !ok {
			return nil, apperrors.HandleError(apperrors.New(apperrors.CodeSyncUnauthorized, "service token is required"))
		}
		caller, err := v.Verify(token)
		if err != nil {
			return nil, apperrors.HandleError(err)
		}
		return handler(requestctx.WithCaller(ctx, caller), req)
	}
}
