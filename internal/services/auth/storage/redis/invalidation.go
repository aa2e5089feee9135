// Package redis provides a session invalidation store backed by Redis key
// expiry, shared by every auth replica.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces invalidation keys.
const DefaultKeyPrefix = "bookshelf:session:invalidated:"

// Config describes the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// invalidateScript writes the session key unless it already outlives the new
// TTL. ARGV[1] is the stored expiry, ARGV[2] the TTL in milliseconds.
var invalidateScript = goredis.NewScript(`
local ttl = tonumber(ARGV[2])
if redis.call('PTTL', KEYS[1]) > ttl then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

// InvalidationStore stores one key per invalidated session with a native TTL.
type InvalidationStore struct {
	client goredis.Cmdable
	prefix string
	clock  func() time.Time
}

// NewInvalidationStore wraps client. A nil clock uses time.Now.
func NewInvalidationStore(client goredis.Cmdable, clock func() time.Time) *InvalidationStore {
	if clock == nil {
		clock = time.Now
	}
	return &InvalidationStore{client: client, prefix: DefaultKeyPrefix, clock: clock}
}

func (s *InvalidationStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Invalidate sets the session key to expire at expiresAt. A key with a later
// expiry is left untouched; the check and the write run as one script so
// concurrent calls cannot shorten the TTL.
func (s *InvalidationStore) Invalidate(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("redis is not configured")
	}
	ttl := expiresAt.Sub(s.clock())
	if ttl <= 0 {
		return nil
	}
	ttlMillis := ttl.Milliseconds()
	if ttlMillis < 1 {
		ttlMillis = 1
	}
	keys := []string{s.key(sessionID)}
	if err := invalidateScript.Run(ctx, s.client, keys, expiresAt.UTC().UnixMilli(), ttlMillis).Err(); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// IsInvalidated reports whether the session key exists.
func (s *InvalidationStore) IsInvalidated(ctx context.Context, sessionID string) (bool, error) {
	if s == nil || s.client == nil {
		return false, fmt.Errorf("redis is not configured")
	}
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

var _ storage.InvalidationStore = (*InvalidationStore)(nil)
