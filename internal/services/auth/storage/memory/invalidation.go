// Package memory provides an in-process session invalidation store for a
// single auth replica.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
)

// InvalidationStore keeps invalidated session ids in a map with per-entry
// expiry. Expiry is checked on every read; StartSweep only reclaims memory.
type InvalidationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	clock   func() time.Time
}

// NewInvalidationStore creates an empty store. A nil clock uses time.Now.
func NewInvalidationStore(clock func() time.Time) *InvalidationStore {
	if clock == nil {
		clock = time.Now
	}
	return &InvalidationStore{
		entries: make(map[string]time.Time),
		clock:   clock,
	}
}

// Invalidate records sessionID until expiresAt. An existing entry keeps the
// later of the two expiries.
func (s *InvalidationStore) Invalidate(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[sessionID]; ok && current.After(expiresAt) {
		return nil
	}
	s.entries[sessionID] = expiresAt
	return nil
}

// IsInvalidated reports whether sessionID has an unexpired entry.
func (s *InvalidationStore) IsInvalidated(ctx context.Context, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	expiresAt, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return s.clock().Before(expiresAt), nil
}

// Sweep removes expired entries and returns how many were removed.
func (s *InvalidationStore) Sweep() int {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, expiresAt := range s.entries {
		if !now.Before(expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *InvalidationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartSweep runs Sweep every interval until ctx ends.
func (s *InvalidationStore) StartSweep(ctx context.Context, interval time.Duration) {
	if s == nil || interval <= 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

var _ storage.InvalidationStore = (*InvalidationStore)(nil)
