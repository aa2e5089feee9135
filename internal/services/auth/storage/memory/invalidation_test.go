package memory

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestUnknownSessionIsNotInvalidated(t *testing.T) {
	store := NewInvalidationStore(nil)
	got, err := store.IsInvalidated(context.Background(), "never-seen")
	if err != nil || got {
		t.Fatalf("IsInvalidated = %v, %v", got, err)
	}
}

func TestInvalidatedUntilExpiry(t *testing.T) {
	clock := newClock()
	store := NewInvalidationStore(clock.Now)
	ctx := context.Background()
	ttl := time.Hour

	if err := store.Invalidate(ctx, "sess-123", clock.Now().Add(ttl)); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if got, _ := store.IsInvalidated(ctx, "sess-123"); !got {
		t.Fatal("expected invalidated immediately")
	}

	clock.Advance(ttl - time.Millisecond)
	if got, _ := store.IsInvalidated(ctx, "sess-123"); !got {
		t.Fatal("entry disappeared before ttl")
	}

	clock.Advance(2 * time.Millisecond)
	if got, _ := store.IsInvalidated(ctx, "sess-123"); got {
		t.Fatal("entry reported after ttl")
	}
}

func TestReinvalidateKeepsLaterExpiry(t *testing.T) {
	clock := newClock()
	store := NewInvalidationStore(clock.Now)
	ctx := context.Background()
	start := clock.Now()

	_ = store.Invalidate(ctx, "s", start.Add(2*time.Hour))
	_ = store.Invalidate(ctx, "s", start.Add(time.Hour))

	clock.Advance(90 * time.Minute)
	if got, _ := store.IsInvalidated(ctx, "s"); !got {
		t.Fatal("shorter re-invalidation must not shorten expiry")
	}

	_ = store.Invalidate(ctx, "s", clock.Now().Add(time.Hour))
	clock.Advance(45 * time.Minute)
	if got, _ := store.IsInvalidated(ctx, "s"); !got {
		t.Fatal("refresh must extend expiry")
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	clock := newClock()
	store := NewInvalidationStore(clock.Now)
	ctx := context.Background()

	_ = store.Invalidate(ctx, "short", clock.Now().Add(time.Minute))
	_ = store.Invalidate(ctx, "long", clock.Now().Add(time.Hour))
	clock.Advance(time.Minute)

	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1", store.Len())
	}
	if got, _ := store.IsInvalidated(ctx, "long"); !got {
		t.Fatal("sweep removed an unexpired entry")
	}
}

func TestStartSweepStopsWithContext(t *testing.T) {
	clock := newClock()
	store := NewInvalidationStore(clock.Now)
	_ = store.Invalidate(context.Background(), "s", clock.Now().Add(time.Second))
	clock.Advance(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartSweep(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweep did not reclaim expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCanceledContextFails(t *testing.T) {
	store := NewInvalidationStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Invalidate(ctx, "s", time.Now().Add(time.Hour)); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
