package shadow

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage/memory"
	authsqlite "github.com/louisbranch/bookshelf/internal/services/auth/storage/sqlite"
	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
)

func openUserStore(t *testing.T) *authsqlite.Store {
	t.Helper()
	store, err := authsqlite.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

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

type fakeUserStore struct {
	existsErr error
	saveErr   error
	found     *storage.ShadowUser
	findErr   error
	saved     []storage.ShadowUser
}

func (f *fakeUserStore) ExistsByName(context.Context, string) (bool, error) {
	return false, f.existsErr
}

func (f *fakeUserStore) FindByName(context.Context, string) (storage.ShadowUser, error) {
	if f.found != nil {
		return *f.found, nil
	}
	if f.findErr != nil {
		return storage.ShadowUser{}, f.findErr
	}
	return storage.ShadowUser{}, storage.ErrNotFound
}

func (f *fakeUserStore) Save(_ context.Context, u storage.ShadowUser) error {
	f.saved = append(f.saved, u)
	return f.saveErr
}

func (f *fakeUserStore) DeleteByID(context.Context, int64) error {
	return nil
}

type fakeInvalidationStore struct {
	err error
}

func (f *fakeInvalidationStore) Invalidate(context.Context, string, time.Time) error {
	return f.err
}

func (f *fakeInvalidationStore) IsInvalidated(context.Context, string) (bool, error) {
	return false, f.err
}

type recordingPublisher struct {
	mu       sync.Mutex
	users    []usersync.UserCreated
	sessions []time.Time
	err      error
}

func (p *recordingPublisher) PublishUserCreated(_ context.Context, u usersync.UserCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, u)
	return p.err
}

func (p *recordingPublisher) PublishSessionInvalidated(_ context.Context, _ usersync.SessionInvalidate, expiresAt time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = append(p.sessions, expiresAt)
	return p.err
}

func TestApplyUserCreatedTwiceKeepsOneRecord(t *testing.T) {
	users := openUserStore(t)
	pub := &recordingPublisher{}
	applier := NewApplier(users, memory.NewInvalidationStore(nil), WithPublisher(pub))
	ctx := context.Background()
	event := usersync.UserCreated{ID: 42, Name: "alice"}

	first := applier.ApplyUserCreated(ctx, event)
	if first.Outcome != usersync.OutcomeApplied {
		t.Fatalf("first outcome = %s, want applied", first.Outcome)
	}
	second := applier.ApplyUserCreated(ctx, event)
	if second.Outcome != usersync.OutcomeDuplicate || !second.Succeeded() {
		t.Fatalf("second outcome = %s, want duplicate", second.Outcome)
	}

	got, err := users.FindByName(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("stored = %+v", got)
	}
	if len(pub.users) != 1 {
		t.Fatalf("published %d user events, want 1", len(pub.users))
	}
}

func TestApplyUserCreatedConcurrentSameName(t *testing.T) {
	users := openUserStore(t)
	applier := NewApplier(users, memory.NewInvalidationStore(nil))
	ctx := context.Background()

	const workers = 8
	results := make([]usersync.Result, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = applier.ApplyUserCreated(ctx, usersync.UserCreated{ID: 7, Name: "carol"})
		}(i)
	}
	wg.Wait()

	applied := 0
	for _, r := range results {
		if !r.Succeeded() {
			t.Fatalf("result = %+v, want success", r)
		}
		if r.Outcome == usersync.OutcomeApplied {
			applied++
		}
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want exactly 1", applied)
	}
}

func TestApplyUserCreatedNameMatchesRegardlessOfID(t *testing.T) {
	users := openUserStore(t)
	applier := NewApplier(users, nil)
	ctx := context.Background()

	_ = applier.ApplyUserCreated(ctx, usersync.UserCreated{ID: 1, Name: "alice"})
	result := applier.ApplyUserCreated(ctx, usersync.UserCreated{ID: 2, Name: "alice"})
	if result.Outcome != usersync.OutcomeDuplicate {
		t.Fatalf("outcome = %s, want duplicate", result.Outcome)
	}
}

func TestApplyUserCreatedRejectsIDHeldByOtherName(t *testing.T) {
	users := openUserStore(t)
	applier := NewApplier(users, nil)
	ctx := context.Background()

	_ = applier.ApplyUserCreated(ctx, usersync.UserCreated{ID: 1, Name: "alice"})
	result := applier.ApplyUserCreated(ctx, usersync.UserCreated{ID: 1, Name: "bob"})
	if result.Outcome != usersync.OutcomeRejected || !apperrors.IsCode(result.Err, apperrors.CodeUserIDConflict) {
		t.Fatalf("result = %+v, want id conflict", result)
	}
}

func TestApplyUserCreatedLosingWriterResolvesToDuplicate(t *testing.T) {
	users := &fakeUserStore{
		saveErr: apperrors.Wrap(apperrors.CodeUserAlreadyExists, "save", errors.New("UNIQUE constraint failed")),
		found:   &storage.ShadowUser{ID: 42, Name: "alice"},
	}
	result := NewApplier(users, nil).ApplyUserCreated(context.Background(), usersync.UserCreated{ID: 42, Name: "alice"})
	if result.Outcome != usersync.OutcomeDuplicate {
		t.Fatalf("outcome = %s, want duplicate", result.Outcome)
	}
}

func TestApplyUserCreatedStoreFailure(t *testing.T) {
	cases := map[string]*fakeUserStore{
		"exists": {existsErr: errors.New("disk I/O error")},
		"save":   {saveErr: errors.New("disk I/O error")},
		"find": {
			saveErr: apperrors.Wrap(apperrors.CodeUserAlreadyExists, "save", errors.New("conflict")),
			findErr: errors.New("disk I/O error"),
		},
	}
	for name, users := range cases {
		result := NewApplier(users, nil).ApplyUserCreated(context.Background(), usersync.UserCreated{ID: 1, Name: "alice"})
		if result.Outcome != usersync.OutcomeFailed || !apperrors.IsCode(result.Err, apperrors.CodeSyncStoreFailure) {
			t.Fatalf("%s: result = %+v, want store failure", name, result)
		}
	}
}

func TestApplyUserCreatedRejectsInvalidEvent(t *testing.T) {
	users := &fakeUserStore{}
	result := NewApplier(users, nil).ApplyUserCreated(context.Background(), usersync.UserCreated{ID: 1, Name: " "})
	if result.Outcome != usersync.OutcomeRejected {
		t.Fatalf("outcome = %s, want rejected", result.Outcome)
	}
	if len(users.saved) != 0 {
		t.Fatal("invalid event must not be saved")
	}
}

func TestApplyUserCreatedPublishFailureStillSucceeds(t *testing.T) {
	users := openUserStore(t)
	pub := &recordingPublisher{err: errors.New("nats down")}
	result := NewApplier(users, nil, WithPublisher(pub)).ApplyUserCreated(context.Background(), usersync.UserCreated{ID: 9, Name: "erin"})
	if result.Outcome != usersync.OutcomeApplied {
		t.Fatalf("outcome = %s, want applied", result.Outcome)
	}
}

func TestApplySessionInvalidateHonorsTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	sessions := memory.NewInvalidationStore(clock.Now)
	pub := &recordingPublisher{}
	applier := NewApplier(nil, sessions, WithClock(clock.Now), WithPublisher(pub))
	ctx := context.Background()

	if result := applier.ApplySessionInvalidate(ctx, usersync.SessionInvalidate{SessionID: "sess-123"}); !result.Succeeded() {
		t.Fatalf("result = %+v", result)
	}
	if got, _ := sessions.IsInvalidated(ctx, "sess-123"); !got {
		t.Fatal("expected session invalidated immediately")
	}
	if len(pub.sessions) != 1 || !pub.sessions[0].Equal(clock.Now().Add(DefaultInvalidationTTL)) {
		t.Fatalf("published expiries = %v", pub.sessions)
	}

	// A repeated invalidation stays successful.
	if result := applier.ApplySessionInvalidate(ctx, usersync.SessionInvalidate{SessionID: "sess-123"}); !result.Succeeded() {
		t.Fatalf("repeat result = %+v", result)
	}

	clock.Advance(DefaultInvalidationTTL + time.Millisecond)
	if got, _ := sessions.IsInvalidated(ctx, "sess-123"); got {
		t.Fatal("expected session valid again after ttl")
	}
}

func TestApplySessionInvalidateCustomTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	sessions := memory.NewInvalidationStore(clock.Now)
	applier := NewApplier(nil, sessions, WithClock(clock.Now), WithInvalidationTTL(time.Minute))
	ctx := context.Background()

	_ = applier.ApplySessionInvalidate(ctx, usersync.SessionInvalidate{SessionID: "s"})
	clock.Advance(2 * time.Minute)
	if got, _ := sessions.IsInvalidated(ctx, "s"); got {
		t.Fatal("expected custom ttl to apply")
	}
}

func TestApplySessionInvalidateFailures(t *testing.T) {
	applier := NewApplier(nil, &fakeInvalidationStore{err: errors.New("redis down")})
	result := applier.ApplySessionInvalidate(context.Background(), usersync.SessionInvalidate{SessionID: "s"})
	if result.Outcome != usersync.OutcomeFailed {
		t.Fatalf("outcome = %s, want failed", result.Outcome)
	}

	result = applier.ApplySessionInvalidate(context.Background(), usersync.SessionInvalidate{SessionID: ""})
	if result.Outcome != usersync.OutcomeRejected {
		t.Fatalf("empty id outcome = %s, want rejected", result.Outcome)
	}

	result = NewApplier(nil, nil).ApplySessionInvalidate(context.Background(), usersync.SessionInvalidate{SessionID: "s"})
	if !apperrors.IsCode(result.Err, apperrors.CodeSyncNotConfigured) {
		t.Fatalf("unconfigured result = %+v", result)
	}
}
