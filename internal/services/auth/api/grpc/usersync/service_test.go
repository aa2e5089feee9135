package usersync

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	usersyncv1 "github.com/louisbranch/bookshelf/api/gen/go/usersync/v1"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/metrics"
	syncevent "github.com/louisbranch/bookshelf/internal/services/shared/usersync"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

type fakeApplier struct {
	userResult    syncevent.Result
	sessionResult syncevent.Result
	panicWith     any

	mu       sync.Mutex
	users    []syncevent.UserCreated
	sessions []syncevent.SessionInvalidate
}

func (f *fakeApplier) ApplyUserCreated(_ context.Context, in syncevent.UserCreated) syncevent.Result {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, in)
	return f.userResult
}

func (f *fakeApplier) ApplySessionInvalidate(_ context.Context, in syncevent.SessionInvalidate) syncevent.Result {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, in)
	return f.sessionResult
}

func newMetrics(t *testing.T) *metrics.Sync {
	t.Helper()
	m, err := metrics.NewSync(nil)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	return m
}

func TestSendUserCreatedAcknowledgesApplyResult(t *testing.T) {
	cases := map[string]struct {
		result syncevent.Result
		want   bool
	}{
		"applied":   {syncevent.Applied(), true},
		"duplicate": {syncevent.Duplicate(), true},
		"failed":    {syncevent.Failed(nil), false},
		"rejected":  {syncevent.Rejected(nil), false},
	}
	for name, tc := range cases {
		applier := &fakeApplier{userResult: tc.result}
		svc := NewService(applier, nil)
		resp, err := svc.SendUserCreated(context.Background(), &usersyncv1.NewUser{Id: 42, Name: "alice"})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if resp.GetSuccess() != tc.want {
			t.Fatalf("%s: success = %v, want %v", name, resp.GetSuccess(), tc.want)
		}
		if len(applier.users) != 1 || applier.users[0] != (syncevent.UserCreated{ID: 42, Name: "alice"}) {
			t.Fatalf("%s: applied = %+v", name, applier.users)
		}
	}
}

func TestBlockSessionPassesSessionID(t *testing.T) {
	applier := &fakeApplier{sessionResult: syncevent.Applied()}
	m := newMetrics(t)
	svc := NewService(applier, m)

	resp, err := svc.BlockSession(context.Background(), &usersyncv1.InvalidateToken{SessionId: "sess-123"})
	if err != nil || !resp.GetSuccess() {
		t.Fatalf("resp = %+v, err = %v", resp, err)
	}
	if len(applier.sessions) != 1 || applier.sessions[0].SessionID != "sess-123" {
		t.Fatalf("applied = %+v", applier.sessions)
	}
	if got := testutil.ToFloat64(m.Applied.WithLabelValues(syncevent.OperationSessionInvalidate, "applied")); got != 1 {
		t.Fatalf("apply counter = %v, want 1", got)
	}
}

func TestPanicBecomesNegativeAcknowledgement(t *testing.T) {
	m := newMetrics(t)
	svc := NewService(&fakeApplier{panicWith: "store exploded"}, m)

	resp, err := svc.SendUserCreated(context.Background(), &usersyncv1.NewUser{Id: 1, Name: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GetSuccess() {
		t.Fatal("expected success=false after panic")
	}
	session, err := svc.BlockSession(context.Background(), &usersyncv1.InvalidateToken{SessionId: "s"})
	if err != nil || session.GetSuccess() {
		t.Fatalf("session resp = %+v, err = %v", session, err)
	}
	if got := testutil.ToFloat64(m.Applied.WithLabelValues(syncevent.OperationUserCreated, "failed")); got != 1 {
		t.Fatalf("failed counter = %v, want 1", got)
	}
}

func TestMissingApplierAcknowledgesFailure(t *testing.T) {
	svc := NewService(nil, nil)
	resp, err := svc.SendUserCreated(context.Background(), &usersyncv1.NewUser{Id: 1, Name: "alice"})
	if err != nil || resp.GetSuccess() {
		t.Fatalf("resp = %+v, err = %v", resp, err)
	}
}

func TestFailedResultCarriesCode(t *testing.T) {
	applier := &fakeApplier{userResult: syncevent.Failed(apperrors.New(apperrors.CodeSyncStoreFailure, "disk full"))}
	svc := NewService(applier, nil)
	result := svc.apply(context.Background(), syncevent.OperationUserCreated, func(a Applier) syncevent.Result {
		return a.ApplyUserCreated(context.Background(), syncevent.UserCreated{ID: 1, Name: "a"})
	})
	if !apperrors.IsCode(result.Err, apperrors.CodeSyncStoreFailure) {
		t.Fatalf("result = %+v", result)
	}
}

func TestServiceAcceptsStandardProtobufClients(t *testing.T) {
	applier := &fakeApplier{userResult: syncevent.Applied(), sessionResult: syncevent.Applied()}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer()
	usersyncv1.RegisterUserSyncServiceServer(server, NewService(applier, nil))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Messages are built from the descriptor alone so no generated Go type
	// is involved on the client side.
	messages := usersyncv1.File_usersync_v1_usersync_proto.Messages()
	newUser := dynamicpb.NewMessage(messages.ByName("NewUser"))
	newUser.Set(newUser.Descriptor().Fields().ByName("id"), protoreflect.ValueOfInt64(42))
	newUser.Set(newUser.Descriptor().Fields().ByName("name"), protoreflect.ValueOfString("alice"))
	synced := dynamicpb.NewMessage(messages.ByName("NewUserSynced"))
	if err := conn.Invoke(ctx, usersyncv1.UserSyncService_SendUserCreated_FullMethodName, newUser, synced); err != nil {
		t.Fatalf("send user created: %v", err)
	}
	if !synced.Get(synced.Descriptor().Fields().ByName("success")).Bool() {
		t.Fatal("expected success=true")
	}
	applier.mu.Lock()
	users := applier.users
	applier.mu.Unlock()
	if len(users) != 1 || users[0] != (syncevent.UserCreated{ID: 42, Name: "alice"}) {
		t.Fatalf("applied = %+v", users)
	}

	invalidate := dynamicpb.NewMessage(messages.ByName("InvalidateToken"))
	invalidate.Set(invalidate.Descriptor().Fields().ByName("session_id"), protoreflect.ValueOfString("sess-123"))
	invalidated := dynamicpb.NewMessage(messages.ByName("TokenInvalidated"))
	if err := conn.Invoke(ctx, usersyncv1.UserSyncService_BlockSession_FullMethodName, invalidate, invalidated); err != nil {
		t.Fatalf("block session: %v", err)
	}
	if !invalidated.Get(invalidated.Descriptor().Fields().ByName("success")).Bool() {
		t.Fatal("expected success=true")
	}
	applier.mu.Lock()
	sessions := applier.sessions
	applier.mu.Unlock()
	if len(sessions) != 1 || sessions[0].SessionID != "sess-123" {
		t.Fatalf("applied = %+v", sessions)
	}
}
