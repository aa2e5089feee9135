package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	authv1 "github.com/louisbranch/bookshelf/api/gen/go/auth/v1"
	usersyncv1 "github.com/louisbranch/bookshelf/api/gen/go/usersync/v1"
	platformgrpc "github.com/louisbranch/bookshelf/internal/platform/grpc"
	"github.com/louisbranch/bookshelf/internal/platform/sessiontoken"
	"github.com/louisbranch/bookshelf/internal/services/shared/serviceauth"
	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
	"google.golang.org/grpc"
)

var (
	sessionKey   = strings.Repeat("k", sessiontoken.MinKeyLength)
	sharedSecret = strings.Repeat("s", serviceauth.MinSecretLength)
)

func startServer(t *testing.T, cfg Config) string {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	if cfg.DBPath == "" && cfg.DatabaseURL == "" {
		cfg.DBPath = filepath.Join(t.TempDir(), "auth.db")
	}
	srv, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return srv.Addr()
}

func dial(t *testing.T, addr string, opts ...grpc.DialOption) *grpc.ClientConn {
	t.Helper()
	conn, err := platformgrpc.NewClient(addr, opts...)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := platformgrpc.WaitForHealth(ctx, conn, usersyncv1.UserSyncService_ServiceDesc.ServiceName, nil); err != nil {
		t.Fatalf("wait for health: %v", err)
	}
	return conn
}

func TestOpenSQLiteStoreInvalidDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("data"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := openSQLiteStore(filepath.Join(file, "auth.db")); err == nil {
		t.Fatal("expected error for invalid storage dir")
	}
}

func TestNewRejectsShortSecrets(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(context.Background(), Config{Addr: "127.0.0.1:0", DBPath: filepath.Join(dir, "a.db"), SessionKey: "short"}); err == nil {
		t.Fatal("expected short session key error")
	}
	if _, err := New(context.Background(), Config{Addr: "127.0.0.1:0", DBPath: filepath.Join(dir, "b.db"), SharedSecret: "short"}); err == nil {
		t.Fatal("expected short shared secret error")
	}
}

func TestSyncScenarioOverGRPC(t *testing.T) {
	addr := startServer(t, Config{SessionKey: sessionKey})
	conn := dial(t, addr)
	client := usersync.NewClient(usersyncv1.NewUserSyncServiceClient(conn))
	auth := authv1.NewAuthServiceClient(conn)
	ctx := context.Background()

	alice := usersync.UserCreated{ID: 42, Name: "alice"}
	if !client.SendUserCreated(ctx, alice) {
		t.Fatal("first delivery should succeed")
	}
	if !client.SendUserCreated(ctx, alice) {
		t.Fatal("duplicate delivery should succeed")
	}

	signer, err := sessiontoken.NewSigner([]byte(sessionKey), nil)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	token, _, err := signer.Issue("sess-123", "alice", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp, err := auth.CheckSession(ctx, &authv1.CheckSessionRequest{Token: token})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !resp.GetValid() || resp.GetUserId() != 42 {
		t.Fatalf("before block = %+v", resp)
	}

	if !client.BlockSession(ctx, "sess-123") {
		t.Fatal("block should succeed")
	}
	resp, err = auth.CheckSession(ctx, &authv1.CheckSessionRequest{Token: token})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetValid() {
		t.Fatal("expected session blocked")
	}
}

func TestRedisInvalidationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := startServer(t, Config{SessionKey: sessionKey, RedisAddr: mr.Addr(), InvalidationTTL: time.Minute})
	conn := dial(t, addr)
	client := usersync.NewClient(usersyncv1.NewUserSyncServiceClient(conn))

	if !client.BlockSession(context.Background(), "sess-9") {
		t.Fatal("block should succeed")
	}
	keys := mr.Keys()
	if len(keys) != 1 || !strings.HasSuffix(keys[0], "sess-9") {
		t.Fatalf("redis keys = %v", keys)
	}
	mr.FastForward(2 * time.Minute)
	if len(mr.Keys()) != 0 {
		t.Fatal("expected key to expire after ttl")
	}
}

func TestSharedSecretRequiredForSync(t *testing.T) {
	addr := startServer(t, Config{SharedSecret: sharedSecret})

	open := usersync.NewClient(usersyncv1.NewUserSyncServiceClient(dial(t, addr)))
	result := open.DeliverUserCreated(context.Background(), usersync.UserCreated{ID: 1, Name: "alice"})
	if result.Succeeded() || result.Outcome != usersync.OutcomeRejected {
		t.Fatalf("unauthenticated result = %+v", result)
	}

	issuer, err := serviceauth.NewIssuer([]byte(sharedSecret), "user", nil)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	authed := dial(t, addr, grpc.WithChainUnaryInterceptor(serviceauth.UnaryClientInterceptor(issuer)))
	client := usersync.NewClient(usersyncv1.NewUserSyncServiceClient(authed))
	if !client.SendUserCreated(context.Background(), usersync.UserCreated{ID: 1, Name: "alice"}) {
		t.Fatal("authenticated delivery should succeed")
	}
}
