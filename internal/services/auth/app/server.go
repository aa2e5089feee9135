package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	authv1 "github.com/louisbranch/bookshelf/api/gen/go/auth/v1"
	usersyncv1 "github.com/louisbranch/bookshelf/api/gen/go/usersync/v1"
	platformgrpc "github.com/louisbranch/bookshelf/internal/platform/grpc"
	"github.com/louisbranch/bookshelf/internal/platform/metrics"
	"github.com/louisbranch/bookshelf/internal/platform/sessiontoken"
	authservice "github.com/louisbranch/bookshelf/internal/services/auth/api/grpc/auth"
	syncservice "github.com/louisbranch/bookshelf/internal/services/auth/api/grpc/usersync"
	"github.com/louisbranch/bookshelf/internal/services/auth/events"
	"github.com/louisbranch/bookshelf/internal/services/auth/shadow"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage/memory"
	authpostgres "github.com/louisbranch/bookshelf/internal/services/auth/storage/postgres"
	authredis "github.com/louisbranch/bookshelf/internal/services/auth/storage/redis"
	authsqlite "github.com/louisbranch/bookshelf/internal/services/auth/storage/sqlite"
	"github.com/louisbranch/bookshelf/internal/services/shared/serviceauth"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// DefaultSweepInterval is how often the in-memory invalidation store drops
// expired entries.
const DefaultSweepInterval = time.Minute

// Config describes the auth server's listener, stores, and credentials.
type Config struct {
	Addr string
	// DBPath is the SQLite file used when DatabaseURL is empty.
	DBPath      string
	DatabaseURL string

	// RedisAddr selects the Redis invalidation store when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// NATSURL enables applied-event fan-out when non-empty.
	NATSURL string

	InvalidationTTL time.Duration
	SweepInterval   time.Duration

	// SessionKey verifies session tokens issued by the user service.
	SessionKey string
	// SharedSecret requires service tokens on sync calls when non-empty.
	SharedSecret string

	// Registerer receives sync metrics; nil disables registration.
	Registerer prometheus.Registerer
}

// Server hosts the auth service.
type Server struct {
	listener      net.Listener
	grpcServer    *grpc.Server
	health        *health.Server
	sweeper       *memory.InvalidationStore
	sweepInterval time.Duration
	closers       []func() error
}

// New creates a configured auth server.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Server{sweepInterval: cfg.SweepInterval}
	if s.sweepInterval <= 0 {
		s.sweepInterval = DefaultSweepInterval
	}
	fail := func(err error) (*Server, error) {
		s.Close()
		return nil, err
	}

	users, err := s.openUserStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	sessions, err := s.openInvalidationStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	applierOpts := []shadow.Option{shadow.WithInvalidationTTL(cfg.InvalidationTTL)}
	if strings.TrimSpace(cfg.NATSURL) != "" {
		publisher, err := events.Connect(cfg.NATSURL, "auth")
		if err != nil {
			return fail(err)
		}
		s.closers = append(s.closers, func() error { publisher.Close(); return nil })
		applierOpts = append(applierOpts, shadow.WithPublisher(publisher))
	}

	var tokens authservice.TokenParser
	if strings.TrimSpace(cfg.SessionKey) != "" {
		signer, err := sessiontoken.NewSigner([]byte(cfg.SessionKey), nil)
		if err != nil {
			return fail(err)
		}
		tokens = signer
	} else {
		log.Printf("warning: session key not set; CheckSession is disabled")
	}

	var serverOpts []grpc.ServerOption
	if strings.TrimSpace(cfg.SharedSecret) != "" {
		verifier, err := serviceauth.NewVerifier([]byte(cfg.SharedSecret), nil)
		if err != nil {
			return fail(err)
		}
		serverOpts = append(serverOpts, grpc.ChainUnaryInterceptor(
			serviceauth.UnaryServerInterceptor(verifier, "/"+usersyncv1.UserSyncService_ServiceDesc.ServiceName+"/"),
		))
	} else {
		log.Printf("warning: sync shared secret not set; UserSyncService accepts unauthenticated calls")
	}

	syncMetrics, err := metrics.NewSync(cfg.Registerer)
	if err != nil {
		return fail(err)
	}

	addr := cfg.Addr
	if strings.TrimSpace(addr) == "" {
		addr = ":0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fail(fmt.Errorf("listen on %s: %w", addr, err))
	}
	s.listener = listener

	s.grpcServer = grpc.NewServer(platformgrpc.DefaultServerOptions(serverOpts...)...)
	applier := shadow.NewApplier(users, sessions, applierOpts...)
	usersyncv1.RegisterUserSyncServiceServer(s.grpcServer, syncservice.NewService(applier, syncMetrics))
	authv1.RegisterAuthServiceServer(s.grpcServer, authservice.NewAuthService(tokens, sessions, users))
	s.health = platformgrpc.RegisterHealth(s.grpcServer,
		usersyncv1.UserSyncService_ServiceDesc.ServiceName,
		authv1.AuthService_ServiceDesc.ServiceName,
	)
	return s, nil
}

func (s *Server) openUserStore(ctx context.Context, cfg Config) (storage.ShadowUserStore, error) {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		store, err := authpostgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open auth postgres store: %w", err)
		}
		s.closers = append(s.closers, store.Close)
		return store, nil
	}
	store, err := openSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, store.Close)
	return store, nil
}

func (s *Server) openInvalidationStore(ctx context.Context, cfg Config) (storage.InvalidationStore, error) {
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		client, err := authredis.NewClient(ctx, authredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		return authredis.NewInvalidationStore(client, nil), nil
	}
	store := memory.NewInvalidationStore(nil)
	s.sweeper = store
	return store, nil
}

func openSQLiteStore(path string) (*authsqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join("data", "auth.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := authsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open auth sqlite store: %w", err)
	}
	return store, nil
}

// Addr returns the listener address for the auth server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an auth server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the auth server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.Close()

	if s.sweeper != nil {
		s.sweeper.StartSweep(serverCtx, s.sweepInterval)
	}

	log.Printf("auth server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// Close releases auth server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Printf("close auth resource: %v", err)
		}
	}
	s.closers = nil
}
