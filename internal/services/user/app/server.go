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

	userv1 "github.com/louisbranch/bookshelf/api/gen/go/user/v1"
	usersyncv1 "github.com/louisbranch/bookshelf/api/gen/go/usersync/v1"
	platformgrpc "github.com/louisbranch/bookshelf/internal/platform/grpc"
	"github.com/louisbranch/bookshelf/internal/platform/metrics"
	"github.com/louisbranch/bookshelf/internal/platform/sessiontoken"
	"github.com/louisbranch/bookshelf/internal/services/shared/serviceauth"
	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
	userservice "github.com/louisbranch/bookshelf/internal/services/user/api/grpc/user"
	usersqlite "github.com/louisbranch/bookshelf/internal/services/user/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// serviceName identifies the user service on issued service tokens.
const serviceName = "user"

// Config describes the user server's listener, store, and auth peer.
type Config struct {
	Addr   string
	DBPath string

	// AuthAddr is the auth service gRPC address receiving sync calls.
	AuthAddr string

	// SessionKey signs session tokens; StartSession is disabled when empty.
	SessionKey string
	SessionTTL time.Duration

	// SharedSecret authenticates sync calls when non-empty.
	SharedSecret string
	// SyncTimeout bounds each sync round trip.
	SyncTimeout time.Duration

	// Registerer receives sync metrics; nil disables registration.
	Registerer prometheus.Registerer
}

// Server hosts the user service.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	authConn   *grpc.ClientConn
	closers    []func() error
}

// New creates a configured user server.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Server{}
	fail := func(err error) (*Server, error) {
		s.Close()
		return nil, err
	}

	store, err := openSQLiteStore(cfg.DBPath)
	if err != nil {
		return fail(err)
	}
	s.closers = append(s.closers, store.Close)

	var tokens userservice.TokenIssuer
	if strings.TrimSpace(cfg.SessionKey) != "" {
		signer, err := sessiontoken.NewSigner([]byte(cfg.SessionKey), nil)
		if err != nil {
			return fail(err)
		}
		tokens = signer
	} else {
		log.Printf("warning: session key not set; StartSession is disabled")
	}

	syncMetrics, err := metrics.NewSync(cfg.Registerer)
	if err != nil {
		return fail(err)
	}
	syncer, err := s.dialAuth(cfg, syncMetrics)
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

	s.grpcServer = grpc.NewServer(platformgrpc.DefaultServerOptions()...)
	userv1.RegisterUserServiceServer(s.grpcServer, userservice.NewUserService(
		store, tokens, syncer, userservice.WithSessionTTL(cfg.SessionTTL),
	))
	s.health = platformgrpc.RegisterHealth(s.grpcServer, userv1.UserService_ServiceDesc.ServiceName)
	return s, nil
}

// dialAuth builds the sync client. A nil syncer is returned when no auth
// address is configured, leaving local writes unsynced.
func (s *Server) dialAuth(cfg Config, syncMetrics *metrics.Sync) (userservice.Syncer, error) {
	authAddr := strings.TrimSpace(cfg.AuthAddr)
	if authAddr == "" {
		log.Printf("warning: auth address not set; user changes will not be synced")
		return nil, nil
	}

	var dialOpts []grpc.DialOption
	if strings.TrimSpace(cfg.SharedSecret) != "" {
		issuer, err := serviceauth.NewIssuer([]byte(cfg.SharedSecret), serviceName, nil)
		if err != nil {
			return nil, err
		}
		dialOpts = append(dialOpts, grpc.WithChainUnaryInterceptor(serviceauth.UnaryClientInterceptor(issuer)))
	} else {
		log.Printf("warning: sync shared secret not set; sync calls are unauthenticated")
	}

	conn, err := platformgrpc.NewClient(authAddr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial auth: %w", err)
	}
	s.authConn = conn
	s.closers = append(s.closers, conn.Close)

	clientOpts := []usersync.ClientOption{usersync.WithMetrics(syncMetrics)}
	if cfg.SyncTimeout > 0 {
		clientOpts = append(clientOpts, usersync.WithTimeout(cfg.SyncTimeout))
	}
	return usersync.NewClient(usersyncv1.NewUserSyncServiceClient(conn), clientOpts...), nil
}

func openSQLiteStore(path string) (*usersqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join("data", "user.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := usersqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open user sqlite store: %w", err)
	}
	return store, nil
}

// Addr returns the listener address for the user server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a user server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the user server and blocks until it stops or the context ends.
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

	if s.authConn != nil {
		go func() {
			err := platformgrpc.WaitForHealth(serverCtx, s.authConn, usersyncv1.UserSyncService_ServiceDesc.ServiceName, nil)
			if err != nil {
				log.Printf("auth sync service not ready: %v", err)
				return
			}
			log.Printf("auth sync service is serving")
		}()
	}

	log.Printf("user server listening at %v", s.listener.Addr())
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

// Close releases user server resources.
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
			log.Printf("close user resource: %v", err)
		}
	}
	s.closers = nil
}
