// Package user parses user command flags and launches the user runtime.
package user

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/bookshelf/internal/platform/cmd"
	"github.com/louisbranch/bookshelf/internal/platform/discovery"
	"github.com/louisbranch/bookshelf/internal/platform/timeouts"
	server "github.com/louisbranch/bookshelf/internal/services/user/app"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds user command configuration.
type Config struct {
	Port         int           `env:"BOOKSHELF_USER_PORT" envDefault:"8092"`
	DBPath       string        `env:"BOOKSHELF_USER_DB_PATH" envDefault:"data/user.db"`
	AuthAddr     string        `env:"BOOKSHELF_USER_AUTH_ADDR"`
	SessionKey   string        `env:"BOOKSHELF_SESSION_KEY"`
	SessionTTL   time.Duration `env:"BOOKSHELF_SESSION_TTL" envDefault:"1h"`
	SharedSecret string        `env:"BOOKSHELF_SYNC_SHARED_SECRET"`
	SyncTimeout  time.Duration `env:"BOOKSHELF_USER_SYNC_TIMEOUT"`
	MetricsAddr  string        `env:"BOOKSHELF_USER_METRICS_ADDR"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.AuthAddr = discovery.OrDefaultGRPCAddr(cfg.AuthAddr, discovery.ServiceAuth)
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = timeouts.SyncRequest
	}

	fs.IntVar(&cfg.Port, "port", cfg.Port, "The user gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite user store path")
	fs.StringVar(&cfg.AuthAddr, "auth-addr", cfg.AuthAddr, "The auth gRPC server address")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "The session token lifetime")
	fs.DurationVar(&cfg.SyncTimeout, "sync-timeout", cfg.SyncTimeout, "The user sync round trip timeout")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "The Prometheus metrics HTTP address")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the user runtime.
func Run(ctx context.Context, cfg Config) error {
	options := entrypoint.RunOptions{MetricsAddr: cfg.MetricsAddr, Gatherer: prometheus.DefaultGatherer}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceUser, options, func(ctx context.Context) error {
		return server.Run(ctx, serverConfig(cfg))
	})
}

func serverConfig(cfg Config) server.Config {
	return server.Config{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		DBPath:       cfg.DBPath,
		AuthAddr:     cfg.AuthAddr,
		SessionKey:   cfg.SessionKey,
		SessionTTL:   cfg.SessionTTL,
		SharedSecret: cfg.SharedSecret,
		SyncTimeout:  cfg.SyncTimeout,
		Registerer:   prometheus.DefaultRegisterer,
	}
}
