// Package auth parses auth command flags and launches the auth runtime.
package auth

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/bookshelf/internal/platform/cmd"
	server "github.com/louisbranch/bookshelf/internal/services/auth/app"
	"github.com/louisbranch/bookshelf/internal/services/auth/shadow"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds auth command configuration.
type Config struct {
	Port            int           `env:"BOOKSHELF_AUTH_PORT" envDefault:"8083"`
	DBPath          string        `env:"BOOKSHELF_AUTH_DB_PATH" envDefault:"data/auth.db"`
	DatabaseURL     string        `env:"BOOKSHELF_AUTH_DATABASE_URL"`
	NATSURL         string        `env:"BOOKSHELF_AUTH_NATS_URL"`
	InvalidationTTL time.Duration `env:"BOOKSHELF_SESSION_INVALIDATION_TTL" envDefault:"1h"`
	SweepInterval   time.Duration `env:"BOOKSHELF_AUTH_SWEEP_INTERVAL" envDefault:"1m"`
	SessionKey      string        `env:"BOOKSHELF_SESSION_KEY"`
	SharedSecret    string        `env:"BOOKSHELF_SYNC_SHARED_SECRET"`
	MetricsAddr     string        `env:"BOOKSHELF_AUTH_METRICS_ADDR"`
	RedisAddr       string        `env:"BOOKSHELF_AUTH_REDIS_ADDR"`
	RedisPassword   string        `env:"BOOKSHELF_AUTH_REDIS_PASSWORD"`
	RedisDB         int           `env:"BOOKSHELF_AUTH_REDIS_DB" envDefault:"0"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Port, "port", cfg.Port, "The auth gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite shadow user store path")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL URL for the shadow user store (overrides -db-path)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the session invalidation store")
	fs.StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL, "NATS URL for applied-event notifications")
	fs.DurationVar(&cfg.InvalidationTTL, "invalidation-ttl", cfg.InvalidationTTL, "How long invalidated sessions are remembered")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "The Prometheus metrics HTTP address")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.InvalidationTTL <= 0 {
		return Config{}, fmt.Errorf("invalidation ttl must be positive")
	}
	return cfg, nil
}

// Run starts the auth runtime.
func Run(ctx context.Context, cfg Config) error {
	options := entrypoint.RunOptions{MetricsAddr: cfg.MetricsAddr, Gatherer: prometheus.DefaultGatherer}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceAuth, options, func(ctx context.Context) error {
		return server.Run(ctx, serverConfig(cfg))
	})
}

func serverConfig(cfg Config) server.Config {
	ttl := cfg.InvalidationTTL
	if ttl <= 0 {
		ttl = shadow.DefaultInvalidationTTL
	}
	return server.Config{
		Addr:            fmt.Sprintf(":%d", cfg.Port),
		DBPath:          cfg.DBPath,
		DatabaseURL:     cfg.DatabaseURL,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		NATSURL:         cfg.NATSURL,
		InvalidationTTL: ttl,
		SweepInterval:   cfg.SweepInterval,
		SessionKey:      cfg.SessionKey,
		SharedSecret:    cfg.SharedSecret,
		Registerer:      prometheus.DefaultRegisterer,
	}
}
