// Package postgres provides a PostgreSQL-backed shadow user store for
// deployments that run more than one auth replica.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/storage/migrate"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage/postgres/migrations"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

// Store persists shadow users in PostgreSQL.
type Store struct {
	sqlDB *sql.DB
}

// Open connects to dsn and applies bundled migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate.Apply(ctx, sqlDB, migrate.Postgres, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ExistsByName reports whether a shadow user holds name.
func (s *Store) ExistsByName(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	var exists bool
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM shadow_users WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check shadow user: %w", err)
	}
	return exists, nil
}

// FindByName returns the shadow user holding name.
func (s *Store) FindByName(ctx context.Context, name string) (storage.ShadowUser, error) {
	if err := ctx.Err(); err != nil {
		return storage.ShadowUser{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ShadowUser{}, fmt.Errorf("storage is not configured")
	}
	var (
		u        storage.ShadowUser
		syncedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, synced_at FROM shadow_users WHERE name = $1`, name,
	).Scan(&u.ID, &u.Name, &syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ShadowUser{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.ShadowUser{}, fmt.Errorf("get shadow user: %w", err)
	}
	u.SyncedAt = time.UnixMilli(syncedAt).UTC()
	return u, nil
}

// Save inserts a shadow user. A taken id or name yields storage.ErrConflict.
func (s *Store) Save(ctx context.Context, u storage.ShadowUser) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if u.ID <= 0 {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO shadow_users (id, name, synced_at) VALUES ($1, $2, $3)`,
		u.ID, u.Name, u.SyncedAt.UTC().UnixMilli(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.Wrap(apperrors.CodeUserAlreadyExists, "save shadow user", err)
		}
		return fmt.Errorf("save shadow user: %w", err)
	}
	return nil
}

// DeleteByID removes a shadow user. Deleting a missing id is not an error.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM shadow_users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete shadow user: %w", err)
	}
	return nil
}

var _ storage.ShadowUserStore = (*Store)(nil)
