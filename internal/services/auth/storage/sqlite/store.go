package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"github.com/louisbranch/bookshelf/internal/platform/storage/migrate"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage"
	"github.com/louisbranch/bookshelf/internal/services/auth/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store persists shadow users in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := migrate.Apply(context.Background(), sqlDB, migrate.SQLite, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite database.
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

	var one int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM shadow_users WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check shadow user: %w", err)
	}
	return true, nil
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
		`SELECT id, name, synced_at FROM shadow_users WHERE name = ?`, name,
	).Scan(&u.ID, &u.Name, &syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ShadowUser{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.ShadowUser{}, fmt.Errorf("get shadow user: %w", err)
	}
	u.SyncedAt = fromMillis(syncedAt)
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
		`INSERT INTO shadow_users (id, name, synced_at) VALUES (?, ?, ?)`,
		u.ID, u.Name, toMillis(u.SyncedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
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
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM shadow_users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete shadow user: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.ShadowUserStore = (*Store)(nil)
