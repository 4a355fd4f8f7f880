// Package store owns the single embedded-sqlite connection behind the
// vault. It handles schema creation and connection lifecycle only; it has
// no encryption awareness — every protected column already holds a sealed
// envelope by the time it reaches this layer.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/logging"
	"github.com/dmitrijs2005/fortvault/internal/vault/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Store wraps one sqlite connection, opened once per unlock. Exactly one
// handle may be open per Store; Open on an already-open store is a no-op so
// a retried unlock never leaves a half-initialized handle behind.
type Store struct {
	mu     sync.Mutex
	path   string
	db     *sql.DB
	logger logging.Logger
}

// New returns an unopened Store bound to the given database path.
func New(path string, logger logging.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Open opens the sqlite database and applies pending schema migrations.
// It is idempotent: calling Open on an already-open store returns nil.
// On any failure the handle is torn down so Open can be retried safely.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", common.ErrStorageFailure, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: failed to run migrations: %v", common.ErrStorageFailure, err)
	}

	s.db = db
	s.logger.Info(ctx, "vault store opened", "path", s.path)
	return nil
}

// Close releases the connection. It is idempotent and safe to call on a
// store that was never opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("%w: failed to close database: %v", common.ErrStorageFailure, err)
	}
	return nil
}

// DB returns the open connection, or ErrStoreClosed when the vault is
// locked. Repositories must not retain the returned handle across calls.
func (s *Store) DB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, common.ErrStoreClosed
	}
	return s.db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
