// Package sqlite provides SQLite database operations for the questions forum.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/thebtf/questions/internal/db"
)

// DefaultBusyTimeoutMs is how long SQLite waits on a locked database file.
const DefaultBusyTimeoutMs = 5000

// Store is the forum's database connection with prepared statement caching.
// It holds a single open connection, so all queries run one at a time.
type Store struct {
	db        *sql.DB
	stmtCache map[string]*sql.Stmt
	stmtMu    sync.RWMutex
}

var _ db.Connection = (*Store)(nil)

// StoreConfig holds configuration for the database store.
type StoreConfig struct {
	Path          string
	BusyTimeoutMs int
	WALMode       bool
	// SkipMigrations leaves the schema untouched, for databases managed elsewhere.
	SkipMigrations bool
}

// NewStore opens the database file and applies pending migrations.
func NewStore(cfg StoreConfig) (*Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	database, err := sql.Open("sqlite", buildDSN(path, cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection: serializes access and keeps in-memory databases shared.
	database.SetMaxOpenConns(1)
	database.SetMaxIdleConns(1)
	database.SetConnMaxLifetime(0)

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{
		db:        database,
		stmtCache: make(map[string]*sql.Stmt),
	}

	if !cfg.SkipMigrations {
		mgr := NewMigrationManager(database)
		if err := mgr.RunMigrations(); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	log.Debug().Str("path", path).Bool("wal", cfg.WALMode).Msg("Opened questions database")
	return store, nil
}

// buildDSN turns a file path into a modernc.org/sqlite URI with pragmas.
func buildDSN(path string, cfg StoreConfig) string {
	busy := cfg.BusyTimeoutMs
	if busy <= 0 {
		busy = DefaultBusyTimeoutMs
	}

	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		if path != ":memory:" {
			dsn = filepath.ToSlash(path)
		}
		dsn = "file:" + dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)" + fmt.Sprintf("&_pragma=busy_timeout(%d)", busy)
	if cfg.WALMode {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	return dsn
}

// ErrStoreClosed is returned by a Store after Close.
var ErrStoreClosed = errors.New("questions store is closed")

// Close closes the cached statements, then the database.
func (s *Store) Close() error {
	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()

	for _, stmt := range s.stmtCache {
		_ = stmt.Close()
	}
	log.Debug().Int("statements", len(s.stmtCache)).Msg("Closing questions database")
	s.stmtCache = nil

	return s.db.Close()
}

func (s *Store) closed() bool {
	s.stmtMu.RLock()
	defer s.stmtMu.RUnlock()
	return s.stmtCache == nil
}

// GetStmt returns the prepared statement for query, preparing it on first use.
func (s *Store) GetStmt(query string) (*sql.Stmt, error) {
	s.stmtMu.RLock()
	stmt, ok := s.stmtCache[query]
	s.stmtMu.RUnlock()
	if ok {
		return stmt, nil
	}

	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()

	if s.stmtCache == nil {
		return nil, ErrStoreClosed
	}
	// Another caller may have prepared it between the two locks.
	if stmt, ok := s.stmtCache[query]; ok {
		return stmt, nil
	}

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare forum query: %w", err)
	}
	s.stmtCache[query] = stmt
	log.Debug().Int("cached", len(s.stmtCache)).Msg("Prepared forum query")
	return stmt, nil
}

// ExecContext runs an insert, update or schema statement.
// A query that cannot be prepared is sent to the driver unprepared, which
// reports the underlying error (missing table, constraint, closed database).
func (s *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := s.GetStmt(query)
	if err != nil {
		return s.db.ExecContext(ctx, query, args...)
	}
	return stmt.ExecContext(ctx, args...)
}

// QueryContext runs a query returning forum rows. The caller closes the rows.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmt, err := s.GetStmt(query)
	if err != nil {
		return s.db.QueryContext(ctx, query, args...)
	}
	return stmt.QueryContext(ctx, args...)
}

// QueryRowContext runs a query expected to return at most one row.
func (s *Store) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	stmt, err := s.GetStmt(query)
	if err != nil {
		return s.db.QueryRowContext(ctx, query, args...)
	}
	return stmt.QueryRowContext(ctx, args...)
}

// Ping reports whether the database is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.closed() {
		return ErrStoreClosed
	}
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for schema work and pool statistics.
func (s *Store) DB() *sql.DB {
	return s.db
}
