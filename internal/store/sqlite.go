package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	*repo

	db     *sqlx.DB
	path   string
	logger *slog.Logger
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used for recovery and migration messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *SQLiteStore) { s.logger = l }
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// any pending schema migrations. If the database cannot be opened, the
// file is deleted and recreated once; a second failure is reported as
// ErrUnrecoverable.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{path: dbPath, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := openDB(dbPath)
	if err == nil {
		s.attach(db)
		return s, nil
	}
	if dbPath == memoryPath {
		return nil, fmt.Errorf("%w: %v", ErrUnrecoverable, err)
	}

	s.logger.Warn("database failed to open, recreating",
		"path", dbPath, "error", err)
	if rmErr := removeDBFiles(dbPath); rmErr != nil {
		return nil, fmt.Errorf("%w: removing damaged database: %v", ErrUnrecoverable, rmErr)
	}

	db, err = openDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecoverable, err)
	}
	s.logger.Info("database recreated", "path", dbPath)
	s.attach(db)
	return s, nil
}

func (s *SQLiteStore) attach(db *sqlx.DB) {
	s.db = db
	s.repo = &repo{q: db}
}

// openDB opens the database, applies pragmas, and migrates it.
func openDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// SQLite serializes writers anyway, and a single connection keeps an
	// in-memory database alive and shared.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	var check string
	if err := db.Get(&check, "PRAGMA quick_check"); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking integrity: %w", err)
	}
	if check != "ok" {
		db.Close()
		return nil, fmt.Errorf("integrity check failed: %s", check)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// removeDBFiles deletes the database and its WAL side files.
func removeDBFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the file the store was opened from.
func (s *SQLiteStore) Path() string { return s.path }

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each in its own transaction.
func runMigrations(db *sqlx.DB) error {
	currentVersion, err := schemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func schemaVersion(db *sqlx.DB) (int, error) {
	var tableCount int
	err := db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return 0, fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount == 0 {
		return 0, nil
	}

	var version int
	if err := db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// InTx runs fn inside a transaction and commits if fn returns nil.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(Repo) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&repo{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ClearAll deletes every record in every collection.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	return s.InTx(ctx, func(r Repo) error {
		q := r.(*repo).q
		for _, table := range tables {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		return nil
	})
}

// Recreate drops every table and rebuilds the schema from scratch.
func (s *SQLiteStore) Recreate(ctx context.Context) error {
	s.logger.Warn("recreating database schema", "path", s.path)

	err := s.InTx(ctx, func(r Repo) error {
		q := r.(*repo).q
		for _, table := range append(tables, "schema_version") {
			if _, err := q.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
				return fmt.Errorf("dropping %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := runMigrations(s.db); err != nil {
		return fmt.Errorf("%w: %v", ErrUnrecoverable, err)
	}
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// repo implements Repo on top of a database handle or a transaction.
type repo struct {
	q queryer
}

// notFound converts sql.ErrNoRows into ErrNotFound.
func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("getting %s %s: %w", kind, id, err)
}

// checkAffected reports ErrNotFound when an update or delete matched no rows.
func checkAffected(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows for %s %s: %w", kind, id, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// encodeJSON marshals list and map columns. Nil slices are stored as [].
func encodeJSON(v interface{}, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

// decodeStrings unmarshals a JSON string list column.
func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// inPlaceholders returns "?, ?, ?" for n arguments.
func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
