package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath is the marker for a non-persistent in-memory store.
const MemoryPath = ":memory:"

// defaultDBPath is used when no path is configured.
const defaultDBPath = "data/lifeos.db"

// DB represents the single shared database connection.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the SQLite database at the resolved path and brings
// it to the current schema. The connection is configured for WAL journaling
// with a bounded busy wait, so concurrent callers block briefly on the write
// lock instead of failing immediately.
func Open(rawPath string, logger *slog.Logger) (*DB, error) {
	dbPath := ResolvePath(rawPath, logger)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &Error{Code: StorageInit, Message: "failed to open database", cause: err}
	}

	// The shared handle must stay a single connection: in-memory stores are
	// per-connection, and the pragmas below are connection-scoped.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, &Error{Code: StorageInit, Message: "failed to set pragma", cause: err}
		}
	}

	db := &DB{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, &Error{Code: StorageInit, Message: "failed to initialize schema", cause: err}
	}

	logger.Info("SQLite ready", "path", dbPath)
	return db, nil
}

// ResolvePath resolves the configured database path. The fallback chain
// degrades persistence rather than availability: an unusable directory falls
// back to ~/.lifeos, and an unusable home falls back to the in-memory store.
func ResolvePath(rawPath string, logger *slog.Logger) string {
	value := rawPath
	if value == "" {
		value = defaultDBPath
	}

	if value == MemoryPath {
		return MemoryPath
	}

	if !filepath.IsAbs(value) {
		if abs, err := filepath.Abs(value); err == nil {
			value = abs
		}
	}

	if err := os.MkdirAll(filepath.Dir(value), 0755); err == nil {
		return value
	} else {
		logger.Warn("could not create sqlite directory",
			"dir", filepath.Dir(value),
			"error", err.Error(),
		)
	}

	if home, err := os.UserHomeDir(); err == nil {
		fallback := filepath.Join(home, ".lifeos", "lifeos.db")
		if mkErr := os.MkdirAll(filepath.Dir(fallback), 0755); mkErr == nil {
			logger.Warn("falling back to home directory database", "path", fallback)
			return fallback
		}
	}

	logger.Warn("falling back to in-memory SQLite")
	return MemoryPath
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the resolved database path
func (db *DB) Path() string {
	return db.dbPath
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Exec executes a statement without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// Lazy initializes the shared connection exactly once on first Acquire.
// Losers of a concurrent first call wait for the winner and share its handle
// (or its error); later calls return the cached result immediately.
type Lazy struct {
	path   string
	logger *slog.Logger

	once sync.Once
	db   *DB
	err  error
}

// NewLazy creates a Lazy gate for the configured path.
func NewLazy(path string, logger *slog.Logger) *Lazy {
	return &Lazy{path: path, logger: logger}
}

// Acquire returns the shared handle, opening it on first use.
func (l *Lazy) Acquire() (*DB, error) {
	l.once.Do(func() {
		l.db, l.err = Open(l.path, l.logger)
	})
	if l.err != nil {
		return nil, fmt.Errorf("storage unavailable: %w", l.err)
	}
	return l.db, nil
}

// Close closes the handle if it was ever opened.
func (l *Lazy) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}
