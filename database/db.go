package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// CurrentSchemaVersion is the schema version this build creates and expects.
const CurrentSchemaVersion = 1

var (
	// ErrNotFound is returned by point lookups that match no row.
	ErrNotFound = errors.New("record not found")

	// ErrSchemaTooNew means the file was written by a newer build.
	ErrSchemaTooNew = errors.New("database schema is newer than this build")
)

type DB struct {
	*sql.DB
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Cascading deletes depend on this
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// NewMemory opens a private in-memory database. A single connection is kept
// so every query sees the same data.
func NewMemory() (*DB, error) {
	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Migrate() error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	if version > CurrentSchemaVersion {
		return fmt.Errorf("found version %d, want %d: %w", version, CurrentSchemaVersion, ErrSchemaTooNew)
	}
	if version == CurrentSchemaVersion {
		return nil
	}

	queries := []string{
		// Lists table
		`CREATE TABLE IF NOT EXISTS market_lists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,

		// Stores per list
		`CREATE TABLE IF NOT EXISTS list_stores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			list_id INTEGER NOT NULL,
			store_name TEXT NOT NULL,
			name_key TEXT NOT NULL,
			FOREIGN KEY (list_id) REFERENCES market_lists(id) ON DELETE CASCADE
		)`,

		// Items per store
		`CREATE TABLE IF NOT EXISTS list_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			list_id INTEGER NOT NULL,
			store_id INTEGER NOT NULL,
			product_name TEXT NOT NULL,
			name_key TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
			FOREIGN KEY (list_id) REFERENCES market_lists(id) ON DELETE CASCADE,
			FOREIGN KEY (store_id) REFERENCES list_stores(id) ON DELETE CASCADE
		)`,

		// Favorite stores, independent of lists
		`CREATE TABLE IF NOT EXISTS favorite_stores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			name_key TEXT NOT NULL
		)`,

		// Indexes for lookups
		`CREATE INDEX IF NOT EXISTS idx_market_lists_created ON market_lists(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_list_stores_list ON list_stores(list_id, name_key)`,
		`CREATE INDEX IF NOT EXISTS idx_list_items_list ON list_items(list_id)`,
		`CREATE INDEX IF NOT EXISTS idx_list_items_store ON list_items(store_id, name_key)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_favorite_stores_name ON favorite_stores(name_key)`,
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer tx.Rollback()

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
		CurrentSchemaVersion, time.Now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// SchemaVersion returns the highest applied schema version, 0 for a fresh file.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("check schema version: %w", err)
	}
	return version, nil
}

// Repository returns a query layer bound to the database connection pool.
func (db *DB) Repository() *Repository {
	return NewRepository(db.DB)
}

// WithTx runs fn against a Repository bound to a single transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(*Repository) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(NewRepository(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
