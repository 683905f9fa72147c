package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS boards (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	url           TEXT NOT NULL,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	topics        TEXT NOT NULL DEFAULT '[]',
	content_types TEXT NOT NULL DEFAULT '[]',
	use_cases     TEXT NOT NULL DEFAULT '[]',
	tags          TEXT NOT NULL DEFAULT '[]',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	use_count     INTEGER NOT NULL DEFAULT 0,
	last_used     TEXT
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT
);`

// OpenDatabase opens (creating if needed) a SQLite database and applies the catalog schema
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, &StorageError{Path: path, Op: "mkdir", Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	// one writer, and :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	if err := MigrateCatalog(db); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "migrate", Err: err}
	}
	return db, nil
}

// MigrateCatalog creates the catalog tables if they do not exist
func MigrateCatalog(db *sql.DB) error {
	if _, err := db.Exec(catalogSchema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}
