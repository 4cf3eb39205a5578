package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Store owns the schema and the connection pool for all local state. Every
// operation checks a connection out of the pool for its own statements only;
// no connection or transaction is held across calls.
type Store struct {
	db *sql.DB
}

func NewStore(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "knowdock.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate is idempotent: additive CREATE TABLE IF NOT EXISTS only, no schema
// version column, no down-migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		source TEXT,
		resource_type TEXT,
		cover_url TEXT,
		description TEXT,
		added_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS extensions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		version TEXT,
		author TEXT,
		description TEXT,
		enabled INTEGER DEFAULT 1,
		installed_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS extension_settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		extension_name TEXT NOT NULL UNIQUE,
		cache_enabled INTEGER DEFAULT 1,
		cache_max_results INTEGER DEFAULT 100,
		cache_ttl_hours INTEGER DEFAULT 24,
		last_sync TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS search_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		extension_name TEXT NOT NULL,
		query TEXT NOT NULL,
		results_json TEXT,
		cached_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP,
		UNIQUE(extension_name, query)
	);

	CREATE TABLE IF NOT EXISTS user_library (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		author TEXT,
		extension_name TEXT,
		status TEXT DEFAULT 'unread',
		progress_percent INTEGER DEFAULT 0,
		date_added TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		date_started TIMESTAMP,
		date_completed TIMESTAMP,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id TEXT NOT NULL,
		title TEXT NOT NULL,
		file_path TEXT NOT NULL UNIQUE,
		extension_name TEXT,
		downloaded_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		file_size INTEGER,
		status TEXT DEFAULT 'completed'
	);

	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		status TEXT DEFAULT 'active',
		created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS project_resources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		resource_url TEXT NOT NULL,
		resource_title TEXT NOT NULL,
		status TEXT DEFAULT 'to_read',
		added_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		UNIQUE(project_id, resource_url)
	);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		color TEXT DEFAULT '#3b82f6',
		created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS resource_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tag_id INTEGER NOT NULL,
		resource_url TEXT NOT NULL,
		added_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE,
		UNIQUE(tag_id, resource_url)
	);

	CREATE TABLE IF NOT EXISTS annotations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		resource_url TEXT NOT NULL,
		note_text TEXT,
		highlight_text TEXT,
		created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_source ON bookmarks(source);
	CREATE INDEX IF NOT EXISTS idx_search_cache_expiry ON search_cache(expires_at);
	CREATE INDEX IF NOT EXISTS idx_library_status ON user_library(status);
	CREATE INDEX IF NOT EXISTS idx_annotations_url ON annotations(resource_url);
	`

	_, err := s.db.Exec(schema)
	return err
}

// DB exposes the underlying pool for tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// isConstraintErr reports whether err is a sqlite uniqueness or foreign-key
// violation, which callers generally treat as benign.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

func nullableTime(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}
