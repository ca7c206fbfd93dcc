package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DatabaseFileName is the file name of the dataset database inside the
// data directory.
const DatabaseFileName = "frostpress.db"

// Store provides SQLite-based storage for an imported dataset.
// It manages connection pooling and provides methods for the import
// writes and the read queries of the build and fetch phases.
//
// Design decision: We use a single database file per dataset rather
// than separate files per subreddit. This keeps cross-subreddit
// queries (front page, user pages, statistics) simple and makes a
// dataset a single portable artifact.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options suitable for the build and fetch
// phases, which must never create an empty database by accident.
func ReadOnlyOptions() Options {
	return Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at dbDir/frostpress.db.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, DatabaseFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run the import command first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses a query-string connection format.
	// mode=rw prevents creating new files; mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; funneling everything through a
	// single connection avoids SQLITE_BUSY during import batches.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path of the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// DB exposes the underlying connection for read-only aggregate queries
// (see the stats package). Callers must not execute writes through it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Subreddits seen during import
	CREATE TABLE IF NOT EXISTS subreddits (
		name TEXT PRIMARY KEY,
		subscribers INTEGER NOT NULL DEFAULT 0
	);

	-- Users seen during import (post and comment authors)
	CREATE TABLE IF NOT EXISTS users (
		name TEXT PRIMARY KEY,
		created_utc INTEGER NOT NULL DEFAULT 0
	);

	-- Posts store one row per submission
	CREATE TABLE IF NOT EXISTS posts (
		uid INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		subreddit TEXT NOT NULL,
		selftext TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		num_comments INTEGER NOT NULL DEFAULT 0,
		created_utc INTEGER NOT NULL DEFAULT 0,
		permalink TEXT NOT NULL DEFAULT '',
		post_hint TEXT NOT NULL DEFAULT '',
		poll_data TEXT NOT NULL DEFAULT '',
		is_self INTEGER NOT NULL DEFAULT 0,
		edited INTEGER NOT NULL DEFAULT 0,
		over_18 INTEGER NOT NULL DEFAULT 0,
		locked INTEGER NOT NULL DEFAULT 0,
		link_flair_text TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit, score);
	CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author, score);
	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_utc);

	-- Comments store one row per comment, keyed back to posts by the
	-- short reddit id rather than the surrogate uid so that comment
	-- dumps can be imported before, after, or without their post dump
	CREATE TABLE IF NOT EXISTS comments (
		uid INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		post_id TEXT NOT NULL,
		parent_id TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL,
		subreddit TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		created_utc INTEGER NOT NULL DEFAULT 0,
		distinguished TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
	CREATE INDEX IF NOT EXISTS idx_comments_author ON comments(author, created_utc);

	-- Media catalog maintained by the fetch phase; one row per
	-- download attempt, aliases point at the canonical row
	CREATE TABLE IF NOT EXISTS media_files (
		uid INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		url_hash TEXT NOT NULL UNIQUE,
		content_hash TEXT NOT NULL DEFAULT '',
		mimetype TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		downloaded INTEGER NOT NULL DEFAULT 0,
		alias_of INTEGER NOT NULL DEFAULT 0,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		taken_at TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_media_content ON media_files(content_hash);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}
