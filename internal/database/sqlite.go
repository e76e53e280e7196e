// Package database provides read-only access to the note application's
// SQLite store: connection opening with restrictive flags, catalog
// enumeration, and the query gateway that layers the normalized views over
// the versioned physical schema.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// bearDatabaseRelPath is where Bear keeps its store, relative to the user's
// home directory.
const bearDatabaseRelPath = "Library/Group Containers/9K33E3U3T4.net.shinyfrog.bear/Application Data/database.sqlite"

// Config holds connection settings for the underlying store.
type Config struct {
	// Path is the on-disk database file
	Path string
	// BusyTimeoutMS is how long a reader waits on a writer's lock before
	// giving up (the owning application writes concurrently)
	BusyTimeoutMS int
	// MaxOpenConns caps the connection pool size
	MaxOpenConns int
}

// DefaultPath resolves Bear's database location under the current user's
// home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to locate home directory: %w", err)
	}
	return filepath.Join(home, bearDatabaseRelPath), nil
}

// Open opens the database with default settings. See OpenConfig.
func Open(path string) (*sql.DB, error) {
	return OpenConfig(Config{Path: path})
}

// OpenConfig opens the database strictly read-only. The store is owned and
// mutated by another process, so the connection never takes write locks:
// mode=ro at the VFS level and query_only at the SQLite level, plus a busy
// timeout to ride out the owner's write transactions.
func OpenConfig(cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg.Path = path
	}
	if cfg.BusyTimeoutMS <= 0 {
		cfg.BusyTimeoutMS = 5000
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 4
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)&_pragma=query_only(1)",
		cfg.Path, cfg.BusyTimeoutMS)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(30 * time.Second)

	return db, nil
}
