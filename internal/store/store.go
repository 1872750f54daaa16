// Package store keeps benchmark runs in a SQLite database so sweeps can be
// compared across machines and builds.
package store

import (
	"database/sql"
	_ "embed"

	"github.com/gravitational/trace"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite backed archive of benchmark runs.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
//
// The database runs in WAL mode with a single connection, since SQLite
// only supports one writer at a time.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, trace.Wrap(err, "failed to open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, trace.ConnectionProblem(err, "failed to connect to database %v", path)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, trace.Wrap(err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, trace.Wrap(err, "failed to apply schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return trace.Wrap(s.db.Close())
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return trace.Wrap(err, "failed to execute %q", pragma)
		}
	}
	return nil
}
