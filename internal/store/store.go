// Package store persists submission sessions and finished submissions in
// SQLite.
package store

import (
	"database/sql"
	"errors"

	_ "github.com/glebarez/go-sqlite"
)

// ErrSessionNotFound is returned for session ids with no stored state.
var ErrSessionNotFound = errors.New("session not found")

// Store wraps the database shared by the session and submission stores.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the database at dbPath and ensures the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite would otherwise report SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			use_case_name TEXT,
			bundle TEXT NOT NULL,
			submitted_at DATETIME
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Sessions returns the session store backed by s.
func (s *Store) Sessions() *SessionStore {
	return &SessionStore{DB: s.DB}
}

// Submissions returns the submission store backed by s.
func (s *Store) Submissions() *SubmissionStore {
	return &SubmissionStore{DB: s.DB}
}
