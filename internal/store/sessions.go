package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
)

// SessionStore keeps one submission state per session id.
type SessionStore struct {
	DB *sql.DB
}

// Create stores a new empty state under a fresh id.
func (s *SessionStore) Create(ctx context.Context) (*submission.State, error) {
	state := submission.NewState(uuid.NewString())
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	query := `INSERT INTO sessions (id, state) VALUES (?, ?)`
	if _, err := s.DB.ExecContext(ctx, query, state.ID, string(data)); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return state, nil
}

// Get loads the state of session id.
func (s *SessionStore) Get(ctx context.Context, id string) (*submission.State, error) {
	query := `SELECT state FROM sessions WHERE id = ?`
	var raw string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var state submission.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	state.ID = id
	state.EnsureDefaults()
	return &state, nil
}

// Save overwrites the stored state of an existing session.
func (s *SessionStore) Save(ctx context.Context, state *submission.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	query := `UPDATE sessions SET state = ?, updated_at = datetime('now') WHERE id = ?`
	res, err := s.DB.ExecContext(ctx, query, string(data), state.ID)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, state.ID)
	}
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = ?`
	_, err := s.DB.ExecContext(ctx, query, id)
	return err
}
