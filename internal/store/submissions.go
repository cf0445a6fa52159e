package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
)

// Record is a stored submission.
type Record struct {
	ID          int64             `json:"id"`
	SessionID   string            `json:"sessionId"`
	UseCaseName string            `json:"useCaseName"`
	Bundle      submission.Bundle `json:"bundle"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// SubmissionStore records finished submissions. It is a submission.Sink.
type SubmissionStore struct {
	DB *sql.DB
}

var _ submission.Sink = (*SubmissionStore)(nil)

// Submit stores b.
func (s *SubmissionStore) Submit(ctx context.Context, b submission.Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	query := `INSERT INTO submissions (session_id, use_case_name, bundle, submitted_at) VALUES (?, ?, ?, ?)`
	_, err = s.DB.ExecContext(ctx, query, b.SessionID, b.Fields.UseCaseName, string(data), b.SubmittedAt.UTC())
	if err != nil {
		return fmt.Errorf("store submission: %w", err)
	}
	return nil
}

// List returns up to limit submissions, newest first.
func (s *SubmissionStore) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, session_id, use_case_name, bundle FROM submissions ORDER BY id DESC LIMIT ?`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var raw string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.UseCaseName, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &r.Bundle); err != nil {
			return nil, fmt.Errorf("decode submission %d: %w", r.ID, err)
		}
		r.SubmittedAt = r.Bundle.SubmittedAt
		records = append(records, r)
	}
	return records, rows.Err()
}
