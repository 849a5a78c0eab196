package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// WorkspaceState is the per-session incident context. A mutation without a
// committed workspace row has no context to act on.
type WorkspaceState struct {
	SessionID        string    `json:"session_id"`
	IncidentID       int64     `json:"incident_id"`
	AssignmentID     *int64    `json:"assignment_id,omitempty"`
	BankID           *int64    `json:"bank_id,omitempty"`
	SegmentID        *int64    `json:"segment_id,omitempty"`
	AcceptanceStatus string    `json:"acceptance_status"`
	IncidentStatus   string    `json:"incident_status"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type WorkspaceStore interface {
	SaveWorkspace(ctx context.Context, state *WorkspaceState) error
	GetWorkspace(ctx context.Context, sessionID string) (*WorkspaceState, error)
	ClearWorkspace(ctx context.Context, sessionID string) error
}

type workspaceStore struct {
	db *sql.DB
}

func NewWorkspaceStore(db *sql.DB) WorkspaceStore {
	return &workspaceStore{db: db}
}

func (s *workspaceStore) SaveWorkspace(ctx context.Context, state *WorkspaceState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspace_state(session_id, incident_id, assignment_id, bank_id, segment_id, acceptance_status, incident_status, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			incident_id=excluded.incident_id,
			assignment_id=excluded.assignment_id,
			bank_id=excluded.bank_id,
			segment_id=excluded.segment_id,
			acceptance_status=excluded.acceptance_status,
			incident_status=excluded.incident_status,
			updated_at=excluded.updated_at`,
		state.SessionID, state.IncidentID, nullableInt64(state.AssignmentID),
		nullableInt64(state.BankID), nullableInt64(state.SegmentID),
		state.AcceptanceStatus, state.IncidentStatus, state.UpdatedAt)
	return err
}

func (s *workspaceStore) GetWorkspace(ctx context.Context, sessionID string) (*WorkspaceState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, incident_id, assignment_id, bank_id, segment_id, acceptance_status, incident_status, updated_at
		FROM workspace_state WHERE session_id = ?`, sessionID)
	var (
		state        WorkspaceState
		assignmentID sql.NullInt64
		bankID       sql.NullInt64
		segmentID    sql.NullInt64
	)
	err := row.Scan(&state.SessionID, &state.IncidentID, &assignmentID, &bankID, &segmentID,
		&state.AcceptanceStatus, &state.IncidentStatus, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if assignmentID.Valid {
		state.AssignmentID = &assignmentID.Int64
	}
	if bankID.Valid {
		state.BankID = &bankID.Int64
	}
	if segmentID.Valid {
		state.SegmentID = &segmentID.Int64
	}
	return &state, nil
}

func (s *workspaceStore) ClearWorkspace(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workspace_state WHERE session_id = ?`, sessionID)
	return err
}
