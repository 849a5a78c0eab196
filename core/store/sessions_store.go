package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var ErrConflict = errors.New("conflict")

// SessionRecord is the persisted console session. TokenBlob is the platform
// bearer token sealed by utils.Encryptor; nothing in this table is usable
// against the platform without the key.
type SessionRecord struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Roles      []string  `json:"roles"`
	BankID     *int64    `json:"bank_id,omitempty"`
	TokenBlob  []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

type SessionStore interface {
	SaveSession(ctx context.Context, rec *SessionRecord) error
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error
	UpdateActivity(ctx context.Context, id string, seenAt time.Time) error
	DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error)
	ListSessions(ctx context.Context) ([]SessionRecord, error)
}

type sessionsStore struct {
	db *sql.DB
}

func NewSessionsStore(db *sql.DB) SessionStore {
	return &sessionsStore{db: db}
}

// SaveSession commits the whole session in one statement, so the token and
// the user identity land together or not at all.
func (s *sessionsStore) SaveSession(ctx context.Context, rec *SessionRecord) error {
	roles, err := json.Marshal(rec.Roles)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions(id, user_id, email, first_name, last_name, roles, bank_id, token_blob, created_at, last_seen_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id=excluded.user_id,
			email=excluded.email,
			first_name=excluded.first_name,
			last_name=excluded.last_name,
			roles=excluded.roles,
			bank_id=excluded.bank_id,
			token_blob=excluded.token_blob,
			last_seen_at=excluded.last_seen_at`,
		rec.ID, rec.UserID, rec.Email, rec.FirstName, rec.LastName, string(roles),
		nullableInt64(rec.BankID), rec.TokenBlob, rec.CreatedAt, rec.LastSeenAt)
	return err
}

func (s *sessionsStore) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, email, first_name, last_name, roles, bank_id, token_blob, created_at, last_seen_at
		FROM sessions WHERE id = ?`, id)
	var (
		rec    SessionRecord
		roles  string
		bankID sql.NullInt64
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Email, &rec.FirstName, &rec.LastName,
		&roles, &bankID, &rec.TokenBlob, &rec.CreatedAt, &rec.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(roles), &rec.Roles); err != nil {
		rec.Roles = nil
	}
	if bankID.Valid {
		rec.BankID = &bankID.Int64
	}
	return &rec, nil
}

// DeleteSession is idempotent. Deleting a session that is already gone is
// success, not an error.
func (s *sessionsStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (s *sessionsStore) UpdateActivity(ctx context.Context, id string, seenAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET last_seen_at = ? WHERE id = ?`, seenAt, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *sessionsStore) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_seen_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sessionsStore) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, email, first_name, last_name, roles, bank_id, token_blob, created_at, last_seen_at
		FROM sessions ORDER BY last_seen_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SessionRecord
	for rows.Next() {
		var (
			rec    SessionRecord
			roles  string
			bankID sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Email, &rec.FirstName, &rec.LastName,
			&roles, &bankID, &rec.TokenBlob, &rec.CreatedAt, &rec.LastSeenAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(roles), &rec.Roles); err != nil {
			rec.Roles = nil
		}
		if bankID.Valid {
			rec.BankID = &bankID.Int64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
