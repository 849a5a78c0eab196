package store

import (
	"context"
	"database/sql"
	"fmt"

	"vigilant-console/core/utils"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		roles TEXT NOT NULL DEFAULT '[]',
		bank_id INTEGER,
		token_blob BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen_at);`,
	`CREATE TABLE IF NOT EXISTS workspace_state (
		session_id TEXT PRIMARY KEY,
		incident_id INTEGER NOT NULL,
		assignment_id INTEGER,
		bank_id INTEGER,
		segment_id INTEGER,
		acceptance_status TEXT NOT NULL DEFAULT '',
		incident_status TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL,
		FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);`,
}

func ApplyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration #%d failed: %w", i+1, err)
		}
	}
	post := []func(context.Context, *sql.DB) error{
		ensureSessionColumns,
	}
	for _, fn := range post {
		if err := fn(ctx, db); err != nil {
			return err
		}
	}
	if logger != nil {
		logger.Printf("migrations applied")
	}
	return nil
}

func ensureSessionColumns(ctx context.Context, db *sql.DB) error {
	cols := map[string]string{
		"bank_id": "ALTER TABLE sessions ADD COLUMN bank_id INTEGER",
	}
	for column, stmt := range cols {
		exists, err := columnExists(ctx, db, "sessions", column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
