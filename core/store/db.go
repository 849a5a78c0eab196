package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"vigilant-console/config"
	"vigilant-console/core/utils"

	_ "modernc.org/sqlite"
)

// NewDB opens the console's embedded sqlite database, creating the parent
// directory on first run.
func NewDB(cfg *config.AppConfig, logger *utils.Logger) (*sql.DB, error) {
	path := cfg.DBPath
	if path == "" {
		path = "data/console.db"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	if logger != nil {
		logger.Printf("sqlite opened at %s", path)
	}
	return db, nil
}
