package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS local_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS completions (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		user_type    TEXT NOT NULL CHECK(user_type IN ('student','teacher')),
		saved        INTEGER NOT NULL DEFAULT 0,
		error        TEXT NOT NULL DEFAULT '',
		completed_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completions_user ON completions(user_id, completed_at)`,
}
