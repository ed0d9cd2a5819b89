package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: one rating per party per request.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_request_from
	     ON ratings(request_id, from_user_id)`,
	// Migration 2: lookup indexes for the listing endpoints.
	`CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_item ON requests(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_requester ON requests(requester_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_to_user ON ratings(to_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user
	     ON notifications(user_id, created_at DESC)`,
}

// Migrate creates the schema and applies every migration.
func Migrate(db *sqlx.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
