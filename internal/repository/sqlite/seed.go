package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDefaults inserts the bootstrap admin account and a sample product.
// INSERT OR IGNORE keeps reseeding on restart from duplicating rows. The
// admin password column holds the normalized encoding of "admin123".
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO users (id, name, email, password, version, created_at, updated_at)
VALUES (?, ?, ?, ?, 1, ?, ?)`,
		"admin-123", "admin", "admin@example.com", "V1ZkU2RHRlhOSGhOYWsw", now, now,
	)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO products (id, name, value, active, version, created_at, updated_at)
VALUES (?, ?, ?, ?, 1, ?, ?)`,
		"abcd1234-abcd-1234-abcd1234-abcd1234", "produto-1", 10.0, true, now, now,
	)
	if err != nil {
		return fmt.Errorf("seed sample product: %w", err)
	}

	return nil
}
