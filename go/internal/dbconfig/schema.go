package dbconfig

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

// Schema is the full Postgres schema of the pool.
//
//go:embed schema.sql
var Schema string

// ApplySchema creates any missing tables and indexes. Every statement is
// idempotent.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
