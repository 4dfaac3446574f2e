package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/dbconfig"
)

// setupDatabase opens Postgres and, with DB_APPLY_SCHEMA=true, applies the
// bundled schema. The schema is idempotent.
func setupDatabase(ctx context.Context) (*sql.DB, error) {
	cfg := dbconfig.NewConfigFromEnv()

	database, err := dbconfig.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if getEnvAsBool("DB_APPLY_SCHEMA", false) {
		if err := dbconfig.ApplySchema(ctx, database); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		log.Info().Msg("applied database schema")
	}

	log.Info().
		Str("user", cfg.User).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")
	return database, nil
}
