package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/playoffpool/go/internal/dbconfig"
	"github.com/mcdev12/playoffpool/go/internal/player"
)

const defaultPath = "go/internal/assets/players.csv"

const upsertByESPNID = `
    INSERT INTO players (id, espn_id, name, position, team, is_eligible)
    VALUES ($1, $2, $3, $4, $5, COALESCE($6, TRUE))
    ON CONFLICT (espn_id) DO UPDATE
       SET name = EXCLUDED.name,
           position = EXCLUDED.position,
           team = EXCLUDED.team,
           is_eligible = COALESCE($6, players.is_eligible),
           updated_at = now()`

// Rows without an ESPN id are matched on name and team.
const insertByName = `
    INSERT INTO players (id, name, position, team, is_eligible)
    SELECT $1, $2, $3, $4, COALESCE($5, TRUE)
     WHERE NOT EXISTS (SELECT 1 FROM players WHERE name = $2 AND team = $4)`

func main() {
	ctx := context.Background()

	// 1) Parse the players file
	path := defaultPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	format, err := player.FormatFromPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "players file: %v\n", err)
		os.Exit(1)
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	players, err := player.ParseFile(f, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", path, err)
		os.Exit(1)
	}

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Seed players in one batch
	batch := &pgx.Batch{}
	for _, p := range players {
		if p.ESPNID != nil {
			batch.Queue(upsertByESPNID, uuid.New(), *p.ESPNID, p.Name, p.Position, p.Team, p.Eligible)
		} else {
			batch.Queue(insertByName, uuid.New(), p.Name, p.Position, p.Team, p.Eligible)
		}
	}

	results := pool.SendBatch(ctx, batch)
	written, skipped, errs := 0, 0, 0
	for _, p := range players {
		tag, err := results.Exec()
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "seed %q: %v\n", p.Name, err)
			errs++
		case tag.RowsAffected() == 0:
			skipped++
		default:
			written++
		}
	}
	if err := results.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close batch: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Players: total=%d written=%d skipped=%d errors=%d\n", len(players), written, skipped, errs)
	if errs > 0 {
		os.Exit(1)
	}
}
