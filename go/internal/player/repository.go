package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/sqlutil"
)

// Repository handles all player-related database operations
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new player repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const playerColumns = `id, espn_id, name, position, team, is_eligible, metadata, projected_points, projections_updated_at, created_at, updated_at`

// GetPlayer retrieves a player by ID
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// SearchPlayers matches query against name, team and position
func (r *Repository) SearchPlayers(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE ($1 = '' OR name ILIKE $2 OR team ILIKE $2 OR position ILIKE $2)
		  AND (NOT $3 OR is_eligible)
		ORDER BY name
		LIMIT $4`,
		req.Query, likePattern(req.Query), req.EligibleOnly, req.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return collectPlayers(rows)
}

// ListAvailablePlayers returns eligible players without a pick in draftID
func (r *Repository) ListAvailablePlayers(ctx context.Context, req ListAvailableRequest) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players p
		WHERE p.is_eligible
		  AND ($2 = '' OR p.name ILIKE $3 OR p.team ILIKE $3 OR p.position ILIKE $3)
		  AND NOT EXISTS (
			SELECT 1 FROM draft_picks dp WHERE dp.draft_id = $1 AND dp.player_id = p.id
		  )
		ORDER BY p.name
		LIMIT $4`,
		req.DraftID, req.Query, likePattern(req.Query), req.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	return collectPlayers(rows)
}

// UpsertPlayer inserts or refreshes a catalog row. It reports whether the
// row was created. Existing eligibility is kept unless p.Eligible is set.
func (r *Repository) UpsertPlayer(ctx context.Context, p UpsertPlayerParams) (*models.Player, bool, error) {
	if p.ESPNID != nil {
		return r.upsertByESPNID(ctx, p)
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE players
		SET position = $3, is_eligible = COALESCE($4, is_eligible), updated_at = now()
		WHERE name = $1 AND team = $2
		RETURNING `+playerColumns,
		p.Name, p.Team, p.Position, nullBool(p.Eligible),
	)
	existing, err := scanPlayer(row)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to update player: %w", err)
	}

	row = r.db.QueryRowContext(ctx, `
		INSERT INTO players (id, name, position, team, is_eligible, metadata)
		VALUES ($1, $2, $3, $4, COALESCE($5, TRUE), $6)
		RETURNING `+playerColumns,
		uuid.New(), p.Name, p.Position, p.Team, nullBool(p.Eligible), sqlutil.ToNullRawMessage(p.Metadata),
	)
	created, err := scanPlayer(row)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert player: %w", err)
	}
	return created, true, nil
}

func (r *Repository) upsertByESPNID(ctx context.Context, p UpsertPlayerParams) (*models.Player, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO players (id, espn_id, name, position, team, is_eligible, metadata)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, TRUE), $7)
		ON CONFLICT (espn_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			team = EXCLUDED.team,
			is_eligible = COALESCE($6, players.is_eligible),
			metadata = COALESCE(EXCLUDED.metadata, players.metadata),
			updated_at = now()
		RETURNING `+playerColumns+`, (xmax = 0)`,
		uuid.New(), *p.ESPNID, p.Name, p.Position, p.Team, nullBool(p.Eligible), sqlutil.ToNullRawMessage(p.Metadata),
	)

	var inserted bool
	player, err := scanPlayerWith(row, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert player: %w", err)
	}
	return player, inserted, nil
}

// SetTeamEligibility flags every player on the given teams
func (r *Repository) SetTeamEligibility(ctx context.Context, teams []string, eligible bool) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET is_eligible = $2, updated_at = now() WHERE team = ANY($1)`,
		pq.Array(teams), eligible,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to set team eligibility: %w", err)
	}
	return res.RowsAffected()
}

// SetAllEligibility flags the whole catalog
func (r *Repository) SetAllEligibility(ctx context.Context, eligible bool) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET is_eligible = $1, updated_at = now()`, eligible)
	if err != nil {
		return 0, fmt.Errorf("failed to set eligibility: %w", err)
	}
	return res.RowsAffected()
}

func (r *Repository) TogglePlayerEligibility(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE players SET is_eligible = NOT is_eligible, updated_at = now()
		WHERE id = $1
		RETURNING `+playerColumns, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle eligibility: %w", err)
	}
	return p, nil
}

func (r *Repository) EligibilityStats(ctx context.Context) (*EligibilityStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT team, count(*), count(*) FILTER (WHERE is_eligible)
		FROM players
		GROUP BY team
		ORDER BY team`)
	if err != nil {
		return nil, fmt.Errorf("failed to read eligibility stats: %w", err)
	}
	defer rows.Close()

	stats := &EligibilityStats{}
	for rows.Next() {
		var t TeamEligible
		if err := rows.Scan(&t.Team, &t.Total, &t.Eligible); err != nil {
			return nil, fmt.Errorf("failed to scan eligibility stats: %w", err)
		}
		stats.Total += t.Total
		stats.Eligible += t.Eligible
		stats.ByTeam = append(stats.ByTeam, t)
	}
	return stats, rows.Err()
}

// ListPlayersWithESPNID returns every player that can be matched to box scores
func (r *Repository) ListPlayersWithESPNID(ctx context.Context) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE espn_id IS NOT NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return collectPlayers(rows)
}

func likePattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

type scanner interface {
	Scan(dest ...any) error
}

func collectPlayers(rows *sql.Rows) ([]models.Player, error) {
	defer rows.Close()
	var out []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPlayer(row scanner) (*models.Player, error) {
	return scanPlayerWith(row)
}

func scanPlayerWith(row scanner, extra ...any) (*models.Player, error) {
	var (
		p           models.Player
		espnID      sql.NullString
		metadata    pqtype.NullRawMessage
		projected   sql.NullFloat64
		projectedAt sql.NullTime
	)
	dest := append([]any{
		&p.ID, &espnID, &p.Name, &p.Position, &p.Team, &p.IsEligible, &metadata,
		&projected, &projectedAt, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.ESPNID = sqlutil.FromSqlStringPtr(espnID)
	p.Metadata = sqlutil.FromNullRawMessage(metadata)
	if projected.Valid {
		p.ProjectedPoints = &projected.Float64
	}
	if projectedAt.Valid {
		p.ProjectionsUpdatedAt = &projectedAt.Time
	}
	return &p, nil
}
