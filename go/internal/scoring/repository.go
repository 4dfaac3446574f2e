package scoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/sqlutil"
)

// Repository handles weekly actuals, weekly scores and standings queries
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new scoring repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// UpsertWeeklyActual writes one player's week, replacing an earlier sync.
func (r *Repository) UpsertWeeklyActual(ctx context.Context, p WeeklyActualParams, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weekly_actuals (id, player_id, espn_id, season, week, fantasy_points, stats, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id, season, week) DO UPDATE SET
			espn_id = EXCLUDED.espn_id,
			fantasy_points = EXCLUDED.fantasy_points,
			stats = EXCLUDED.stats,
			updated_at = EXCLUDED.updated_at`,
		uuid.New(), p.PlayerID, p.ESPNID, p.Season, p.Week, p.FantasyPoints,
		sqlutil.ToNullRawMessage(p.Stats), at,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weekly actual: %w", err)
	}
	return nil
}

// GetWeeklyActual returns nil when the player has no actuals for the week.
func (r *Repository) GetWeeklyActual(ctx context.Context, playerID uuid.UUID, season, week int) (*models.WeeklyActual, error) {
	var (
		a     models.WeeklyActual
		stats pqtype.NullRawMessage
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, player_id, espn_id, season, week, fantasy_points, stats, updated_at
		FROM weekly_actuals
		WHERE player_id = $1 AND season = $2 AND week = $3`,
		playerID, season, week,
	).Scan(&a.ID, &a.PlayerID, &a.ESPNID, &a.Season, &a.Week, &a.FantasyPoints, &stats, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly actual: %w", err)
	}
	if raw := sqlutil.FromNullRawMessage(stats); raw != nil {
		if err := json.Unmarshal(raw, &a.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode weekly actual stats: %w", err)
		}
	}
	return &a, nil
}

// UpsertWeeklyProjection stores a player's projection for a week and makes
// it the player's current projection.
func (r *Repository) UpsertWeeklyProjection(ctx context.Context, p WeeklyProjectionParams, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		WITH stored AS (
			INSERT INTO weekly_projections (player_id, season, week, projected_points, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (player_id, season, week) DO UPDATE SET
				projected_points = EXCLUDED.projected_points,
				updated_at = EXCLUDED.updated_at
		)
		UPDATE players SET projected_points = $4, projections_updated_at = $5 WHERE id = $1`,
		p.PlayerID, p.Season, p.Week, p.ProjectedPoints, at,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weekly projection: %w", err)
	}
	return nil
}

// UpsertWeeklyScore credits a roster entry for a playoff week.
func (r *Repository) UpsertWeeklyScore(ctx context.Context, rosterEntryID uuid.UUID, week int, points float64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weekly_scores (id, roster_entry_id, week, points, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (roster_entry_id, week) DO UPDATE SET
			points = EXCLUDED.points,
			updated_at = EXCLUDED.updated_at`,
		uuid.New(), rosterEntryID, week, points, at,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weekly score: %w", err)
	}
	return nil
}

// ListParticipantTotals sums weekly scores for every participant holding
// an active season in year. Participants without scores total zero.
func (r *Repository) ListParticipantTotals(ctx context.Context, year int) ([]ParticipantTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(ws.points), 0)
		FROM seasons s
		JOIN participants p ON p.id = s.participant_id
		LEFT JOIN roster_entries re ON re.season_id = s.id
		LEFT JOIN weekly_scores ws ON ws.roster_entry_id = re.id
		WHERE s.year = $1 AND s.is_active
		GROUP BY p.id, p.name
		ORDER BY 3 DESC, p.name`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participant totals: %w", err)
	}
	defer rows.Close()

	var out []ParticipantTotal
	for rows.Next() {
		var t ParticipantTotal
		if err := rows.Scan(&t.ParticipantID, &t.ParticipantName, &t.TotalPoints); err != nil {
			return nil, fmt.Errorf("failed to scan participant total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEntryWeekPoints returns the weekly score rows behind one
// participant's roster for year.
func (r *Repository) ListEntryWeekPoints(ctx context.Context, participantID uuid.UUID, year int) ([]EntryWeekPoints, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ws.roster_entry_id, ws.week, ws.points
		FROM weekly_scores ws
		JOIN roster_entries re ON re.id = ws.roster_entry_id
		JOIN seasons s ON s.id = re.season_id
		WHERE re.participant_id = $1 AND s.year = $2
		ORDER BY ws.roster_entry_id, ws.week`,
		participantID, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly scores: %w", err)
	}
	defer rows.Close()

	var out []EntryWeekPoints
	for rows.Next() {
		var w EntryWeekPoints
		if err := rows.Scan(&w.RosterEntryID, &w.Week, &w.Points); err != nil {
			return nil, fmt.Errorf("failed to scan weekly score: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
