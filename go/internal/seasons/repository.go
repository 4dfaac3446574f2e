package seasons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/sqlutil"
)

// ErrSeasonNotFound is returned when no season matches.
var ErrSeasonNotFound = errors.New("season not found")

type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const seasonColumns = `id, participant_id, year, is_active, created_at`

// GetOrCreateSeason returns the participant's season for year, creating it
// if needed. Concurrent callers converge on the same row.
func (r *Repository) GetOrCreateSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO seasons (id, participant_id, year, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (participant_id, year) DO UPDATE SET year = EXCLUDED.year
		RETURNING `+seasonColumns,
		uuid.New(), participantID, year,
	)
	s, err := scanSeason(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create season: %w", err)
	}
	return s, nil
}

func (r *Repository) GetSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+seasonColumns+` FROM seasons WHERE participant_id = $1 AND year = $2`,
		participantID, year,
	)
	s, err := scanSeason(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeasonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return s, nil
}

func (r *Repository) ListSeasonsByYear(ctx context.Context, year int) ([]models.Season, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seasonColumns+` FROM seasons WHERE year = $1 ORDER BY created_at`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()

	var out []models.Season
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSeason(row scanner) (*models.Season, error) {
	var s models.Season
	if err := row.Scan(&s.ID, &s.ParticipantID, &s.Year, &s.IsActive, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
