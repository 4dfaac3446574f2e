package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/sqlutil"
)

// Repository handles roster entry persistence
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new roster repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const entryColumns = `re.id, re.participant_id, re.season_id, re.player_id, re.pick_id,
	re.player_name, re.player_position, re.player_team, re.acquisition_type, re.acquired_at`

// InsertRosterEntry appends e. A second entry for the same player in the
// same season fails with ErrDuplicateRosterEntry.
func (r *Repository) InsertRosterEntry(ctx context.Context, e models.RosterEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roster_entries (
			id, participant_id, season_id, player_id, pick_id,
			player_name, player_position, player_team, acquisition_type, acquired_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.ParticipantID, e.SeasonID, e.PlayerID, sqlutil.ToNullUUID(e.PickID),
		e.PlayerName, e.PlayerPosition, e.PlayerTeam, string(e.AcquisitionType), e.AcquiredAt,
	)
	if sqlutil.IsUniqueViolation(err, "roster_entries_season_player_key") {
		return ErrDuplicateRosterEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert roster entry: %w", err)
	}
	return nil
}

func (r *Repository) GetRosterEntry(ctx context.Context, id uuid.UUID) (*models.RosterEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM roster_entries re WHERE re.id = $1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRosterEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roster entry: %w", err)
	}
	return e, nil
}

// ListRoster returns a participant's entries for a season year in
// acquisition order.
func (r *Repository) ListRoster(ctx context.Context, participantID uuid.UUID, year int) ([]models.RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM roster_entries re
		JOIN seasons s ON s.id = re.season_id
		WHERE re.participant_id = $1 AND s.year = $2
		ORDER BY re.acquired_at, re.id`,
		participantID, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return collectEntries(rows)
}

// ListRosterEntriesBySeasonYear returns every entry in an active season of year.
func (r *Repository) ListRosterEntriesBySeasonYear(ctx context.Context, year int) ([]models.RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM roster_entries re
		JOIN seasons s ON s.id = re.season_id
		WHERE s.year = $1 AND s.is_active
		ORDER BY re.participant_id, re.acquired_at`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list season roster entries: %w", err)
	}
	return collectEntries(rows)
}

func (r *Repository) DeleteRosterEntry(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roster_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete roster entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRosterEntryNotFound
	}
	return nil
}

// DeleteRosterEntriesBySeasonYear clears every participant's roster for year.
func (r *Repository) DeleteRosterEntriesBySeasonYear(ctx context.Context, year int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM roster_entries
		WHERE season_id IN (SELECT id FROM seasons WHERE year = $1)`, year)
	if err != nil {
		return 0, fmt.Errorf("failed to delete roster entries: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func collectEntries(rows *sql.Rows) ([]models.RosterEntry, error) {
	defer rows.Close()
	var out []models.RosterEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEntry(row scanner) (*models.RosterEntry, error) {
	var (
		e       models.RosterEntry
		pickID  uuid.NullUUID
		acqType string
	)
	if err := row.Scan(
		&e.ID, &e.ParticipantID, &e.SeasonID, &e.PlayerID, &pickID,
		&e.PlayerName, &e.PlayerPosition, &e.PlayerTeam, &acqType, &e.AcquiredAt,
	); err != nil {
		return nil, err
	}
	e.PickID = sqlutil.FromNullUUID(pickID)
	e.AcquisitionType = models.AcquisitionType(acqType)
	return &e, nil
}
