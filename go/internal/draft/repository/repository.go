// Package repository is the Postgres implementation of the draft store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/draft"
	"github.com/mcdev12/playoffpool/go/internal/draft/events"
	"github.com/mcdev12/playoffpool/go/internal/draft/snake"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/participants"
	"github.com/mcdev12/playoffpool/go/internal/player"
	"github.com/mcdev12/playoffpool/go/internal/roster"
	"github.com/mcdev12/playoffpool/go/internal/seasons"
	"github.com/mcdev12/playoffpool/go/internal/sqlutil"
)

type Repository struct {
	conn *sql.DB // nil once bound to a transaction
	db   sqlutil.DBTX

	participants *participants.Repository
	seasons      *seasons.Repository
	players      *player.Repository
	roster       *roster.Repository
}

var _ draft.DraftRepository = (*Repository)(nil)

func NewRepository(conn *sql.DB) *Repository {
	return bind(conn, conn)
}

func bind(conn *sql.DB, db sqlutil.DBTX) *Repository {
	return &Repository{
		conn:         conn,
		db:           db,
		participants: participants.NewRepository(db),
		seasons:      seasons.NewRepository(db),
		players:      player.NewRepository(db),
		roster:       roster.NewRepository(db),
	}
}

// WithTx runs fn against a store bound to one transaction. Every
// repository fn touches shares it.
func (r *Repository) WithTx(ctx context.Context, fn func(tx draft.DraftStore) error) error {
	if r.conn == nil {
		return errors.New("nested draft transactions are not supported")
	}
	return sqlutil.Run(ctx, r.conn,
		func(tx *sql.Tx) *Repository { return bind(nil, tx) },
		func(q *Repository) error { return fn(q) },
	)
}

func (r *Repository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return r.participants.ListParticipants(ctx)
}

const draftColumns = `id, season_year, total_rounds, current_round, current_pick, is_complete, version, created_at, updated_at`

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return r.getDraft(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)
}

// GetDraftForUpdate holds the row lock until the transaction ends, so
// concurrent picks on one draft run one after another.
func (r *Repository) GetDraftForUpdate(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return r.getDraft(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1 FOR UPDATE`, id)
}

func (r *Repository) GetDraftBySeasonYear(ctx context.Context, year int) (*models.Draft, error) {
	return r.getDraft(ctx, `SELECT `+draftColumns+` FROM drafts WHERE season_year = $1`, year)
}

func (r *Repository) getDraft(ctx context.Context, query string, arg any) (*models.Draft, error) {
	var d models.Draft
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&d.ID, &d.SeasonYear, &d.TotalRounds, &d.CurrentRound, &d.CurrentPick,
		&d.IsComplete, &d.Version, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, draft.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &d, nil
}

func (r *Repository) CreateDraft(ctx context.Context, d models.Draft, order []models.DraftOrderEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, season_year, total_rounds, current_round, current_pick, is_complete, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.SeasonYear, d.TotalRounds, d.CurrentRound, d.CurrentPick, d.IsComplete, d.Version, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}

	for _, e := range order {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO draft_order (draft_id, participant_id, position) VALUES ($1, $2, $3)`,
			d.ID, e.ParticipantID, e.Position,
		); err != nil {
			return fmt.Errorf("failed to insert draft order position %d: %w", e.Position, err)
		}
	}
	return nil
}

// DeleteDraft removes the draft. Order and picks go with it.
func (r *Repository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return draft.ErrDraftNotFound
	}
	return nil
}

func (r *Repository) UpdateDraftState(ctx context.Context, id uuid.UUID, s snake.State, expectedVersion int, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE drafts
		SET current_round = $3, current_pick = $4, is_complete = $5, version = version + 1, updated_at = $6
		WHERE id = $1 AND version = $2`,
		id, expectedVersion, s.CurrentRound, s.CurrentPick, s.IsComplete, at,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return draft.ErrVersionConflict
	}
	return nil
}

func (r *Repository) ListDraftOrder(ctx context.Context, draftID uuid.UUID) ([]models.DraftOrderEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.draft_id, o.participant_id, p.name, o.position
		FROM draft_order o
		JOIN participants p ON p.id = o.participant_id
		WHERE o.draft_id = $1
		ORDER BY o.position`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft order: %w", err)
	}
	defer rows.Close()

	var order []models.DraftOrderEntry
	for rows.Next() {
		var e models.DraftOrderEntry
		if err := rows.Scan(&e.DraftID, &e.ParticipantID, &e.ParticipantName, &e.Position); err != nil {
			return nil, fmt.Errorf("failed to scan draft order: %w", err)
		}
		order = append(order, e)
	}
	return order, rows.Err()
}

func (r *Repository) ListDraftPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPickDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dp.id, dp.draft_id, dp.participant_id, dp.player_id, dp.round, dp.pick_in_round,
		       dp.pick_number, dp.is_override, dp.picked_at,
		       pa.name, pl.name, pl.position, pl.team
		FROM draft_picks dp
		JOIN participants pa ON pa.id = dp.participant_id
		JOIN players pl ON pl.id = dp.player_id
		WHERE dp.draft_id = $1
		ORDER BY dp.pick_number`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPickDetail
	for rows.Next() {
		var p models.DraftPickDetail
		if err := rows.Scan(
			&p.ID, &p.DraftID, &p.ParticipantID, &p.PlayerID, &p.Round, &p.PickInRound,
			&p.PickNumber, &p.IsOverride, &p.PickedAt,
			&p.ParticipantName, &p.PlayerName, &p.PlayerPosition, &p.PlayerTeam,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draft pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

func (r *Repository) IsPlayerPicked(ctx context.Context, draftID, playerID uuid.UUID) (bool, error) {
	var picked bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM draft_picks WHERE draft_id = $1 AND player_id = $2)`,
		draftID, playerID,
	).Scan(&picked)
	if err != nil {
		return false, fmt.Errorf("failed to check pick: %w", err)
	}
	return picked, nil
}

// InsertPick records p. The (draft, player) and (draft, pick number) unique
// keys back the engine's own checks.
func (r *Repository) InsertPick(ctx context.Context, p models.DraftPick) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO draft_picks (id, draft_id, participant_id, player_id, round, pick_in_round, pick_number, is_override, picked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.DraftID, p.ParticipantID, p.PlayerID, p.Round, p.PickInRound, p.PickNumber, p.IsOverride, p.PickedAt,
	)
	switch {
	case sqlutil.IsUniqueViolation(err, "draft_picks_draft_player_key"):
		return draft.ErrPlayerAlreadyDrafted
	case sqlutil.IsUniqueViolation(err, "draft_picks_draft_number_key"):
		return draft.ErrVersionConflict
	case err != nil:
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := r.players.GetPlayer(ctx, id)
	if errors.Is(err, player.ErrPlayerNotFound) {
		return nil, draft.ErrPlayerNotFound
	}
	return p, err
}

func (r *Repository) GetOrCreateSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error) {
	return r.seasons.GetOrCreateSeason(ctx, participantID, year)
}

// InsertRosterEntry surfaces a player already on the participant's season
// roster, typically from a direct add, as already drafted.
func (r *Repository) InsertRosterEntry(ctx context.Context, e models.RosterEntry) error {
	err := r.roster.InsertRosterEntry(ctx, e)
	if errors.Is(err, roster.ErrDuplicateRosterEntry) {
		return fmt.Errorf("%w: %s is already on the roster", draft.ErrPlayerAlreadyDrafted, e.PlayerName)
	}
	return err
}

func (r *Repository) DeleteRosterEntriesBySeasonYear(ctx context.Context, year int) (int64, error) {
	return r.roster.DeleteRosterEntriesBySeasonYear(ctx, year)
}

// InsertOutboxEvent writes the event and notifies the relay. The NOTIFY
// is delivered only if the surrounding transaction commits.
func (r *Repository) InsertOutboxEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	id := uuid.New()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO draft_outbox (id, draft_id, event_type, payload) VALUES ($1, $2, $3, $4)`,
		id, draftID, eventType, payload,
	); err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	if _, err := r.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, events.NotifyChannel, id.String()); err != nil {
		return fmt.Errorf("failed to notify outbox: %w", err)
	}
	return nil
}
