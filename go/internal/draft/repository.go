package draft

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/playoffpool/go/internal/draft/snake"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

// DraftStore is the storage the engine runs against. Lookups of a missing
// draft return ErrDraftNotFound and of a missing player ErrPlayerNotFound.
// InsertPick returns ErrPlayerAlreadyDrafted when (draft, player) exists.
type DraftStore interface {
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	// GetDraftForUpdate reads the draft and locks it for the rest of the transaction.
	GetDraftForUpdate(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetDraftBySeasonYear(ctx context.Context, year int) (*models.Draft, error)
	CreateDraft(ctx context.Context, d models.Draft, order []models.DraftOrderEntry) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	// UpdateDraftState writes s only if the row is still at expectedVersion,
	// otherwise it returns ErrVersionConflict.
	UpdateDraftState(ctx context.Context, id uuid.UUID, s snake.State, expectedVersion int, at time.Time) error

	ListDraftOrder(ctx context.Context, draftID uuid.UUID) ([]models.DraftOrderEntry, error)
	ListDraftPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPickDetail, error)
	IsPlayerPicked(ctx context.Context, draftID, playerID uuid.UUID) (bool, error)
	InsertPick(ctx context.Context, p models.DraftPick) error

	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetOrCreateSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error)
	InsertRosterEntry(ctx context.Context, e models.RosterEntry) error
	DeleteRosterEntriesBySeasonYear(ctx context.Context, year int) (int64, error)

	InsertOutboxEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error
}

// DraftRepository adds transactions to DraftStore. Nothing written through
// the tx store is visible to other callers unless fn returns nil.
type DraftRepository interface {
	DraftStore
	WithTx(ctx context.Context, fn func(tx DraftStore) error) error
}
