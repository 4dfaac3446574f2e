package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEventNotFound means the row does not exist, was already sent, or is
// locked by another relay.
var ErrEventNotFound = errors.New("outbox event not found or already sent")

// OutboxEvent is one row of draft_outbox.
type OutboxEvent struct {
	ID        uuid.UUID       `json:"id"`
	DraftID   uuid.UUID       `json:"draft_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// Publisher delivers an event downstream. Publish must be idempotent per
// event id since a crash between publish and MarkSent replays the row.
type Publisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}

// Store reads and acknowledges outbox rows.
type Store interface {
	// FetchUnsent locks up to limit unsent rows, oldest first, skipping
	// rows another relay holds.
	FetchUnsent(ctx context.Context, limit int) ([]OutboxEvent, error)
	FetchByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) error
	CountPending(ctx context.Context) (int, error)
}

// TxStore runs Store calls in one transaction so row locks are held
// until the batch is marked sent.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
