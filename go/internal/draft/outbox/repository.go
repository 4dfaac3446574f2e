package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mcdev12/playoffpool/go/internal/sqlutil"
)

// Repository is the Postgres Store.
type Repository struct {
	conn *sql.DB
	db   sqlutil.DBTX
}

var _ TxStore = (*Repository)(nil)

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{conn: conn, db: conn}
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if r.conn == nil {
		return errors.New("outbox repository is already inside a transaction")
	}
	return sqlutil.Run(ctx, r.conn,
		func(tx *sql.Tx) *Repository { return &Repository{db: tx} },
		func(q *Repository) error { return fn(q) },
	)
}

const eventColumns = `id, draft_id, event_type, payload, created_at, sent_at`

func (r *Repository) FetchUnsent(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM draft_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM draft_outbox
		WHERE id = $1 AND sent_at IS NULL
		FOR UPDATE SKIP LOCKED`,
		id,
	)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

func (r *Repository) MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE draft_outbox SET sent_at = $2 WHERE id = ANY($1::uuid[])`,
		pq.StringArray(strs), at,
	); err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}

func (r *Repository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draft_outbox WHERE sent_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending outbox events: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*OutboxEvent, error) {
	var (
		e       OutboxEvent
		payload []byte
		sentAt  sql.NullTime
	)
	if err := row.Scan(&e.ID, &e.DraftID, &e.EventType, &payload, &e.CreatedAt, &sentAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan outbox event: %w", err)
	}
	e.Payload = payload
	if sentAt.Valid {
		e.SentAt = &sentAt.Time
	}
	return &e, nil
}
