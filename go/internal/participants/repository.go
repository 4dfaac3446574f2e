package participants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/sqlutil"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrDuplicateAuthID     = errors.New("participant with that external auth id already exists")
)

// Repository handles database operations for participants
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new participants repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

const participantColumns = `id, name, email, external_auth_id, created_at`

// CreateParticipant inserts a new participant
func (r *Repository) CreateParticipant(ctx context.Context, req CreateParticipantRequest) (*models.Participant, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO participants (id, name, email, external_auth_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+participantColumns,
		uuid.New(), req.Name, sqlutil.ToSqlString(req.Email), sqlutil.ToSqlString(req.ExternalAuthID),
	)
	p, err := scanParticipant(row)
	if sqlutil.IsUniqueViolation(err) {
		return nil, ErrDuplicateAuthID
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert participant: %w", err)
	}
	return p, nil
}

// GetParticipant retrieves a participant by ID
func (r *Repository) GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE id = $1`, id)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// GetParticipantByAuthID looks a participant up by the identity provider subject
func (r *Repository) GetParticipantByAuthID(ctx context.Context, externalID string) (*models.Participant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE external_auth_id = $1`, externalID)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant by auth id: %w", err)
	}
	return p, nil
}

// ListParticipants returns every participant in creation order
func (r *Repository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+participantColumns+` FROM participants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row scanner) (*models.Participant, error) {
	var (
		p      models.Participant
		email  sql.NullString
		authID sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &email, &authID, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Email = sqlutil.FromSqlStringPtr(email)
	p.ExternalAuthID = sqlutil.FromSqlStringPtr(authID)
	return &p, nil
}
