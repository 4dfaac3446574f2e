package participants

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ParticipantsRepository defines what the app layer needs from the repository
type ParticipantsRepository interface {
	CreateParticipant(ctx context.Context, req CreateParticipantRequest) (*models.Participant, error)
	GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error)
	GetParticipantByAuthID(ctx context.Context, externalID string) (*models.Participant, error)
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	DeleteParticipant(ctx context.Context, id uuid.UUID) error
}

const maxNameLength = 100

// App handles participant business logic
type App struct {
	repo ParticipantsRepository
}

// NewApp creates a new participants App
func NewApp(repo ParticipantsRepository) *App {
	return &App{repo: repo}
}

// CreateParticipant adds a drafter to the pool
func (a *App) CreateParticipant(ctx context.Context, req CreateParticipantRequest) (*models.Participant, error) {
	req = normalize(req)
	if err := a.validateCreateParticipantRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	p, err := a.repo.CreateParticipant(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	log.Info().Str("participant_id", p.ID.String()).Str("name", p.Name).Msg("created participant")
	return p, nil
}

// GetParticipant retrieves a participant by ID
func (a *App) GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error) {
	p, err := a.repo.GetParticipant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ResolveByAuthID maps an identity provider subject to a participant
func (a *App) ResolveByAuthID(ctx context.Context, externalID string) (*models.Participant, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, fmt.Errorf("validation failed: %w: external auth id is required", ErrInvalidArgument)
	}
	p, err := a.repo.GetParticipantByAuthID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns the participant directory in creation order
func (a *App) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	ps, err := a.repo.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return ps, nil
}

// DeleteParticipant removes a participant and everything they own
func (a *App) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteParticipant(ctx, id); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	log.Info().Str("participant_id", id.String()).Msg("deleted participant")
	return nil
}

func (a *App) validateCreateParticipantRequest(req CreateParticipantRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if len(req.Name) > maxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidArgument, maxNameLength)
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return fmt.Errorf("%w: email format is invalid", ErrInvalidArgument)
	}
	return nil
}

func normalize(req CreateParticipantRequest) CreateParticipantRequest {
	req.Name = strings.TrimSpace(req.Name)
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		if v == "" {
			return nil
		}
		return &v
	}
	req.Email = trim(req.Email)
	req.ExternalAuthID = trim(req.ExternalAuthID)
	return req
}
