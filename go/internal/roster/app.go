package roster

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/seasons"
)

// RosterRepository defines what the app layer needs from the repository
type RosterRepository interface {
	InsertRosterEntry(ctx context.Context, e models.RosterEntry) error
	GetRosterEntry(ctx context.Context, id uuid.UUID) (*models.RosterEntry, error)
	ListRoster(ctx context.Context, participantID uuid.UUID, year int) ([]models.RosterEntry, error)
	DeleteRosterEntry(ctx context.Context, id uuid.UUID) error
	DeleteRosterEntriesBySeasonYear(ctx context.Context, year int) (int64, error)
}

// PlayersRepository defines what the app layer needs from the player catalog
type PlayersRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// SeasonsRepository resolves a participant's season container
type SeasonsRepository interface {
	GetOrCreateSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error)
}

// App handles roster business logic
type App struct {
	repo        RosterRepository
	playersRepo PlayersRepository
	seasonsRepo SeasonsRepository
	clock       clockwork.Clock
}

// NewApp creates a new roster App
func NewApp(repo RosterRepository, playersRepo PlayersRepository, seasonsRepo SeasonsRepository, clock clockwork.Clock) *App {
	return &App{
		repo:        repo,
		playersRepo: playersRepo,
		seasonsRepo: seasonsRepo,
		clock:       clock,
	}
}

// ListRoster returns a participant's roster. A zero year is the current season.
func (a *App) ListRoster(ctx context.Context, participantID uuid.UUID, year int) ([]models.RosterEntry, error) {
	if participantID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: %w: participant id is required", ErrInvalidArgument)
	}
	entries, err := a.repo.ListRoster(ctx, participantID, a.resolveYear(year))
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return entries, nil
}

// AddRosterEntry puts a player on a roster outside the draft. The player's
// name, position and team are copied onto the entry as they are now.
func (a *App) AddRosterEntry(ctx context.Context, req AddRosterEntryRequest) (*models.RosterEntry, error) {
	if err := a.validateAddRosterEntryRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	year := a.resolveYear(req.SeasonYear)

	player, err := a.playersRepo.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	season, err := a.seasonsRepo.GetOrCreateSeason(ctx, req.ParticipantID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve season: %w", err)
	}

	snap := player.Snapshot()
	entry := models.RosterEntry{
		ID:              uuid.New(),
		ParticipantID:   req.ParticipantID,
		SeasonID:        season.ID,
		PlayerID:        player.ID,
		PlayerName:      snap.Name,
		PlayerPosition:  snap.Position,
		PlayerTeam:      snap.Team,
		AcquisitionType: models.AcquisitionTypeAdmin,
		AcquiredAt:      a.clock.Now(),
	}
	if err := a.repo.InsertRosterEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add roster entry: %w", err)
	}

	log.Info().
		Str("participant_id", req.ParticipantID.String()).
		Str("player_id", player.ID.String()).
		Int("season_year", year).
		Msg("added player to roster")
	return &entry, nil
}

// RemoveRosterEntry deletes one roster entry
func (a *App) RemoveRosterEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := a.repo.GetRosterEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get roster entry: %w", err)
	}
	if err := a.repo.DeleteRosterEntry(ctx, id); err != nil {
		return fmt.Errorf("failed to remove roster entry: %w", err)
	}
	log.Info().
		Str("participant_id", entry.ParticipantID.String()).
		Str("player_id", entry.PlayerID.String()).
		Msg("removed player from roster")
	return nil
}

// DeleteRosterEntriesBySeasonYear wipes every roster for year
func (a *App) DeleteRosterEntriesBySeasonYear(ctx context.Context, year int) (int64, error) {
	if year <= 0 {
		return 0, fmt.Errorf("validation failed: %w: season year is required", ErrInvalidArgument)
	}
	n, err := a.repo.DeleteRosterEntriesBySeasonYear(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("failed to clear rosters: %w", err)
	}
	log.Info().Int("season_year", year).Int64("removed", n).Msg("cleared season rosters")
	return n, nil
}

func (a *App) validateAddRosterEntryRequest(req AddRosterEntryRequest) error {
	if req.ParticipantID == uuid.Nil {
		return fmt.Errorf("%w: participant id is required", ErrInvalidArgument)
	}
	if req.PlayerID == uuid.Nil {
		return fmt.Errorf("%w: player id is required", ErrInvalidArgument)
	}
	if req.SeasonYear < 0 {
		return fmt.Errorf("%w: season year must not be negative", ErrInvalidArgument)
	}
	return nil
}

func (a *App) resolveYear(year int) int {
	if year == 0 {
		return seasons.CurrentYear(a.clock.Now())
	}
	return year
}
