package player

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	espnclient "github.com/mcdev12/playoffpool/go/clients/espn_client"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	SearchPlayers(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error)
	ListAvailablePlayers(ctx context.Context, req ListAvailableRequest) ([]models.Player, error)
	UpsertPlayer(ctx context.Context, p UpsertPlayerParams) (*models.Player, bool, error)
	SetTeamEligibility(ctx context.Context, teams []string, eligible bool) (int64, error)
	SetAllEligibility(ctx context.Context, eligible bool) (int64, error)
	TogglePlayerEligibility(ctx context.Context, id uuid.UUID) (*models.Player, error)
	EligibilityStats(ctx context.Context) (*EligibilityStats, error)
}

// RosterSource supplies fantasy-relevant athletes from an external feed
type RosterSource interface {
	FetchFantasyPlayers(ctx context.Context) ([]espnclient.RosterPlayer, error)
}

// App handles player catalog business logic
type App struct {
	repo   PlayerRepository
	source RosterSource
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository, source RosterSource) *App {
	return &App{
		repo:   repo,
		source: source,
	}
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// SearchPlayers runs a case-insensitive substring search over the catalog
func (a *App) SearchPlayers(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error) {
	if err := a.validateSearchPlayersRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Limit == 0 {
		req.Limit = DefaultSearchLimit
	}

	players, err := a.repo.SearchPlayers(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return players, nil
}

// ListAvailablePlayers returns eligible players still on the board
func (a *App) ListAvailablePlayers(ctx context.Context, req ListAvailableRequest) ([]models.Player, error) {
	if req.DraftID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: %w: draft id is required", ErrInvalidArgument)
	}
	if req.Limit < 0 || req.Limit > DefaultSearchLimit {
		return nil, fmt.Errorf("validation failed: %w: limit must be between 1 and %d", ErrInvalidArgument, DefaultSearchLimit)
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Limit == 0 {
		req.Limit = DefaultSearchLimit
	}

	players, err := a.repo.ListAvailablePlayers(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	return players, nil
}

// SyncFromESPN pulls every team's offense and upserts it by ESPN id
func (a *App) SyncFromESPN(ctx context.Context) (*SyncResult, error) {
	athletes, err := a.source.FetchFantasyPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players from ESPN: %w", err)
	}

	rows := make([]UpsertPlayerParams, 0, len(athletes))
	for _, ath := range athletes {
		id := ath.ID
		rows = append(rows, UpsertPlayerParams{
			ESPNID:   &id,
			Name:     ath.DisplayName,
			Position: ath.Position.Abbreviation,
			Team:     ath.TeamAbbreviation,
			Metadata: ath.Raw,
		})
	}

	result := a.upsertAll(ctx, rows)
	log.Info().
		Int("processed", result.TotalProcessed).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", len(result.Errors)).
		Msg("synced players from ESPN")
	return result, nil
}

// ImportPlayers loads a csv or xlsx players file into the catalog
func (a *App) ImportPlayers(ctx context.Context, r io.Reader, format Format) (*SyncResult, error) {
	rows, err := ParseFile(r, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse players file: %w", err)
	}

	result := a.upsertAll(ctx, rows)
	log.Info().
		Str("format", string(format)).
		Int("processed", result.TotalProcessed).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Msg("imported players")
	return result, nil
}

func (a *App) upsertAll(ctx context.Context, rows []UpsertPlayerParams) *SyncResult {
	result := &SyncResult{TotalProcessed: len(rows)}
	for _, row := range rows {
		row = normalizePlayer(row)
		if row.Name == "" {
			result.Errors = append(result.Errors, "skipped row without a name")
			continue
		}
		_, created, err := a.repo.UpsertPlayer(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to upsert player %s: %v", row.Name, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result
}

// SetTeamEligibility marks every player on teams as eligible or not
func (a *App) SetTeamEligibility(ctx context.Context, teams []string, eligible bool) (int64, error) {
	normalized := make([]string, 0, len(teams))
	for _, t := range teams {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return 0, fmt.Errorf("validation failed: %w: at least one team is required", ErrInvalidArgument)
	}

	n, err := a.repo.SetTeamEligibility(ctx, normalized, eligible)
	if err != nil {
		return 0, fmt.Errorf("failed to set team eligibility: %w", err)
	}
	log.Info().Strs("teams", normalized).Bool("eligible", eligible).Int64("players", n).Msg("updated team eligibility")
	return n, nil
}

func (a *App) SetAllEligibility(ctx context.Context, eligible bool) (int64, error) {
	n, err := a.repo.SetAllEligibility(ctx, eligible)
	if err != nil {
		return 0, fmt.Errorf("failed to set eligibility: %w", err)
	}
	log.Info().Bool("eligible", eligible).Int64("players", n).Msg("updated catalog eligibility")
	return n, nil
}

func (a *App) TogglePlayerEligibility(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := a.repo.TogglePlayerEligibility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle eligibility: %w", err)
	}
	log.Info().Str("player_id", id.String()).Bool("eligible", p.IsEligible).Msg("toggled player eligibility")
	return p, nil
}

func (a *App) EligibilityStats(ctx context.Context) (*EligibilityStats, error) {
	stats, err := a.repo.EligibilityStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get eligibility stats: %w", err)
	}
	return stats, nil
}

func (a *App) validateSearchPlayersRequest(req SearchPlayersRequest) error {
	if req.Limit < 0 || req.Limit > DefaultSearchLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidArgument, DefaultSearchLimit)
	}
	return nil
}

// normalizePlayer applies catalog defaults: unknown positions become UNK
// and players without a team are free agents.
func normalizePlayer(p UpsertPlayerParams) UpsertPlayerParams {
	p.Name = strings.TrimSpace(p.Name)
	p.Position = strings.ToUpper(strings.TrimSpace(p.Position))
	p.Team = strings.ToUpper(strings.TrimSpace(p.Team))
	if p.Position == "" {
		p.Position = models.UnknownPosition
	}
	if p.Team == "" {
		p.Team = models.FreeAgentTeam
	}
	if p.ESPNID != nil && strings.TrimSpace(*p.ESPNID) == "" {
		p.ESPNID = nil
	}
	return p
}
