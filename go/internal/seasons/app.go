package seasons

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

// SeasonsRepository defines what the app layer needs from the repository
type SeasonsRepository interface {
	GetOrCreateSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error)
	GetSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error)
}

// App resolves season containers.
type App struct {
	repo  SeasonsRepository
	clock clockwork.Clock
}

func NewApp(repo SeasonsRepository, clock clockwork.Clock) *App {
	return &App{repo: repo, clock: clock}
}

// CurrentYear applies the season-year rule to the app clock.
func (a *App) CurrentYear() int {
	return CurrentYear(a.clock.Now())
}

// ResolveYear returns year, or the current season year when year is zero.
func (a *App) ResolveYear(year int) int {
	if year == 0 {
		return a.CurrentYear()
	}
	return year
}

func (a *App) GetOrCreateSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error) {
	if participantID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: participant id is required")
	}
	year = a.ResolveYear(year)
	s, err := a.repo.GetOrCreateSeason(ctx, participantID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve season: %w", err)
	}
	return s, nil
}

func (a *App) GetSeason(ctx context.Context, participantID uuid.UUID, year int) (*models.Season, error) {
	return a.repo.GetSeason(ctx, participantID, a.ResolveYear(year))
}
