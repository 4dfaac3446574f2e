package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/seasons"
)

// ScoringRepository defines what the scoring app needs from storage
type ScoringRepository interface {
	UpsertWeeklyActual(ctx context.Context, p WeeklyActualParams, at time.Time) error
	GetWeeklyActual(ctx context.Context, playerID uuid.UUID, season, week int) (*models.WeeklyActual, error)
	UpsertWeeklyProjection(ctx context.Context, p WeeklyProjectionParams, at time.Time) error
	UpsertWeeklyScore(ctx context.Context, rosterEntryID uuid.UUID, week int, points float64, at time.Time) error
	ListParticipantTotals(ctx context.Context, year int) ([]ParticipantTotal, error)
	ListEntryWeekPoints(ctx context.Context, participantID uuid.UUID, year int) ([]EntryWeekPoints, error)
}

// StatsSource returns box-score stat lines keyed by ESPN athlete id.
type StatsSource interface {
	FetchWeeklyStats(ctx context.Context, season, nflWeek int) (map[string]models.StatLine, error)
}

// ProjectionSource returns weekly projections keyed by ESPN athlete id.
type ProjectionSource interface {
	FetchProjections(ctx context.Context, season, nflWeek int) (map[string]models.Projection, error)
}

type PlayerLister interface {
	ListPlayersWithESPNID(ctx context.Context) ([]models.Player, error)
}

type RosterLister interface {
	ListRoster(ctx context.Context, participantID uuid.UUID, year int) ([]models.RosterEntry, error)
	ListRosterEntriesBySeasonYear(ctx context.Context, year int) ([]models.RosterEntry, error)
}

// App handles scoring business logic
type App struct {
	repo        ScoringRepository
	stats       StatsSource
	projections ProjectionSource
	players     PlayerLister
	roster      RosterLister
	rules       Rules
	clock       clockwork.Clock
}

// NewApp creates a new scoring App
func NewApp(repo ScoringRepository, stats StatsSource, projections ProjectionSource, players PlayerLister, roster RosterLister, rules Rules, clock clockwork.Clock) *App {
	return &App{
		repo:        repo,
		stats:       stats,
		projections: projections,
		players:     players,
		roster:      roster,
		rules:       rules,
		clock:       clock,
	}
}

// Rules returns the rules points are computed with.
func (a *App) Rules() Rules {
	return a.rules
}

// SyncWeeklyActuals pulls one NFL week of box scores and stores points for
// every catalog player with an ESPN id and some activity that week.
func (a *App) SyncWeeklyActuals(ctx context.Context, req SyncActualsRequest) (*SyncActualsResult, error) {
	if req.NFLWeek < 1 || req.NFLWeek > maxNFLWeek {
		return nil, fmt.Errorf("validation failed: %w: nfl week must be between 1 and %d", ErrInvalidArgument, maxNFLWeek)
	}
	season := a.resolveYear(req.Season)

	lines, err := a.stats.FetchWeeklyStats(ctx, season, req.NFLWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatsUnavailable, err)
	}
	catalog, err := a.players.ListPlayersWithESPNID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	result := &SyncActualsResult{Fetched: len(lines)}
	now := a.clock.Now()
	for _, p := range catalog {
		if p.ESPNID == nil {
			result.Skipped++
			continue
		}
		line, ok := lines[*p.ESPNID]
		if !ok {
			result.Skipped++
			continue
		}
		points := Points(line, a.rules)
		if points == 0 && !line.HasActivity() {
			result.Skipped++
			continue
		}

		raw, err := json.Marshal(line)
		if err != nil {
			return nil, fmt.Errorf("failed to encode stats for %s: %w", p.Name, err)
		}
		err = a.repo.UpsertWeeklyActual(ctx, WeeklyActualParams{
			PlayerID:      p.ID,
			ESPNID:        *p.ESPNID,
			Season:        season,
			Week:          req.NFLWeek,
			FantasyPoints: points,
			Stats:         raw,
		}, now)
		if err != nil {
			return nil, err
		}
		result.Updated++
	}

	log.Info().
		Int("season_year", season).
		Int("nfl_week", req.NFLWeek).
		Int("fetched", result.Fetched).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("synced weekly actuals")
	return result, nil
}

// CalculateRosterScores copies a playoff week's actuals onto every roster
// entry of the season year.
func (a *App) CalculateRosterScores(ctx context.Context, req CalculateScoresRequest) (*CalculateScoresResult, error) {
	week, ok := PlayoffWeek(req.NFLWeek)
	if !ok {
		return nil, fmt.Errorf("%w: nfl week %d, valid weeks are %d-%d", ErrNotPlayoffWeek, req.NFLWeek, FirstPlayoffWeek, maxNFLWeek)
	}
	season := a.resolveYear(req.Season)

	entries, err := a.roster.ListRosterEntriesBySeasonYear(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries: %w", err)
	}

	result := &CalculateScoresResult{PlayoffWeek: week}
	now := a.clock.Now()
	for _, e := range entries {
		actual, err := a.repo.GetWeeklyActual(ctx, e.PlayerID, season, req.NFLWeek)
		if err != nil {
			return nil, err
		}
		if actual == nil {
			result.Skipped++
			continue
		}
		if err := a.repo.UpsertWeeklyScore(ctx, e.ID, week, actual.FantasyPoints, now); err != nil {
			return nil, err
		}
		result.Updated++
	}

	log.Info().
		Int("season_year", season).
		Int("nfl_week", req.NFLWeek).
		Int("playoff_week", week).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("calculated roster scores")
	return result, nil
}

// SyncWeeklyActualsRange runs SyncWeeklyActuals for each week of r in
// order. A failed week is recorded and the run continues.
func (a *App) SyncWeeklyActualsRange(ctx context.Context, r WeekRange) (*RangeResult, error) {
	if err := validateWeekRange(r, 1); err != nil {
		return nil, err
	}
	return a.eachWeek(ctx, r, "weekly actuals", func(week int) (WeekOutcome, error) {
		res, err := a.SyncWeeklyActuals(ctx, SyncActualsRequest{Season: r.Season, NFLWeek: week})
		if err != nil {
			return WeekOutcome{}, err
		}
		return WeekOutcome{Updated: res.Updated, Skipped: res.Skipped}, nil
	})
}

// CalculateRosterScoresRange scores each playoff week of r in order.
func (a *App) CalculateRosterScoresRange(ctx context.Context, r WeekRange) (*RangeResult, error) {
	if err := validateWeekRange(r, FirstPlayoffWeek); err != nil {
		return nil, err
	}
	return a.eachWeek(ctx, r, "roster scores", func(week int) (WeekOutcome, error) {
		res, err := a.CalculateRosterScores(ctx, CalculateScoresRequest{Season: r.Season, NFLWeek: week})
		if err != nil {
			return WeekOutcome{}, err
		}
		return WeekOutcome{Updated: res.Updated, Skipped: res.Skipped}, nil
	})
}

// SyncProjections stores a week's projection for every catalog player the
// source can match by ESPN id. Matched players without a published
// projection are stored as zero. A week with no projections at all is
// rejected so an early sync cannot wipe the previous week's numbers.
func (a *App) SyncProjections(ctx context.Context, req SyncProjectionsRequest) (*SyncProjectionsResult, error) {
	if req.NFLWeek < 1 || req.NFLWeek > maxNFLWeek {
		return nil, fmt.Errorf("validation failed: %w: nfl week must be between 1 and %d", ErrInvalidArgument, maxNFLWeek)
	}
	season := a.resolveYear(req.Season)

	projections, err := a.projections.FetchProjections(ctx, season, req.NFLWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProjectionsUnavailable, err)
	}
	if !anyProjected(projections) {
		return nil, fmt.Errorf("%w: nothing published for %d week %d", ErrProjectionsUnavailable, season, req.NFLWeek)
	}
	catalog, err := a.players.ListPlayersWithESPNID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	result := &SyncProjectionsResult{}
	now := a.clock.Now()
	for _, p := range catalog {
		if p.ESPNID == nil {
			result.NoMatch++
			continue
		}
		proj, ok := projections[*p.ESPNID]
		if !ok {
			result.NoMatch++
			continue
		}
		err := a.repo.UpsertWeeklyProjection(ctx, WeeklyProjectionParams{
			PlayerID:        p.ID,
			Season:          season,
			Week:            req.NFLWeek,
			ProjectedPoints: proj.Points,
		}, now)
		if err != nil {
			return nil, err
		}
		if proj.HasProjection && proj.Points > 0 {
			result.Updated++
		} else {
			result.NoProjection++
		}
	}

	log.Info().
		Int("season_year", season).
		Int("nfl_week", req.NFLWeek).
		Int("updated", result.Updated).
		Int("no_projection", result.NoProjection).
		Int("no_match", result.NoMatch).
		Msg("synced projections")
	return result, nil
}

// SyncProjectionsRange runs SyncProjections for each week of r in order.
func (a *App) SyncProjectionsRange(ctx context.Context, r WeekRange) (*RangeResult, error) {
	if err := validateWeekRange(r, 1); err != nil {
		return nil, err
	}
	return a.eachWeek(ctx, r, "projections", func(week int) (WeekOutcome, error) {
		res, err := a.SyncProjections(ctx, SyncProjectionsRequest{Season: r.Season, NFLWeek: week})
		if err != nil {
			return WeekOutcome{}, err
		}
		return WeekOutcome{Updated: res.Updated, Skipped: res.NoProjection + res.NoMatch}, nil
	})
}

func (a *App) eachWeek(ctx context.Context, r WeekRange, what string, run func(week int) (WeekOutcome, error)) (*RangeResult, error) {
	result := &RangeResult{Weeks: make([]WeekOutcome, 0, r.EndWeek-r.StartWeek+1)}
	for week := r.StartWeek; week <= r.EndWeek; week++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := run(week)
		outcome.NFLWeek = week
		if err != nil {
			log.Warn().Err(err).Int("nfl_week", week).Msgf("skipping week of %s", what)
			outcome.Error = err.Error()
			result.Failed++
		}
		result.TotalUpdated += outcome.Updated
		result.Weeks = append(result.Weeks, outcome)
	}

	log.Info().
		Int("start_week", r.StartWeek).
		Int("end_week", r.EndWeek).
		Int("total_updated", result.TotalUpdated).
		Int("failed", result.Failed).
		Msgf("finished %s range", what)
	return result, nil
}

func validateWeekRange(r WeekRange, minWeek int) error {
	switch {
	case r.StartWeek > r.EndWeek:
		return fmt.Errorf("validation failed: %w: start week %d is after end week %d", ErrInvalidArgument, r.StartWeek, r.EndWeek)
	case r.StartWeek < minWeek || r.EndWeek > maxNFLWeek:
		return fmt.Errorf("validation failed: %w: weeks must be between %d and %d", ErrInvalidArgument, minWeek, maxNFLWeek)
	}
	return nil
}

func anyProjected(projections map[string]models.Projection) bool {
	for _, p := range projections {
		if p.HasProjection {
			return true
		}
	}
	return false
}

// GetStandings ranks participants by total points. Equal totals share a
// rank and the next rank skips ahead.
func (a *App) GetStandings(ctx context.Context, year int) ([]models.Standing, error) {
	totals, err := a.repo.ListParticipantTotals(ctx, a.resolveYear(year))
	if err != nil {
		return nil, err
	}

	standings := make([]models.Standing, len(totals))
	for i, t := range totals {
		rank := i + 1
		if i > 0 && round2(t.TotalPoints) == round2(totals[i-1].TotalPoints) {
			rank = standings[i-1].Rank
		}
		standings[i] = models.Standing{
			ParticipantID:   t.ParticipantID,
			ParticipantName: t.ParticipantName,
			TotalPoints:     round2(t.TotalPoints),
			Rank:            rank,
		}
	}
	return standings, nil
}

// GetRosterWithScores returns a participant's roster with per-week points.
func (a *App) GetRosterWithScores(ctx context.Context, participantID uuid.UUID, year int) ([]models.RosterEntryScore, error) {
	if participantID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: %w: participant id is required", ErrInvalidArgument)
	}
	year = a.resolveYear(year)

	entries, err := a.roster.ListRoster(ctx, participantID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	points, err := a.repo.ListEntryWeekPoints(ctx, participantID, year)
	if err != nil {
		return nil, err
	}

	byEntry := make(map[uuid.UUID]map[int]float64, len(entries))
	for _, p := range points {
		if byEntry[p.RosterEntryID] == nil {
			byEntry[p.RosterEntryID] = map[int]float64{}
		}
		byEntry[p.RosterEntryID][p.Week] = p.Points
	}

	out := make([]models.RosterEntryScore, len(entries))
	for i, e := range entries {
		weeks := byEntry[e.ID]
		if weeks == nil {
			weeks = map[int]float64{}
		}
		var total float64
		for _, pts := range weeks {
			total += pts
		}
		out[i] = models.RosterEntryScore{RosterEntry: e, WeekPoints: weeks, TotalPoints: round2(total)}
	}
	return out, nil
}

func (a *App) resolveYear(year int) int {
	if year == 0 {
		return seasons.CurrentYear(a.clock.Now())
	}
	return year
}
