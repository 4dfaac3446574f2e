package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/models"
)

type actualKey struct {
	player uuid.UUID
	season int
	week   int
}

type scoreKey struct {
	entry uuid.UUID
	week  int
}

type fakeRepo struct {
	actuals     map[actualKey]models.WeeklyActual
	projections map[actualKey]float64
	scores      map[scoreKey]float64
	totals      []ParticipantTotal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		actuals:     map[actualKey]models.WeeklyActual{},
		projections: map[actualKey]float64{},
		scores:      map[scoreKey]float64{},
	}
}

func (f *fakeRepo) UpsertWeeklyActual(_ context.Context, p WeeklyActualParams, at time.Time) error {
	a := models.WeeklyActual{
		ID:            uuid.New(),
		PlayerID:      p.PlayerID,
		ESPNID:        p.ESPNID,
		Season:        p.Season,
		Week:          p.Week,
		FantasyPoints: p.FantasyPoints,
		UpdatedAt:     at,
	}
	if err := json.Unmarshal(p.Stats, &a.Stats); err != nil {
		return err
	}
	f.actuals[actualKey{p.PlayerID, p.Season, p.Week}] = a
	return nil
}

func (f *fakeRepo) GetWeeklyActual(_ context.Context, playerID uuid.UUID, season, week int) (*models.WeeklyActual, error) {
	a, ok := f.actuals[actualKey{playerID, season, week}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeRepo) UpsertWeeklyProjection(_ context.Context, p WeeklyProjectionParams, _ time.Time) error {
	f.projections[actualKey{p.PlayerID, p.Season, p.Week}] = p.ProjectedPoints
	return nil
}

func (f *fakeRepo) UpsertWeeklyScore(_ context.Context, rosterEntryID uuid.UUID, week int, points float64, _ time.Time) error {
	f.scores[scoreKey{rosterEntryID, week}] = points
	return nil
}

func (f *fakeRepo) ListParticipantTotals(context.Context, int) ([]ParticipantTotal, error) {
	return f.totals, nil
}

func (f *fakeRepo) ListEntryWeekPoints(_ context.Context, _ uuid.UUID, _ int) ([]EntryWeekPoints, error) {
	var out []EntryWeekPoints
	for k, v := range f.scores {
		out = append(out, EntryWeekPoints{RosterEntryID: k.entry, Week: k.week, Points: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}

type fakeStats struct {
	lines   map[string]models.StatLine
	err     error
	weekErr map[int]error
	calls   []string
}

func (f *fakeStats) FetchWeeklyStats(_ context.Context, season, nflWeek int) (map[string]models.StatLine, error) {
	f.calls = append(f.calls, fmt.Sprintf("%d/%d", season, nflWeek))
	if err, ok := f.weekErr[nflWeek]; ok {
		return nil, err
	}
	return f.lines, f.err
}

type fakeProjections struct {
	byWeek map[int]map[string]models.Projection
	err    error
	calls  []string
}

func (f *fakeProjections) FetchProjections(_ context.Context, season, nflWeek int) (map[string]models.Projection, error) {
	f.calls = append(f.calls, fmt.Sprintf("%d/%d", season, nflWeek))
	if f.err != nil {
		return nil, f.err
	}
	return f.byWeek[nflWeek], nil
}

type fakePlayers struct {
	players []models.Player
}

func (f *fakePlayers) ListPlayersWithESPNID(context.Context) ([]models.Player, error) {
	return f.players, nil
}

type fakeRoster struct {
	entries []models.RosterEntry
	years   map[uuid.UUID]int
}

func (f *fakeRoster) ListRoster(_ context.Context, participantID uuid.UUID, year int) ([]models.RosterEntry, error) {
	var out []models.RosterEntry
	for _, e := range f.entries {
		if e.ParticipantID == participantID && f.years[e.ID] == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRoster) ListRosterEntriesBySeasonYear(_ context.Context, year int) ([]models.RosterEntry, error) {
	var out []models.RosterEntry
	for _, e := range f.entries {
		if f.years[e.ID] == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRoster) add(participantID, playerID uuid.UUID, year int) models.RosterEntry {
	if f.years == nil {
		f.years = map[uuid.UUID]int{}
	}
	e := models.RosterEntry{ID: uuid.New(), ParticipantID: participantID, PlayerID: playerID}
	f.entries = append(f.entries, e)
	f.years[e.ID] = year
	return e
}

func espnPlayer(name, espnID string) models.Player {
	id := espnID
	return models.Player{ID: uuid.New(), Name: name, ESPNID: &id}
}
