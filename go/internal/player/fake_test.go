package player

import (
	"context"
	"strings"

	"github.com/google/uuid"

	espnclient "github.com/mcdev12/playoffpool/go/clients/espn_client"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

// fakeRepo keeps the catalog in memory with the same match rules as the
// postgres repository.
type fakeRepo struct {
	players []models.Player
	picked  map[uuid.UUID]bool
	lastReq SearchPlayersRequest
}

func newFakeRepo(players ...models.Player) *fakeRepo {
	return &fakeRepo{players: players, picked: map[uuid.UUID]bool{}}
}

func matches(p models.Player, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Team), q) ||
		strings.Contains(strings.ToLower(p.Position), q)
}

func (f *fakeRepo) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	for i := range f.players {
		if f.players[i].ID == id {
			p := f.players[i]
			return &p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (f *fakeRepo) SearchPlayers(_ context.Context, req SearchPlayersRequest) ([]models.Player, error) {
	f.lastReq = req
	var out []models.Player
	for _, p := range f.players {
		if req.EligibleOnly && !p.IsEligible {
			continue
		}
		if matches(p, req.Query) && len(out) < req.Limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAvailablePlayers(_ context.Context, req ListAvailableRequest) ([]models.Player, error) {
	var out []models.Player
	for _, p := range f.players {
		if p.IsEligible && !f.picked[p.ID] && matches(p, req.Query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpsertPlayer(_ context.Context, u UpsertPlayerParams) (*models.Player, bool, error) {
	for i := range f.players {
		p := &f.players[i]
		same := u.ESPNID != nil && p.ESPNID != nil && *p.ESPNID == *u.ESPNID
		if u.ESPNID == nil {
			same = p.Name == u.Name && p.Team == u.Team
		}
		if !same {
			continue
		}
		p.Name, p.Position, p.Team = u.Name, u.Position, u.Team
		if u.Eligible != nil {
			p.IsEligible = *u.Eligible
		}
		out := *p
		return &out, false, nil
	}
	p := models.Player{
		ID:         uuid.New(),
		ESPNID:     u.ESPNID,
		Name:       u.Name,
		Position:   u.Position,
		Team:       u.Team,
		IsEligible: u.Eligible == nil || *u.Eligible,
		Metadata:   u.Metadata,
	}
	f.players = append(f.players, p)
	return &p, true, nil
}

func (f *fakeRepo) SetTeamEligibility(_ context.Context, teams []string, eligible bool) (int64, error) {
	var n int64
	for i := range f.players {
		for _, t := range teams {
			if f.players[i].Team == t {
				f.players[i].IsEligible = eligible
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeRepo) SetAllEligibility(_ context.Context, eligible bool) (int64, error) {
	for i := range f.players {
		f.players[i].IsEligible = eligible
	}
	return int64(len(f.players)), nil
}

func (f *fakeRepo) TogglePlayerEligibility(_ context.Context, id uuid.UUID) (*models.Player, error) {
	for i := range f.players {
		if f.players[i].ID == id {
			f.players[i].IsEligible = !f.players[i].IsEligible
			p := f.players[i]
			return &p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (f *fakeRepo) EligibilityStats(context.Context) (*EligibilityStats, error) {
	stats := &EligibilityStats{}
	byTeam := map[string]*TeamEligible{}
	var teams []string
	for _, p := range f.players {
		t, ok := byTeam[p.Team]
		if !ok {
			t = &TeamEligible{Team: p.Team}
			byTeam[p.Team] = t
			teams = append(teams, p.Team)
		}
		t.Total++
		stats.Total++
		if p.IsEligible {
			t.Eligible++
			stats.Eligible++
		}
	}
	for _, team := range teams {
		stats.ByTeam = append(stats.ByTeam, *byTeam[team])
	}
	return stats, nil
}

type fakeSource struct {
	players []espnclient.RosterPlayer
	err     error
}

func (f fakeSource) FetchFantasyPlayers(context.Context) ([]espnclient.RosterPlayer, error) {
	return f.players, f.err
}

func rosterPlayer(id, name, pos, team string) espnclient.RosterPlayer {
	rp := espnclient.RosterPlayer{TeamAbbreviation: team}
	rp.ID = id
	rp.DisplayName = name
	rp.Position.Abbreviation = pos
	rp.Raw = []byte(`{"id":"` + id + `"}`)
	return rp
}
