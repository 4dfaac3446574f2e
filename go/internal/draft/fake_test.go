package draft

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/draft/snake"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

type outboxRow struct {
	DraftID   uuid.UUID
	EventType string
	Payload   []byte
}

type memState struct {
	participants []models.Participant
	players      map[uuid.UUID]models.Player
	drafts       map[uuid.UUID]models.Draft
	orders       map[uuid.UUID][]models.DraftOrderEntry
	picks        map[uuid.UUID][]models.DraftPick
	seasons      map[string]models.Season
	seasonYears  map[uuid.UUID]int
	roster       []models.RosterEntry
	outbox       []outboxRow
}

func (s *memState) clone() *memState {
	c := &memState{
		participants: append([]models.Participant(nil), s.participants...),
		players:      make(map[uuid.UUID]models.Player, len(s.players)),
		drafts:       make(map[uuid.UUID]models.Draft, len(s.drafts)),
		orders:       make(map[uuid.UUID][]models.DraftOrderEntry, len(s.orders)),
		picks:        make(map[uuid.UUID][]models.DraftPick, len(s.picks)),
		seasons:      make(map[string]models.Season, len(s.seasons)),
		seasonYears:  make(map[uuid.UUID]int, len(s.seasonYears)),
		roster:       append([]models.RosterEntry(nil), s.roster...),
		outbox:       append([]outboxRow(nil), s.outbox...),
	}
	for k, v := range s.players {
		c.players[k] = v
	}
	for k, v := range s.drafts {
		c.drafts[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = append([]models.DraftOrderEntry(nil), v...)
	}
	for k, v := range s.picks {
		c.picks[k] = append([]models.DraftPick(nil), v...)
	}
	for k, v := range s.seasons {
		c.seasons[k] = v
	}
	for k, v := range s.seasonYears {
		c.seasonYears[k] = v
	}
	return c
}

// memRepo is an in-memory DraftRepository. WithTx serialises transactions
// and restores the previous state when fn fails, like a rolled back tx.
type memRepo struct {
	txMu   sync.Mutex
	st     *memState
	failOn map[string]error
	reads  []string
}

func newMemRepo() *memRepo {
	return &memRepo{
		st: &memState{
			players:     map[uuid.UUID]models.Player{},
			drafts:      map[uuid.UUID]models.Draft{},
			orders:      map[uuid.UUID][]models.DraftOrderEntry{},
			picks:       map[uuid.UUID][]models.DraftPick{},
			seasons:     map[string]models.Season{},
			seasonYears: map[uuid.UUID]int{},
		},
		failOn: map[string]error{},
	}
}

var _ DraftRepository = (*memRepo)(nil)

func (r *memRepo) fail(op string) error {
	r.reads = append(r.reads, op)
	return r.failOn[op]
}

func (r *memRepo) WithTx(_ context.Context, fn func(tx DraftStore) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	saved := r.st.clone()
	if err := fn(r); err != nil {
		r.st = saved
		return err
	}
	return nil
}

func (r *memRepo) addParticipant(name string) models.Participant {
	p := models.Participant{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Date(2025, 9, 1, 0, 0, len(r.st.participants), 0, time.UTC),
	}
	r.st.participants = append(r.st.participants, p)
	return p
}

func (r *memRepo) addPlayer(name, pos, team string) models.Player {
	p := models.Player{ID: uuid.New(), Name: name, Position: pos, Team: team, IsEligible: true}
	r.st.players[p.ID] = p
	return p
}

func (r *memRepo) rosterFor(participantID uuid.UUID, year int) []models.RosterEntry {
	var out []models.RosterEntry
	for _, e := range r.st.roster {
		if e.ParticipantID == participantID && r.st.seasonYears[e.SeasonID] == year {
			out = append(out, e)
		}
	}
	return out
}

func (r *memRepo) eventTypes() []string {
	out := make([]string, len(r.st.outbox))
	for i, e := range r.st.outbox {
		out[i] = e.EventType
	}
	return out
}

func (r *memRepo) ListParticipants(context.Context) ([]models.Participant, error) {
	if err := r.fail("ListParticipants"); err != nil {
		return nil, err
	}
	out := append([]models.Participant(nil), r.st.participants...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	if err := r.fail("GetDraft"); err != nil {
		return nil, err
	}
	d, ok := r.st.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return &d, nil
}

func (r *memRepo) GetDraftForUpdate(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	if err := r.fail("GetDraftForUpdate"); err != nil {
		return nil, err
	}
	d, ok := r.st.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return &d, nil
}

func (r *memRepo) GetDraftBySeasonYear(_ context.Context, year int) (*models.Draft, error) {
	if err := r.fail("GetDraftBySeasonYear"); err != nil {
		return nil, err
	}
	for _, d := range r.st.drafts {
		if d.SeasonYear == year {
			return &d, nil
		}
	}
	return nil, ErrDraftNotFound
}

func (r *memRepo) CreateDraft(_ context.Context, d models.Draft, order []models.DraftOrderEntry) error {
	if err := r.fail("CreateDraft"); err != nil {
		return err
	}
	for _, existing := range r.st.drafts {
		if existing.SeasonYear == d.SeasonYear {
			return fmt.Errorf("duplicate draft for %d", d.SeasonYear)
		}
	}
	r.st.drafts[d.ID] = d
	r.st.orders[d.ID] = append([]models.DraftOrderEntry(nil), order...)
	return nil
}

func (r *memRepo) DeleteDraft(_ context.Context, id uuid.UUID) error {
	if err := r.fail("DeleteDraft"); err != nil {
		return err
	}
	if _, ok := r.st.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(r.st.drafts, id)
	delete(r.st.orders, id)
	delete(r.st.picks, id)
	return nil
}

func (r *memRepo) UpdateDraftState(_ context.Context, id uuid.UUID, s snake.State, expectedVersion int, at time.Time) error {
	if err := r.fail("UpdateDraftState"); err != nil {
		return err
	}
	d, ok := r.st.drafts[id]
	if !ok || d.Version != expectedVersion {
		return ErrVersionConflict
	}
	applyState(&d, s)
	d.Version++
	d.UpdatedAt = at
	r.st.drafts[id] = d
	return nil
}

func (r *memRepo) ListDraftOrder(_ context.Context, draftID uuid.UUID) ([]models.DraftOrderEntry, error) {
	if err := r.fail("ListDraftOrder"); err != nil {
		return nil, err
	}
	return append([]models.DraftOrderEntry(nil), r.st.orders[draftID]...), nil
}

func (r *memRepo) ListDraftPicks(_ context.Context, draftID uuid.UUID) ([]models.DraftPickDetail, error) {
	if err := r.fail("ListDraftPicks"); err != nil {
		return nil, err
	}
	names := map[uuid.UUID]string{}
	for _, p := range r.st.participants {
		names[p.ID] = p.Name
	}
	out := make([]models.DraftPickDetail, 0, len(r.st.picks[draftID]))
	for _, p := range r.st.picks[draftID] {
		pl := r.st.players[p.PlayerID]
		out = append(out, models.DraftPickDetail{
			DraftPick:       p,
			ParticipantName: names[p.ParticipantID],
			PlayerName:      pl.Name,
			PlayerPosition:  pl.Position,
			PlayerTeam:      pl.Team,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PickNumber < out[j].PickNumber })
	return out, nil
}

func (r *memRepo) IsPlayerPicked(_ context.Context, draftID, playerID uuid.UUID) (bool, error) {
	if err := r.fail("IsPlayerPicked"); err != nil {
		return false, err
	}
	for _, p := range r.st.picks[draftID] {
		if p.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) InsertPick(_ context.Context, p models.DraftPick) error {
	if err := r.fail("InsertPick"); err != nil {
		return err
	}
	for _, x := range r.st.picks[p.DraftID] {
		if x.PlayerID == p.PlayerID {
			return ErrPlayerAlreadyDrafted
		}
		if x.PickNumber == p.PickNumber {
			return ErrVersionConflict
		}
	}
	r.st.picks[p.DraftID] = append(r.st.picks[p.DraftID], p)
	return nil
}

func (r *memRepo) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	if err := r.fail("GetPlayer"); err != nil {
		return nil, err
	}
	p, ok := r.st.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (r *memRepo) GetOrCreateSeason(_ context.Context, participantID uuid.UUID, year int) (*models.Season, error) {
	if err := r.fail("GetOrCreateSeason"); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%d", participantID, year)
	s, ok := r.st.seasons[key]
	if !ok {
		s = models.Season{ID: uuid.New(), ParticipantID: participantID, Year: year, IsActive: true}
		r.st.seasons[key] = s
		r.st.seasonYears[s.ID] = year
	}
	return &s, nil
}

func (r *memRepo) InsertRosterEntry(_ context.Context, e models.RosterEntry) error {
	if err := r.fail("InsertRosterEntry"); err != nil {
		return err
	}
	r.st.roster = append(r.st.roster, e)
	return nil
}

func (r *memRepo) DeleteRosterEntriesBySeasonYear(_ context.Context, year int) (int64, error) {
	if err := r.fail("DeleteRosterEntriesBySeasonYear"); err != nil {
		return 0, err
	}
	kept := make([]models.RosterEntry, 0, len(r.st.roster))
	var n int64
	for _, e := range r.st.roster {
		if r.st.seasonYears[e.SeasonID] == year {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.st.roster = kept
	return n, nil
}

func (r *memRepo) InsertOutboxEvent(_ context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	if err := r.fail("InsertOutboxEvent"); err != nil {
		return err
	}
	r.st.outbox = append(r.st.outbox, outboxRow{DraftID: draftID, EventType: eventType, Payload: payload})
	return nil
}
