package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/draft"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

var t0 = time.Date(2025, 12, 20, 18, 0, 0, 0, time.UTC)

type fakeProvider struct {
	snaps map[uuid.UUID]*models.DraftSnapshot
	picks map[uuid.UUID][]models.DraftPickDetail
	err   error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		snaps: map[uuid.UUID]*models.DraftSnapshot{},
		picks: map[uuid.UUID][]models.DraftPickDetail{},
	}
}

func (f *fakeProvider) GetDraft(_ context.Context, id uuid.UUID) (*models.DraftSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap, ok := f.snaps[id]
	if !ok {
		return nil, draft.ErrDraftNotFound
	}
	return snap, nil
}

func (f *fakeProvider) GetCurrentDraft(_ context.Context, seasonYear int) (*models.DraftSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, snap := range f.snaps {
		if seasonYear == 0 || snap.Draft.SeasonYear == seasonYear {
			return snap, nil
		}
	}
	return nil, nil
}

func (f *fakeProvider) GetDraftPicks(_ context.Context, id uuid.UUID) ([]models.DraftPickDetail, error) {
	return f.picks[id], nil
}

// addDraft stores a draft of n participants positioned at round/pick with
// the picks before that slot already made.
func (f *fakeProvider) addDraft(n, rounds, round, pick int) *models.DraftSnapshot {
	id := uuid.New()
	snap := &models.DraftSnapshot{
		Draft: models.Draft{
			ID:           id,
			SeasonYear:   2025,
			TotalRounds:  rounds,
			CurrentRound: round,
			CurrentPick:  pick,
			IsComplete:   round > rounds,
			UpdatedAt:    t0,
		},
	}
	for i := 0; i < n; i++ {
		snap.Order = append(snap.Order, models.DraftOrderEntry{
			DraftID:         id,
			ParticipantID:   uuid.New(),
			ParticipantName: string(rune('A' + i)),
			Position:        i + 1,
		})
	}

	made := (round-1)*n + pick - 1
	for i := 1; i <= made; i++ {
		f.picks[id] = append(f.picks[id], models.DraftPickDetail{
			DraftPick: models.DraftPick{
				ID:          uuid.New(),
				DraftID:     id,
				PlayerID:    uuid.New(),
				Round:       (i-1)/n + 1,
				PickInRound: (i-1)%n + 1,
				PickNumber:  i,
				PickedAt:    t0.Add(time.Duration(i) * time.Minute),
			},
		})
	}
	f.snaps[id] = snap
	return snap
}
