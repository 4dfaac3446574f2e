package participants

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

type fakeRepo struct {
	byID  map[uuid.UUID]models.Participant
	order []uuid.UUID
	now   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID: map[uuid.UUID]models.Participant{},
		now:  time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) CreateParticipant(_ context.Context, req CreateParticipantRequest) (*models.Participant, error) {
	if req.ExternalAuthID != nil {
		if _, err := f.GetParticipantByAuthID(context.Background(), *req.ExternalAuthID); err == nil {
			return nil, ErrDuplicateAuthID
		}
	}
	f.now = f.now.Add(time.Second)
	p := models.Participant{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		ExternalAuthID: req.ExternalAuthID,
		CreatedAt:      f.now,
	}
	f.byID[p.ID] = p
	f.order = append(f.order, p.ID)
	return &p, nil
}

func (f *fakeRepo) GetParticipant(_ context.Context, id uuid.UUID) (*models.Participant, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return &p, nil
}

func (f *fakeRepo) GetParticipantByAuthID(_ context.Context, externalID string) (*models.Participant, error) {
	for _, p := range f.byID {
		if p.ExternalAuthID != nil && *p.ExternalAuthID == externalID {
			return &p, nil
		}
	}
	return nil, ErrParticipantNotFound
}

func (f *fakeRepo) ListParticipants(context.Context) ([]models.Participant, error) {
	out := make([]models.Participant, 0, len(f.order))
	for _, id := range f.order {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteParticipant(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return ErrParticipantNotFound
	}
	delete(f.byID, id)
	return nil
}
