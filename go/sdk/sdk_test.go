package sdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/participants"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
)

type fakeParticipants struct {
	created []participants.CreateParticipantRequest
	list    []models.Participant
}

func (f *fakeParticipants) CreateParticipant(_ context.Context, req participants.CreateParticipantRequest) (*models.Participant, error) {
	f.created = append(f.created, req)
	return &models.Participant{ID: uuid.New(), Name: req.Name}, nil
}

func (f *fakeParticipants) GetParticipant(_ context.Context, id uuid.UUID) (*models.Participant, error) {
	for _, p := range f.list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, participants.ErrParticipantNotFound
}

func (f *fakeParticipants) ListParticipants(context.Context) ([]models.Participant, error) {
	return f.list, nil
}

func (f *fakeParticipants) DeleteParticipant(context.Context, uuid.UUID) error { return nil }

func newServer(t *testing.T, app participants.ParticipantsApp, tokens auth.Service) string {
	t.Helper()
	mux := http.NewServeMux()
	rpc.Mount(mux, participants.NewService(app).Routes(
		connect.WithInterceptors(auth.NewInterceptor(tokens, true)),
	))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestClientSendsToken(t *testing.T) {
	tokens := auth.NewService("test-secret")
	app := &fakeParticipants{list: []models.Participant{{ID: uuid.New(), Name: gofakeit.Name()}}}
	url := newServer(t, app, tokens)
	ctx := context.Background()

	_, err := New(url).Participants.List(ctx)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	userToken, err := tokens.GenerateToken(uuid.NewString(), auth.RoleParticipant, time.Hour)
	require.NoError(t, err)
	user := New(url, WithToken(userToken))

	got, err := user.Participants.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, app.list[0].ID, got[0].ID)
	assert.Equal(t, app.list[0].Name, got[0].Name)

	_, err = user.Participants.Create(ctx, participants.CreateParticipantRequest{Name: "Sam"})
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	adminToken, err := tokens.GenerateToken("commissioner", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	admin := New(url, WithToken(adminToken), WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))

	created, err := admin.Participants.Create(ctx, participants.CreateParticipantRequest{Name: "Sam"})
	require.NoError(t, err)
	assert.Equal(t, "Sam", created.Name)
	require.Len(t, app.created, 1)
}

func TestClientSurfacesNotFound(t *testing.T) {
	tokens := auth.NewService("test-secret")
	url := newServer(t, &fakeParticipants{}, tokens)
	token, err := tokens.GenerateToken(uuid.NewString(), auth.RoleParticipant, time.Hour)
	require.NoError(t, err)

	_, err = New(url, WithToken(token)).Participants.Get(context.Background(), uuid.New())
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}
