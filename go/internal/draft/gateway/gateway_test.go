package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/draft/events"
	"github.com/mcdev12/playoffpool/go/internal/draft/outbox"
	"github.com/mcdev12/playoffpool/go/internal/natstest"
)

type harness struct {
	provider  *fakeProvider
	publisher *outbox.JetStreamPublisher
	server    *httptest.Server
	service   *Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	nc := natstest.RunJetStream(t)
	jsCfg := outbox.DefaultJetStreamConfig()
	jsCfg.Storage = jetstream.MemoryStorage
	publisher, err := outbox.NewJetStreamPublisher(ctx, nc, jsCfg)
	require.NoError(t, err)

	provider := newFakeProvider()
	cfg := DefaultConfig()
	cfg.JetStreamConfig.AckWait = time.Second
	svc, err := NewService(ctx, cfg, nc, provider)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	router := chi.NewRouter()
	router.Use(auth.Middleware(auth.NewService("test-secret"), false))
	svc.Routes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &harness{provider: provider, publisher: publisher, server: server, service: svc}
}

func (h *harness) dial(t *testing.T, draftID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws/draft?draft_id=" + draftID.String()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) DraftEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev DraftEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func pickRow(t *testing.T, draftID uuid.UUID, pickNumber int) outbox.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(events.PickMadePayload{
		DraftID:    draftID.String(),
		PlayerName: "Josh Allen",
		PickNumber: pickNumber,
	})
	require.NoError(t, err)
	return outbox.OutboxEvent{
		ID:        uuid.New(),
		DraftID:   draftID,
		EventType: events.TypePickMade,
		Payload:   payload,
		CreatedAt: t0,
	}
}

func TestGatewayPushesRelayedEvents(t *testing.T) {
	h := newHarness(t)
	watched := h.provider.addDraft(4, 2, 1, 1)
	other := h.provider.addDraft(4, 2, 1, 1)

	conn := h.dial(t, watched.Draft.ID)

	greeting := readEvent(t, conn)
	assert.Equal(t, EventTypeDraftState, greeting.Type)
	parsed, err := ParseEventPayload(&greeting)
	require.NoError(t, err)
	state := parsed.(*DraftState)
	assert.Equal(t, watched.Draft.ID.String(), state.DraftID)
	require.NotNil(t, state.CurrentPick)
	assert.Equal(t, "A", state.CurrentPick.ParticipantName)

	ctx := context.Background()
	require.NoError(t, h.publisher.Publish(ctx, pickRow(t, other.Draft.ID, 1)))
	mine := pickRow(t, watched.Draft.ID, 1)
	require.NoError(t, h.publisher.Publish(ctx, mine))

	// The other draft's event is never delivered to this socket, so the
	// next frame is ours.
	ev := readEvent(t, conn)
	assert.Equal(t, EventTypePickMade, ev.Type)
	assert.Equal(t, mine.ID.String(), ev.ID)
	assert.Equal(t, watched.Draft.ID.String(), ev.DraftID)

	parsed, err = ParseEventPayload(&ev)
	require.NoError(t, err)
	assert.Equal(t, "Josh Allen", parsed.(*events.PickMadePayload).PlayerName)

	assert.Equal(t, 1, h.service.Stats().TotalConnections)
}

func TestGatewayStateEndpoints(t *testing.T) {
	h := newHarness(t)
	snap := h.provider.addDraft(3, 2, 2, 1)

	resp, err := http.Get(h.server.URL + "/api/drafts/" + snap.Draft.ID.String() + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state DraftState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, 3, state.CompletedPicks)
	require.NotNil(t, state.CurrentPick)
	assert.Equal(t, "C", state.CurrentPick.ParticipantName)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "unknown draft", path: "/api/drafts/" + uuid.NewString() + "/state", want: http.StatusNotFound},
		{name: "malformed id", path: "/api/drafts/nope/state", want: http.StatusBadRequest},
		{name: "current draft", path: "/api/drafts/current/state?season_year=2025", want: http.StatusOK},
		{name: "no draft for year", path: "/api/drafts/current/state?season_year=1999", want: http.StatusNotFound},
		{name: "bad year", path: "/api/drafts/current/state?season_year=soon", want: http.StatusBadRequest},
		{name: "socket without draft", path: "/ws/draft", want: http.StatusBadRequest},
		{name: "socket for unknown draft", path: "/ws/draft?draft_id=" + uuid.NewString(), want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(h.server.URL + tt.path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestProcessMessageRejectsPoison(t *testing.T) {
	ec := &EventConsumer{connectionManager: NewConnectionManager(DefaultConnectionConfig())}

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{"},
		{name: "bad draft id", data: `{"eventId":"1","eventType":"PickMade","draftId":"x","payload":{}}`},
		{name: "unknown type", data: `{"eventId":"1","eventType":"DraftPaused","draftId":"` + uuid.NewString() + `","payload":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ec.processMessage([]byte(tt.data)), errPoison)
		})
	}

	env, err := json.Marshal(events.Envelope{
		EventID:   uuid.NewString(),
		EventType: events.TypeDraftDeleted,
		DraftID:   uuid.NewString(),
		Payload:   json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	assert.NoError(t, ec.processMessage(env))
}

var _ StateProvider = (*fakeProvider)(nil)
