package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/draft"
)

// Handler serves the websocket endpoint and the state read endpoints.
// Requests are expected to carry an auth.Principal (see auth.Middleware).
type Handler struct {
	connectionManager *ConnectionManager
	stateProvider     StateProvider
}

func NewHandler(cm *ConnectionManager, provider StateProvider) *Handler {
	return &Handler{
		connectionManager: cm,
		stateProvider:     provider,
	}
}

// Routes mounts the gateway endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/ws/draft", h.HandleDraftConnection)
	r.Get("/ws/stats", h.HandleConnectionStats)
	r.Get("/api/drafts/current/state", h.HandleGetCurrentDraftState)
	r.Get("/api/drafts/{draftID}/state", h.HandleGetDraftState)
}

// HandleDraftConnection upgrades GET /ws/draft?draft_id=... and greets the
// client with the current DraftState.
func (h *Handler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(r.URL.Query().Get("draft_id"))
	if err != nil {
		http.Error(w, "draft_id is required", http.StatusBadRequest)
		return
	}

	state, err := LoadDraftState(r.Context(), h.stateProvider, draftID)
	if err != nil {
		writeStateError(w, draftID, err)
		return
	}
	greeting, err := stateEvent(state)
	if err != nil {
		http.Error(w, "failed to encode draft state", http.StatusInternalServerError)
		return
	}

	userID := auth.FromContext(r.Context()).Subject
	if userID == "" {
		userID = "anonymous"
	}

	if err := h.connectionManager.UpgradeConnection(w, r, userID, draftID, greeting); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", draftID.String()).
			Str("user_id", userID).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleGetDraftState handles GET /api/drafts/{draftID}/state
func (h *Handler) HandleGetDraftState(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		http.Error(w, "invalid draft ID format", http.StatusBadRequest)
		return
	}

	state, err := LoadDraftState(r.Context(), h.stateProvider, draftID)
	if err != nil {
		writeStateError(w, draftID, err)
		return
	}
	writeJSON(w, state)
}

// HandleGetCurrentDraftState handles GET /api/drafts/current/state with an
// optional season_year; zero or absent means the current season.
func (h *Handler) HandleGetCurrentDraftState(w http.ResponseWriter, r *http.Request) {
	var year int
	if v := r.URL.Query().Get("season_year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid season_year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	snap, err := h.stateProvider.GetCurrentDraft(r.Context(), year)
	if err != nil {
		log.Error().Err(err).Int("season_year", year).Msg("failed to get current draft")
		http.Error(w, "failed to get draft state", http.StatusInternalServerError)
		return
	}
	if snap == nil {
		http.Error(w, draft.ErrDraftNotFound.Error(), http.StatusNotFound)
		return
	}

	state, err := LoadDraftState(r.Context(), h.stateProvider, snap.Draft.ID)
	if err != nil {
		writeStateError(w, snap.Draft.ID, err)
		return
	}
	writeJSON(w, state)
}

// HandleConnectionStats returns statistics about active connections
func (h *Handler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.connectionManager.Stats())
}

func stateEvent(state *DraftState) (*DraftEvent, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return &DraftEvent{
		DraftID:   state.DraftID,
		Type:      EventTypeDraftState,
		Timestamp: state.UpdatedAt,
		Data:      data,
	}, nil
}

func writeStateError(w http.ResponseWriter, draftID uuid.UUID, err error) {
	if errors.Is(err, draft.ErrDraftNotFound) {
		http.Error(w, draft.ErrDraftNotFound.Error(), http.StatusNotFound)
		return
	}
	log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to get draft state")
	http.Error(w, "failed to get draft state", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
