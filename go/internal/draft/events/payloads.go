package events

import (
	"encoding/json"
	"time"
)

// Event types written to the draft outbox. They double as the last token
// of the JetStream subject.
const (
	TypeDraftCreated   = "DraftCreated"
	TypePickMade       = "PickMade"
	TypeDraftCompleted = "DraftCompleted"
	TypeDraftDeleted   = "DraftDeleted"
)

// Event payload types that are shared between draft and gateway packages

// OrderEntry is one slot of the draft order as carried in events.
type OrderEntry struct {
	ParticipantID   string `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
	Position        int    `json:"position"`
}

// DraftCreatedPayload is the payload for a DraftCreated event
type DraftCreatedPayload struct {
	DraftID     string       `json:"draft_id"`
	SeasonYear  int          `json:"season_year"`
	TotalRounds int          `json:"total_rounds"`
	TotalPicks  int          `json:"total_picks"`
	Order       []OrderEntry `json:"order"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID          string    `json:"pick_id"`
	DraftID         string    `json:"draft_id"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	PlayerID        string    `json:"player_id"`
	PlayerName      string    `json:"player_name"`
	PlayerPosition  string    `json:"player_position"`
	PlayerTeam      string    `json:"player_team"`
	Round           int       `json:"round"`
	PickInRound     int       `json:"pick_in_round"`
	PickNumber      int       `json:"pick_number"`
	IsOverride      bool      `json:"is_override"`
	NextRound       int       `json:"next_round"`
	NextPick        int       `json:"next_pick"`
	MadeAt          time.Time `json:"made_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftDeletedPayload is the payload for a DraftDeleted event
type DraftDeletedPayload struct {
	DraftID    string    `json:"draft_id"`
	SeasonYear int       `json:"season_year"`
	DeletedAt  time.Time `json:"deleted_at"`
}

// NotifyChannel is the Postgres channel the outbox insert notifies with the
// new row id.
const NotifyChannel = "draft_outbox_events"

// JetStream layout shared by the outbox relay and the gateway.
const (
	StreamName    = "DRAFT_EVENTS"
	SubjectPrefix = "draft.events"
)

// Subject is the JetStream subject an event type is published on.
func Subject(eventType string) string {
	return SubjectPrefix + "." + eventType
}

// Envelope is the message body published for every outbox row.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	DraftID   string          `json:"draftId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}
