package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/playoffpool/go/internal/draft/events"
)

// DraftEvent is the frame pushed to websocket clients.
type DraftEvent struct {
	ID        string          `json:"id"`        // Event UUID, empty for snapshots
	DraftID   string          `json:"draft_id"`  // Draft UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // When the outbox row was relayed
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of draft event
type EventType string

const (
	EventTypeDraftCreated   EventType = events.TypeDraftCreated
	EventTypePickMade       EventType = events.TypePickMade
	EventTypeDraftCompleted EventType = events.TypeDraftCompleted
	EventTypeDraftDeleted   EventType = events.TypeDraftDeleted

	// EventTypeDraftState carries a DraftState and is sent once when a
	// client connects.
	EventTypeDraftState EventType = "DraftState"
)

// FromEnvelope converts a relayed outbox envelope into a client frame.
func FromEnvelope(env events.Envelope) (*DraftEvent, error) {
	switch t := EventType(env.EventType); t {
	case EventTypeDraftCreated, EventTypePickMade, EventTypeDraftCompleted, EventTypeDraftDeleted:
		return &DraftEvent{
			ID:        env.EventID,
			DraftID:   env.DraftID,
			Type:      t,
			Timestamp: env.Timestamp,
			Data:      env.Payload,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", env.EventType)
	}
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *DraftEvent) (interface{}, error) {
	var target interface{}
	switch event.Type {
	case EventTypeDraftCreated:
		target = &events.DraftCreatedPayload{}
	case EventTypePickMade:
		target = &events.PickMadePayload{}
	case EventTypeDraftCompleted:
		target = &events.DraftCompletedPayload{}
	case EventTypeDraftDeleted:
		target = &events.DraftDeletedPayload{}
	case EventTypeDraftState:
		target = &DraftState{}
	default:
		return nil, nil // Unknown event type
	}
	if err := json.Unmarshal(event.Data, target); err != nil {
		return nil, err
	}
	return target, nil
}
