package models

import (
	"time"

	"github.com/google/uuid"
)

// Season is a participant's container for one pool year. Roster entries
// and weekly scores hang off it.
type Season struct {
	ID            uuid.UUID `json:"id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	Year          int       `json:"year"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
