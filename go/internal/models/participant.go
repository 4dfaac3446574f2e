package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person drafting in the pool.
type Participant struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	ExternalAuthID *string   `json:"external_auth_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
