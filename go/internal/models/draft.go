package models

import (
	"time"

	"github.com/google/uuid"
)

// Draft is the snake draft for one season year.
type Draft struct {
	ID           uuid.UUID `json:"id"`
	SeasonYear   int       `json:"season_year"`
	TotalRounds  int       `json:"total_rounds"`
	CurrentRound int       `json:"current_round"`
	CurrentPick  int       `json:"current_pick"`
	IsComplete   bool      `json:"is_complete"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DraftOrderEntry places one participant in the draft order. Positions are
// 1-based and contiguous.
type DraftOrderEntry struct {
	DraftID         uuid.UUID `json:"draft_id"`
	ParticipantID   uuid.UUID `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	Position        int       `json:"position"`
}

// DraftSnapshot is a read-only view of a draft and its order.
type DraftSnapshot struct {
	Draft Draft             `json:"draft"`
	Order []DraftOrderEntry `json:"order"`
}
