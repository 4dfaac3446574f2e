package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick is an immutable record of one selection.
type DraftPick struct {
	ID            uuid.UUID `json:"id"`
	DraftID       uuid.UUID `json:"draft_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	Round         int       `json:"round"`
	PickInRound   int       `json:"pick_in_round"`
	PickNumber    int       `json:"pick_number"` // overall, 1-based
	IsOverride    bool      `json:"is_override"`
	PickedAt      time.Time `json:"picked_at"`
}

// DraftPickDetail is a pick joined with display names.
type DraftPickDetail struct {
	DraftPick
	ParticipantName string `json:"participant_name"`
	PlayerName      string `json:"player_name"`
	PlayerPosition  string `json:"player_position"`
	PlayerTeam      string `json:"player_team"`
}
