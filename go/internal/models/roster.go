package models

import (
	"time"

	"github.com/google/uuid"
)

// AcquisitionType records how a player landed on a roster.
type AcquisitionType string

const (
	AcquisitionTypeDraft AcquisitionType = "DRAFT"
	AcquisitionTypeAdmin AcquisitionType = "ADMIN"
)

// RosterEntry links a participant to a player for a season. The player
// fields are frozen when the entry is created and do not follow later
// catalog edits.
type RosterEntry struct {
	ID              uuid.UUID       `json:"id"`
	ParticipantID   uuid.UUID       `json:"participant_id"`
	SeasonID        uuid.UUID       `json:"season_id"`
	PlayerID        uuid.UUID       `json:"player_id"`
	PickID          *uuid.UUID      `json:"pick_id,omitempty"`
	PlayerName      string          `json:"player_name"`
	PlayerPosition  string          `json:"player_position"`
	PlayerTeam      string          `json:"player_team"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	AcquiredAt      time.Time       `json:"acquired_at"`
}
