package roster

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrRosterEntryNotFound  = errors.New("roster entry not found")
	ErrDuplicateRosterEntry = errors.New("player is already on this roster")
)

// AddRosterEntryRequest is an admin direct add. A zero season year selects
// the current season.
type AddRosterEntryRequest struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	SeasonYear    int       `json:"season_year"`
	PlayerID      uuid.UUID `json:"player_id"`
}
