package draft

import (
	"github.com/google/uuid"
	"github.com/mcdev12/playoffpool/go/internal/draft/snake"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

// CreateDraftRequest starts a fresh draft. Zero values select the current
// season year and the configured number of rounds.
type CreateDraftRequest struct {
	SeasonYear  int `json:"season_year"`
	TotalRounds int `json:"total_rounds"`
}

// MakePickRequest submits a selection. Override skips the turn check and
// is only honoured for callers holding the admin capability.
type MakePickRequest struct {
	DraftID       uuid.UUID `json:"draft_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	Override      bool      `json:"override"`
}

// MakePickResult is everything a successful pick committed.
type MakePickResult struct {
	Pick        models.DraftPick        `json:"pick"`
	RosterEntry models.RosterEntry      `json:"roster_entry"`
	State       snake.State             `json:"state"`
	NextPicker  *models.DraftOrderEntry `json:"next_picker,omitempty"`
}

func stateOf(d *models.Draft) snake.State {
	return snake.State{
		TotalRounds:  d.TotalRounds,
		CurrentRound: d.CurrentRound,
		CurrentPick:  d.CurrentPick,
		IsComplete:   d.IsComplete,
	}
}

func applyState(d *models.Draft, s snake.State) {
	d.CurrentRound = s.CurrentRound
	d.CurrentPick = s.CurrentPick
	d.IsComplete = s.IsComplete
}
