package player

import (
	"encoding/json"

	"github.com/google/uuid"
)

// DefaultSearchLimit caps search results when no limit is given
const DefaultSearchLimit = 100

// SearchPlayersRequest matches name, team or position case-insensitively
type SearchPlayersRequest struct {
	Query        string `json:"query"`
	EligibleOnly bool   `json:"eligible_only"`
	Limit        int    `json:"limit"`
}

// ListAvailableRequest lists eligible players not yet picked in a draft
type ListAvailableRequest struct {
	DraftID uuid.UUID `json:"draft_id"`
	Query   string    `json:"query"`
	Limit   int       `json:"limit"`
}

// UpsertPlayerParams is one catalog row from a sync or import. Rows with an
// ESPN id are matched on it, others on name and team.
type UpsertPlayerParams struct {
	ESPNID   *string
	Name     string
	Position string
	Team     string
	// Eligible overrides eligibility when set. New rows default to eligible.
	Eligible *bool
	Metadata json.RawMessage
}

// SyncResult represents the result of syncing or importing players
type SyncResult struct {
	TotalProcessed int      `json:"total_processed"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Errors         []string `json:"errors,omitempty"`
}

// EligibilityStats summarises the draftable pool
type EligibilityStats struct {
	Total    int            `json:"total"`
	Eligible int            `json:"eligible"`
	ByTeam   []TeamEligible `json:"by_team"`
}

type TeamEligible struct {
	Team     string `json:"team"`
	Total    int    `json:"total"`
	Eligible int    `json:"eligible"`
}
