package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Fallbacks used when a source does not report a position or team.
const (
	UnknownPosition = "UNK"
	FreeAgentTeam   = "FA"
)

// FantasyPositions are the positions the pool drafts.
var FantasyPositions = []string{"QB", "RB", "WR", "TE"}

// Player is an entry in the player catalog.
type Player struct {
	ID         uuid.UUID       `json:"id"`
	ESPNID     *string         `json:"espn_id,omitempty"`
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Team       string          `json:"team"`
	IsEligible bool            `json:"is_eligible"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`

	// ProjectedPoints is the most recently synced weekly projection.
	ProjectedPoints      *float64   `json:"projected_points,omitempty"`
	ProjectionsUpdatedAt *time.Time `json:"projections_updated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerSnapshot is the identity of a player frozen at a point in time.
type PlayerSnapshot struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

// Snapshot captures the player's current identity fields.
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{Name: p.Name, Position: p.Position, Team: p.Team}
}
