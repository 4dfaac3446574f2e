package models

import (
	"time"

	"github.com/google/uuid"
)

// StatLine is one player's box-score totals for a week.
type StatLine struct {
	ESPNID              string `json:"espn_id"`
	Name                string `json:"name"`
	Position            string `json:"position"`
	PassingYards        int    `json:"passing_yards"`
	PassingTouchdowns   int    `json:"passing_touchdowns"`
	Interceptions       int    `json:"interceptions"`
	RushingYards        int    `json:"rushing_yards"`
	RushingTouchdowns   int    `json:"rushing_touchdowns"`
	Receptions          int    `json:"receptions"`
	ReceivingYards      int    `json:"receiving_yards"`
	ReceivingTouchdowns int    `json:"receiving_touchdowns"`
	FumblesLost         int    `json:"fumbles_lost"`
}

// HasActivity reports whether the line records passing or rushing yards or
// any catches.
func (s StatLine) HasActivity() bool {
	return s.PassingYards != 0 || s.RushingYards != 0 || s.Receptions != 0
}

// WeeklyActual is a player's real production and fantasy points for an NFL week.
type WeeklyActual struct {
	ID            uuid.UUID `json:"id"`
	PlayerID      uuid.UUID `json:"player_id"`
	ESPNID        string    `json:"espn_id"`
	Season        int       `json:"season"`
	Week          int       `json:"week"`
	FantasyPoints float64   `json:"fantasy_points"`
	Stats         StatLine  `json:"stats"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WeeklyScore credits a roster entry with points for a playoff week (1-4).
type WeeklyScore struct {
	ID            uuid.UUID `json:"id"`
	RosterEntryID uuid.UUID `json:"roster_entry_id"`
	Week          int       `json:"week"`
	Points        float64   `json:"points"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Standing is one participant's aggregate score for a season year.
type Standing struct {
	ParticipantID   uuid.UUID `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	TotalPoints     float64   `json:"total_points"`
	Rank            int       `json:"rank"`
}

// RosterEntryScore is a roster entry with its per-week points.
type RosterEntryScore struct {
	RosterEntry
	WeekPoints  map[int]float64 `json:"week_points"`
	TotalPoints float64         `json:"total_points"`
}

// Projection is a projected half-PPR score for a player matched to the
// projections source. HasProjection is false when the source knows the
// player but published nothing for the week.
type Projection struct {
	ESPNID        string  `json:"espn_id"`
	SourceID      string  `json:"source_id"`
	Points        float64 `json:"points"`
	HasProjection bool    `json:"has_projection"`
}
