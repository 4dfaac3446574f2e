package scoring

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotPlayoffWeek  = errors.New("not a playoff week")

	// ErrStatsUnavailable wraps failures of the box-score source.
	ErrStatsUnavailable = errors.New("weekly stats unavailable")

	// ErrProjectionsUnavailable wraps failures of the projections source,
	// including a week with nothing published.
	ErrProjectionsUnavailable = errors.New("weekly projections unavailable")
)

const (
	// FirstPlayoffWeek is the NFL week of the wild card round.
	FirstPlayoffWeek = 19
	PlayoffWeeks     = 4
	maxNFLWeek       = FirstPlayoffWeek + PlayoffWeeks - 1
)

// PlayoffWeek maps NFL weeks 19..22 to pool weeks 1..4.
func PlayoffWeek(nflWeek int) (int, bool) {
	if nflWeek < FirstPlayoffWeek || nflWeek > maxNFLWeek {
		return 0, false
	}
	return nflWeek - FirstPlayoffWeek + 1, true
}

// SyncActualsRequest names the NFL week to pull from ESPN. Season zero
// selects the current season.
type SyncActualsRequest struct {
	Season  int `json:"season"`
	NFLWeek int `json:"nfl_week"`
}

// SyncActualsResult counts catalog players by outcome.
type SyncActualsResult struct {
	Fetched int `json:"fetched"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type CalculateScoresRequest struct {
	Season  int `json:"season"`
	NFLWeek int `json:"nfl_week"`
}

// CalculateScoresResult counts roster entries. Entries whose player has no
// actuals for the week are skipped, not scored as zero.
type CalculateScoresResult struct {
	PlayoffWeek int `json:"playoff_week"`
	Updated     int `json:"updated"`
	Skipped     int `json:"skipped"`
}

// WeekRange selects NFL weeks StartWeek through EndWeek inclusive. Season
// zero selects the current season.
type WeekRange struct {
	Season    int `json:"season"`
	StartWeek int `json:"start_week"`
	EndWeek   int `json:"end_week"`
}

// WeekOutcome reports one week of a range run. Error is set when that week
// failed; the run moves on to the next week.
type WeekOutcome struct {
	NFLWeek int    `json:"nfl_week"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// RangeResult collects the per-week outcomes of a range run.
type RangeResult struct {
	Weeks        []WeekOutcome `json:"weeks"`
	TotalUpdated int           `json:"total_updated"`
	Failed       int           `json:"failed"`
}

type SyncProjectionsRequest struct {
	Season  int `json:"season"`
	NFLWeek int `json:"nfl_week"`
}

// SyncProjectionsResult counts catalog players. NoProjection players were
// matched and stored with zero; NoMatch players are unknown to the source.
type SyncProjectionsResult struct {
	Updated      int `json:"updated"`
	NoProjection int `json:"no_projection"`
	NoMatch      int `json:"no_match"`
}

// WeeklyActualParams is the row written for one player's week.
type WeeklyActualParams struct {
	PlayerID      uuid.UUID
	ESPNID        string
	Season        int
	Week          int
	FantasyPoints float64
	Stats         []byte
}

// WeeklyProjectionParams is the row written for one player's projected week.
type WeeklyProjectionParams struct {
	PlayerID        uuid.UUID
	Season          int
	Week            int
	ProjectedPoints float64
}

// ParticipantTotal is an unranked standings row.
type ParticipantTotal struct {
	ParticipantID   uuid.UUID
	ParticipantName string
	TotalPoints     float64
}

// EntryWeekPoints is one weekly_scores row keyed by roster entry.
type EntryWeekPoints struct {
	RosterEntryID uuid.UUID
	Week          int
	Points        float64
}
