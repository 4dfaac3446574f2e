package scoring

import (
	"math"

	"github.com/mcdev12/playoffpool/go/internal/models"
)

// Rules weights each box-score stat. Yard rules are "yards per point".
type Rules struct {
	PassingYardsPerPoint   float64 `json:"passing_yards_per_point" yaml:"passing_yards_per_point"`
	PassingTouchdown       float64 `json:"passing_touchdown" yaml:"passing_touchdown"`
	Interception           float64 `json:"interception" yaml:"interception"`
	RushingYardsPerPoint   float64 `json:"rushing_yards_per_point" yaml:"rushing_yards_per_point"`
	RushingTouchdown       float64 `json:"rushing_touchdown" yaml:"rushing_touchdown"`
	Reception              float64 `json:"reception" yaml:"reception"`
	ReceivingYardsPerPoint float64 `json:"receiving_yards_per_point" yaml:"receiving_yards_per_point"`
	ReceivingTouchdown     float64 `json:"receiving_touchdown" yaml:"receiving_touchdown"`
	FumbleLost             float64 `json:"fumble_lost" yaml:"fumble_lost"`
}

// DefaultRules is half-PPR.
func DefaultRules() Rules {
	return Rules{
		PassingYardsPerPoint:   25,
		PassingTouchdown:       6,
		Interception:           -2,
		RushingYardsPerPoint:   10,
		RushingTouchdown:       6,
		Reception:              0.5,
		ReceivingYardsPerPoint: 10,
		ReceivingTouchdown:     6,
		FumbleLost:             -2,
	}
}

// Points scores one stat line. The result is not floored at zero and is
// rounded to two decimals.
func Points(s models.StatLine, r Rules) float64 {
	var pts float64
	pts += perYards(s.PassingYards, r.PassingYardsPerPoint)
	pts += float64(s.PassingTouchdowns) * r.PassingTouchdown
	pts += float64(s.Interceptions) * r.Interception

	pts += perYards(s.RushingYards, r.RushingYardsPerPoint)
	pts += float64(s.RushingTouchdowns) * r.RushingTouchdown

	pts += float64(s.Receptions) * r.Reception
	pts += perYards(s.ReceivingYards, r.ReceivingYardsPerPoint)
	pts += float64(s.ReceivingTouchdowns) * r.ReceivingTouchdown

	pts += float64(s.FumblesLost) * r.FumbleLost
	return round2(pts)
}

func perYards(yards int, perPoint float64) float64 {
	if perPoint == 0 {
		return 0
	}
	return float64(yards) / perPoint
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
