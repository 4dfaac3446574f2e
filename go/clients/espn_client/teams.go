package espn_client

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/models"
)

type Team struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type teamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team Team `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// Athlete is one roster item. Raw keeps the full ESPN object.
type Athlete struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Jersey      string `json:"jersey"`
	Position    struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Status struct {
		Type string `json:"type"`
	} `json:"status"`
	Headshot struct {
		Href string `json:"href"`
	} `json:"headshot"`

	Raw json.RawMessage `json:"-"`
}

type rosterResponse struct {
	Athletes []struct {
		Position string            `json:"position"`
		Items    []json.RawMessage `json:"items"`
	} `json:"athletes"`
}

// RosterPlayer is a fantasy-relevant athlete tagged with its team.
type RosterPlayer struct {
	Athlete
	TeamAbbreviation string
}

// GetNFLTeams lists the league's teams.
func (c *ESPNClient) GetNFLTeams(ctx context.Context) ([]Team, error) {
	body, err := c.Get(ctx, teamsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get NFL teams: %w", err)
	}

	var response teamsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal teams response: %w", err)
	}

	var teams []Team
	for _, sport := range response.Sports {
		for _, league := range sport.Leagues {
			for _, t := range league.Teams {
				teams = append(teams, t.Team)
			}
		}
	}
	return teams, nil
}

// GetOffense returns the offense group of a team's roster.
func (c *ESPNClient) GetOffense(ctx context.Context, teamID string) ([]Athlete, error) {
	body, err := c.Get(ctx, fmt.Sprintf(rosterPath, teamID))
	if err != nil {
		return nil, fmt.Errorf("failed to get team roster: %w", err)
	}

	var response rosterResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster response: %w", err)
	}

	var out []Athlete
	for _, group := range response.Athletes {
		if group.Position != offenseGroup {
			continue
		}
		for _, raw := range group.Items {
			var a Athlete
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("failed to unmarshal athlete: %w", err)
			}
			a.Raw = raw
			out = append(out, a)
		}
	}
	return out, nil
}

// FetchFantasyPlayers walks every team roster and keeps QB, RB, WR and TE
// from the offense group. A team whose roster fails is logged and skipped.
func (c *ESPNClient) FetchFantasyPlayers(ctx context.Context) ([]RosterPlayer, error) {
	teams, err := c.GetNFLTeams(ctx)
	if err != nil {
		return nil, err
	}

	var players []RosterPlayer
	for _, team := range teams {
		athletes, err := c.GetOffense(ctx, team.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("team", team.Abbreviation).Msg("skipping team roster")
			continue
		}
		for _, a := range athletes {
			if !slices.Contains(models.FantasyPositions, a.Position.Abbreviation) {
				continue
			}
			players = append(players, RosterPlayer{Athlete: a, TeamAbbreviation: team.Abbreviation})
		}
	}
	return players, nil
}
