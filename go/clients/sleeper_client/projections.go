package sleeper_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/clients"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

// Player is the part of a Sleeper player record used for matching.
type Player struct {
	PlayerID string `json:"player_id"`
	ESPNID   espnID `json:"espn_id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Active   bool   `json:"active"`
}

// espnID accepts the number or string forms Sleeper uses for espn_id.
type espnID string

func (e *espnID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = espnID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("espn_id: %w", err)
	}
	*e = espnID(n.String())
	return nil
}

type projectionRow struct {
	PlayerID string `json:"player_id"`
	Stats    struct {
		PtsHalfPPR *float64 `json:"pts_half_ppr"`
	} `json:"stats"`
}

// SeasonType maps an NFL week to Sleeper's season_type and in-type week.
func SeasonType(nflWeek int) (string, int) {
	if nflWeek <= lastRegularSeasonWeek {
		return SeasonTypeRegular, nflWeek
	}
	return SeasonTypePost, nflWeek - lastRegularSeasonWeek
}

// GetPlayers returns every NFL player Sleeper knows, keyed by Sleeper id.
func (c *SleeperClient) GetPlayers(ctx context.Context) (map[string]Player, error) {
	body, err := c.Get(ctx, playersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	var players map[string]Player
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %w", err)
	}
	for id, p := range players {
		if p.PlayerID == "" {
			p.PlayerID = id
			players[id] = p
		}
	}
	return players, nil
}

// GetProjections returns half-PPR projections keyed by Sleeper id. A week
// Sleeper has not published yet is an empty map.
func (c *SleeperClient) GetProjections(ctx context.Context, season, nflWeek int) (map[string]float64, error) {
	seasonType, week := SeasonType(nflWeek)
	body, err := c.Get(ctx, fmt.Sprintf(projectionsPath, season, week, seasonType))
	var status *clients.StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get projections: %w", err)
	}

	var rows []projectionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal projections: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		if r.PlayerID == "" || r.Stats.PtsHalfPPR == nil {
			continue
		}
		out[r.PlayerID] = *r.Stats.PtsHalfPPR
	}
	return out, nil
}

// FetchProjections joins Sleeper's player dump to its weekly projections
// and keys the result by ESPN id. Players without an ESPN id are dropped.
// Points are rounded to whole numbers.
func (c *SleeperClient) FetchProjections(ctx context.Context, season, nflWeek int) (map[string]models.Projection, error) {
	players, err := c.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	projections, err := c.GetProjections(ctx, season, nflWeek)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("season", season).
		Int("week", nflWeek).
		Int("players", len(players)).
		Int("projections", len(projections)).
		Msg("fetched sleeper projections")

	out := make(map[string]models.Projection, len(projections))
	for _, p := range players {
		if p.ESPNID == "" {
			continue
		}
		proj := models.Projection{ESPNID: string(p.ESPNID), SourceID: p.PlayerID}
		if pts, ok := projections[p.PlayerID]; ok {
			proj.Points = math.Round(pts)
			proj.HasProjection = true
		}
		out[proj.ESPNID] = proj
	}
	return out, nil
}
