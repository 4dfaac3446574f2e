package espn_client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/models"
)

type scoreboardResponse struct {
	Events []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"events"`
}

type summaryResponse struct {
	Boxscore struct {
		Players []struct {
			Statistics []statCategory `json:"statistics"`
		} `json:"players"`
	} `json:"boxscore"`
}

type statCategory struct {
	Name     string `json:"name"`
	Athletes []struct {
		Athlete struct {
			ID          string `json:"id"`
			DisplayName string `json:"displayName"`
			Position    struct {
				Abbreviation string `json:"abbreviation"`
			} `json:"position"`
		} `json:"athlete"`
		Stats []string `json:"stats"`
	} `json:"athletes"`
}

// ScoreboardQuery maps an NFL week (1..18 regular season, 19+ postseason)
// to ESPN's season type and in-type week.
func ScoreboardQuery(nflWeek int) (seasonType, week int) {
	if nflWeek <= lastRegularSeasonWeek {
		return SeasonTypeRegular, nflWeek
	}
	return SeasonTypePost, nflWeek - lastRegularSeasonWeek
}

// GetEventIDs lists the games on the scoreboard for an NFL week.
func (c *ESPNClient) GetEventIDs(ctx context.Context, season, nflWeek int) ([]string, error) {
	seasonType, week := ScoreboardQuery(nflWeek)
	endpoint := fmt.Sprintf(scoreboardPath, seasonType, week)
	if season > 0 {
		endpoint += "&dates=" + strconv.Itoa(season)
	}

	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get scoreboard: %w", err)
	}

	var response scoreboardResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	ids := make([]string, 0, len(response.Events))
	for _, e := range response.Events {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

// FetchWeeklyStats merges the box scores of every game in the week. Games
// whose summary cannot be read are logged and skipped.
func (c *ESPNClient) FetchWeeklyStats(ctx context.Context, season, nflWeek int) (map[string]models.StatLine, error) {
	events, err := c.GetEventIDs(ctx, season, nflWeek)
	if err != nil {
		return nil, err
	}
	log.Info().Int("season", season).Int("week", nflWeek).Int("games", len(events)).Msg("fetched scoreboard")

	stats := make(map[string]models.StatLine)
	for _, id := range events {
		body, err := c.Get(ctx, fmt.Sprintf(summaryPath, id))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("event_id", id).Msg("skipping game summary")
			continue
		}
		if err := ParseSummary(body, stats); err != nil {
			log.Warn().Err(err).Str("event_id", id).Msg("skipping unreadable game summary")
		}
	}
	return stats, nil
}

// ParseSummary folds one ESPN game summary into stats.
func ParseSummary(body []byte, stats map[string]models.StatLine) error {
	var response summaryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("failed to unmarshal game summary: %w", err)
	}

	for _, team := range response.Boxscore.Players {
		for _, category := range team.Statistics {
			for _, a := range category.Athletes {
				line, ok := stats[a.Athlete.ID]
				if !ok {
					line = models.StatLine{
						ESPNID:   a.Athlete.ID,
						Name:     a.Athlete.DisplayName,
						Position: a.Athlete.Position.Abbreviation,
					}
				}
				applyCategory(&line, category.Name, a.Stats)
				stats[a.Athlete.ID] = line
			}
		}
	}
	return nil
}

// applyCategory reads the positional stat columns ESPN uses per category.
func applyCategory(line *models.StatLine, category string, s []string) {
	switch {
	case category == "passing" && len(s) >= 5:
		line.PassingYards = statInt(s[1])
		line.PassingTouchdowns = statInt(s[3])
		line.Interceptions = statInt(s[4])
	case category == "rushing" && len(s) >= 4:
		line.RushingYards = statInt(s[1])
		line.RushingTouchdowns = statInt(s[3])
	case category == "receiving" && len(s) >= 4:
		line.Receptions = statInt(s[0])
		line.ReceivingYards = statInt(s[1])
		line.ReceivingTouchdowns = statInt(s[3])
	case category == "fumbles" && len(s) >= 2:
		line.FumblesLost = statInt(s[1])
	}
}

// statInt parses the leading integer of an ESPN stat cell ("23/35" is 23).
// Anything unreadable is zero.
func statInt(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
