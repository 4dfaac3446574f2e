package espn_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/playoffpool/go/internal/models"
)

const teamsJSON = `{"sports":[{"leagues":[{"teams":[
	{"team":{"id":"12","abbreviation":"KC","displayName":"Kansas City Chiefs"}},
	{"team":{"id":"99","abbreviation":"BAD","displayName":"Broken"}}
]}]}]}`

const rosterJSON = `{"athletes":[
	{"position":"offense","items":[
		{"id":"3139477","displayName":"Patrick Mahomes","jersey":"15","position":{"abbreviation":"QB"}},
		{"id":"15847","displayName":"Travis Kelce","position":{"abbreviation":"TE"}},
		{"id":"1","displayName":"Some Tackle","position":{"abbreviation":"OT"}}
	]},
	{"position":"defense","items":[
		{"id":"2","displayName":"Chris Jones","position":{"abbreviation":"DT"}}
	]}
]}`

const summaryJSON = `{"boxscore":{"players":[{"statistics":[
	{"name":"passing","athletes":[{"athlete":{"id":"3139477","displayName":"Patrick Mahomes","position":{"abbreviation":"QB"}},"stats":["23/35","285","8.1","3","1","2-14","101.2"]}]},
	{"name":"rushing","athletes":[{"athlete":{"id":"3139477","displayName":"Patrick Mahomes"},"stats":["5","31","6.2","0","12"]}]},
	{"name":"receiving","athletes":[{"athlete":{"id":"15847","displayName":"Travis Kelce"},"stats":["7","1,02","14.6","1","35","9"]}]},
	{"name":"fumbles","athletes":[{"athlete":{"id":"15847","displayName":"Travis Kelce"},"stats":["1","1","0"]}]}
]}]}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *ESPNClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewESPNClient(Config{BaseURL: srv.URL})
}

func TestFetchFantasyPlayers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teams":
			assert.Equal(t, "32", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(teamsJSON))
		case "/teams/12/roster":
			_, _ = w.Write([]byte(rosterJSON))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})

	players, err := c.FetchFantasyPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, "3139477", players[0].ID)
	assert.Equal(t, "Patrick Mahomes", players[0].DisplayName)
	assert.Equal(t, "QB", players[0].Position.Abbreviation)
	assert.Equal(t, "KC", players[0].TeamAbbreviation)
	assert.Contains(t, string(players[0].Raw), `"jersey":"15"`)
	assert.Equal(t, "TE", players[1].Position.Abbreviation)
}

func TestScoreboardQuery(t *testing.T) {
	tests := []struct {
		week, wantType, wantWeek int
	}{
		{1, SeasonTypeRegular, 1},
		{18, SeasonTypeRegular, 18},
		{19, SeasonTypePost, 1},
		{22, SeasonTypePost, 4},
	}
	for _, tt := range tests {
		st, w := ScoreboardQuery(tt.week)
		assert.Equal(t, tt.wantType, st, "week %d", tt.week)
		assert.Equal(t, tt.wantWeek, w, "week %d", tt.week)
	}
}

func TestFetchWeeklyStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/scoreboard":
			assert.Equal(t, "3", r.URL.Query().Get("seasontype"))
			assert.Equal(t, "1", r.URL.Query().Get("week"))
			assert.Equal(t, "2025", r.URL.Query().Get("dates"))
			_, _ = w.Write([]byte(`{"events":[{"id":"401"},{"id":"402"}]}`))
		case "/summary":
			if r.URL.Query().Get("event") == "402" {
				http.Error(w, "gone", http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(summaryJSON))
		}
	})

	stats, err := c.FetchWeeklyStats(context.Background(), 2025, 19)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, models.StatLine{
		ESPNID:            "3139477",
		Name:              "Patrick Mahomes",
		Position:          "QB",
		PassingYards:      285,
		PassingTouchdowns: 3,
		Interceptions:     1,
		RushingYards:      31,
	}, stats["3139477"])

	kelce := stats["15847"]
	assert.Equal(t, 7, kelce.Receptions)
	assert.Equal(t, 102, kelce.ReceivingYards)
	assert.Equal(t, 1, kelce.ReceivingTouchdowns)
	assert.Equal(t, 1, kelce.FumblesLost)
}

func TestFetchWeeklyStatsScoreboardError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	_, err := c.FetchWeeklyStats(context.Background(), 2025, 3)
	assert.Error(t, err)
}

func TestStatInt(t *testing.T) {
	for in, want := range map[string]int{
		"285":   285,
		"23/35": 23,
		"1,024": 1024,
		"-3":    -3,
		"":      0,
		"--":    0,
	} {
		assert.Equal(t, want, statInt(in), in)
	}
}
