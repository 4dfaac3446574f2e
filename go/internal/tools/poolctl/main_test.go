package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
	"github.com/mcdev12/playoffpool/go/internal/scoring"
)

type fakeScoring struct {
	standings []models.Standing
	synced    []scoring.SyncActualsRequest
	ranges    []scoring.WeekRange
}

func (f *fakeScoring) SyncWeeklyActuals(_ context.Context, req scoring.SyncActualsRequest) (*scoring.SyncActualsResult, error) {
	f.synced = append(f.synced, req)
	return &scoring.SyncActualsResult{Fetched: 40, Updated: 31, Skipped: 9}, nil
}

func (f *fakeScoring) CalculateRosterScores(context.Context, scoring.CalculateScoresRequest) (*scoring.CalculateScoresResult, error) {
	return &scoring.CalculateScoresResult{PlayoffWeek: 1}, nil
}

func (f *fakeScoring) SyncWeeklyActualsRange(_ context.Context, r scoring.WeekRange) (*scoring.RangeResult, error) {
	f.ranges = append(f.ranges, r)
	return &scoring.RangeResult{}, nil
}

func (f *fakeScoring) CalculateRosterScoresRange(_ context.Context, r scoring.WeekRange) (*scoring.RangeResult, error) {
	f.ranges = append(f.ranges, r)
	return &scoring.RangeResult{}, nil
}

func (f *fakeScoring) SyncProjections(context.Context, scoring.SyncProjectionsRequest) (*scoring.SyncProjectionsResult, error) {
	return &scoring.SyncProjectionsResult{}, nil
}

func (f *fakeScoring) SyncProjectionsRange(_ context.Context, r scoring.WeekRange) (*scoring.RangeResult, error) {
	f.ranges = append(f.ranges, r)
	return &scoring.RangeResult{}, nil
}

func (f *fakeScoring) GetStandings(context.Context, int) ([]models.Standing, error) {
	return f.standings, nil
}

func (f *fakeScoring) GetRosterWithScores(context.Context, uuid.UUID, int) ([]models.RosterEntryScore, error) {
	return nil, nil
}

func (f *fakeScoring) Rules() scoring.Rules { return scoring.DefaultRules() }

func serve(t *testing.T, app scoring.ScoringApp) string {
	t.Helper()
	mux := http.NewServeMux()
	rpc.Mount(mux, scoring.NewService(app).Routes())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStandingsTable(t *testing.T) {
	app := &fakeScoring{standings: []models.Standing{
		{ParticipantID: uuid.New(), ParticipantName: "Avery", TotalPoints: 88.5, Rank: 1},
		{ParticipantID: uuid.New(), ParticipantName: "Blake", TotalPoints: 71.25, Rank: 2},
	}}
	url := serve(t, app)

	out, err := run(t, "--server", url, "standings")
	require.NoError(t, err)
	assert.Contains(t, out, "Avery")
	assert.Contains(t, out, "88.50")
	assert.Contains(t, out, "71.25")
}

func TestStandingsJSONFromEnv(t *testing.T) {
	app := &fakeScoring{standings: []models.Standing{{ParticipantName: "Avery", TotalPoints: 10, Rank: 1}}}
	t.Setenv("POOL_SERVER", serve(t, app))
	t.Setenv("POOL_JSON", "true")

	out, err := run(t, "standings")
	require.NoError(t, err)

	var got []models.Standing
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Avery", got[0].ParticipantName)
}

func TestScoresSyncPassesSeasonAndWeek(t *testing.T) {
	app := &fakeScoring{}
	url := serve(t, app)

	// No token: the handler rejects the admin call.
	_, err := run(t, "--server", url, "scores", "sync", "--season", "2025", "--week", "19")
	require.Error(t, err)
	assert.Empty(t, app.synced)

	_, err = run(t, "--server", url, "scores", "sync", "--season", "2025")
	assert.ErrorContains(t, err, "week")
}

func TestScoresWeekSelection(t *testing.T) {
	app := &fakeScoring{}
	url := serve(t, app)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"week and range", []string{"scores", "projections", "--season", "2025", "--week", "19", "--from", "19"}, "not both"},
		{"half a range", []string{"scores", "calculate", "--season", "2025", "--from", "19"}, "both --from and --to"},
		{"nothing", []string{"scores", "projections", "--season", "2025"}, "--week"},
		{"zero week", []string{"scores", "sync", "--season", "2025", "--week", "0"}, "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"--server", url}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	// A complete range reaches the server, which refuses it without a token.
	_, err := run(t, "--server", url, "scores", "sync", "--season", "2025", "--from", "19", "--to", "22")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "--from")
	assert.Empty(t, app.ranges)
}

func TestRenderRange(t *testing.T) {
	var out bytes.Buffer
	renderRange(&out, &scoring.RangeResult{
		Weeks: []scoring.WeekOutcome{
			{NFLWeek: 19, Updated: 31, Skipped: 4},
			{NFLWeek: 20, Error: "stats unavailable"},
		},
		TotalUpdated: 31,
		Failed:       1,
	})
	assert.Contains(t, out.String(), "stats unavailable")
	assert.Contains(t, out.String(), "31")
	assert.Contains(t, out.String(), "1 failed")
}

func TestDraftDeleteNeedsConfirmation(t *testing.T) {
	_, err := run(t, "--server", "http://127.0.0.1:1", "draft", "delete", "--season", "2025")
	assert.ErrorContains(t, err, "--yes")
}

func TestDraftPickValidatesIDs(t *testing.T) {
	_, err := run(t, "--server", "http://127.0.0.1:1", "draft", "pick", "--participant", "me", "--player", uuid.NewString())
	assert.ErrorContains(t, err, "--participant")
}

func TestSplitTeams(t *testing.T) {
	assert.Equal(t, []string{"KC", "BUF"}, splitTeams(" kc, BUF ,,"))
	assert.Nil(t, splitTeams(""))
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("players.XLSX", "")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(f))

	f, err = resolveFormat("players.txt", "csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", string(f))

	_, err = resolveFormat("players.txt", "")
	assert.Error(t, err)
}
