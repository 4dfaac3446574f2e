package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

type testDeps struct {
	repo        *fakeRepo
	stats       *fakeStats
	projections *fakeProjections
	players     *fakePlayers
	roster      *fakeRoster
	app         *App
}

func newTestDeps() *testDeps {
	d := &testDeps{
		repo:        newFakeRepo(),
		stats:       &fakeStats{},
		projections: &fakeProjections{},
		players:     &fakePlayers{},
		roster:      &fakeRoster{},
	}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC))
	d.app = NewApp(d.repo, d.stats, d.projections, d.players, d.roster, DefaultRules(), clock)
	return d
}

func TestSyncWeeklyActuals(t *testing.T) {
	d := newTestDeps()
	mahomes := espnPlayer("Patrick Mahomes", "3139477")
	kelce := espnPlayer("Travis Kelce", "15847")
	blocker := espnPlayer("Backup Lineman", "999")
	absent := espnPlayer("Injured Reserve", "111")
	d.players.players = []models.Player{mahomes, kelce, blocker, absent, {ID: uuid.New(), Name: "No ESPN id"}}
	d.stats.lines = map[string]models.StatLine{
		"3139477": {ESPNID: "3139477", PassingYards: 250, PassingTouchdowns: 2},
		"15847":   {ESPNID: "15847", Receptions: 4, ReceivingYards: 0},
		"999":     {ESPNID: "999"},
		"555":     {ESPNID: "555", RushingYards: 40},
	}

	res, err := d.app.SyncWeeklyActuals(context.Background(), SyncActualsRequest{NFLWeek: 19})
	require.NoError(t, err)
	assert.Equal(t, &SyncActualsResult{Fetched: 4, Updated: 2, Skipped: 3}, res)
	assert.Equal(t, []string{"2025/19"}, d.stats.calls)

	got, err := d.repo.GetWeeklyActual(context.Background(), mahomes.ID, 2025, 19)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 22.0, got.FantasyPoints, 0.001)
	assert.Equal(t, 250, got.Stats.PassingYards)
	assert.Equal(t, "3139477", got.ESPNID)

	got, err = d.repo.GetWeeklyActual(context.Background(), kelce.ID, 2025, 19)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 2.0, got.FantasyPoints, 0.001)

	got, err = d.repo.GetWeeklyActual(context.Background(), blocker.ID, 2025, 19)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSyncWeeklyActualsErrors(t *testing.T) {
	d := newTestDeps()

	_, err := d.app.SyncWeeklyActuals(context.Background(), SyncActualsRequest{Season: 2025, NFLWeek: 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = d.app.SyncWeeklyActuals(context.Background(), SyncActualsRequest{Season: 2025, NFLWeek: 23})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, d.stats.calls)

	upstream := errors.New("espn returned 503")
	d.stats.err = upstream
	_, err = d.app.SyncWeeklyActuals(context.Background(), SyncActualsRequest{Season: 2025, NFLWeek: 20})
	assert.ErrorIs(t, err, ErrStatsUnavailable)
	assert.ErrorIs(t, err, upstream)
}

func TestCalculateRosterScores(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	alice := uuid.New()
	scored := espnPlayer("Josh Allen", "3918298")
	idle := espnPlayer("Bye Week", "42")

	scoredEntry := d.roster.add(alice, scored.ID, 2025)
	idleEntry := d.roster.add(alice, idle.ID, 2025)
	d.roster.add(alice, scored.ID, 2024)

	require.NoError(t, d.repo.UpsertWeeklyActual(ctx, WeeklyActualParams{
		PlayerID: scored.ID, ESPNID: "3918298", Season: 2025, Week: 20, FantasyPoints: 27.34, Stats: []byte(`{}`),
	}, time.Now()))

	res, err := d.app.CalculateRosterScores(ctx, CalculateScoresRequest{Season: 2025, NFLWeek: 20})
	require.NoError(t, err)
	assert.Equal(t, &CalculateScoresResult{PlayoffWeek: 2, Updated: 1, Skipped: 1}, res)

	assert.Equal(t, 27.34, d.repo.scores[scoreKey{scoredEntry.ID, 2}])
	_, ok := d.repo.scores[scoreKey{idleEntry.ID, 2}]
	assert.False(t, ok, "entries without actuals are not scored")
	assert.Len(t, d.repo.scores, 1)
}

func TestCalculateRosterScoresRejectsRegularSeason(t *testing.T) {
	d := newTestDeps()
	for _, week := range []int{1, 18, 23} {
		_, err := d.app.CalculateRosterScores(context.Background(), CalculateScoresRequest{Season: 2025, NFLWeek: week})
		assert.ErrorIs(t, err, ErrNotPlayoffWeek)
	}
}

func TestSyncWeeklyActualsRange(t *testing.T) {
	d := newTestDeps()
	allen := espnPlayer("Josh Allen", "3918298")
	d.players.players = []models.Player{allen}
	d.stats.lines = map[string]models.StatLine{
		"3918298": {ESPNID: "3918298", PassingYards: 300},
	}
	d.stats.weekErr = map[int]error{20: errors.New("espn returned 502")}

	res, err := d.app.SyncWeeklyActualsRange(context.Background(), WeekRange{StartWeek: 19, EndWeek: 21})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025/19", "2025/20", "2025/21"}, d.stats.calls)
	assert.Equal(t, 2, res.TotalUpdated)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Weeks, 3)
	assert.Equal(t, WeekOutcome{NFLWeek: 19, Updated: 1}, res.Weeks[0])
	assert.Equal(t, 20, res.Weeks[1].NFLWeek)
	assert.Contains(t, res.Weeks[1].Error, "espn returned 502")
	assert.Equal(t, WeekOutcome{NFLWeek: 21, Updated: 1}, res.Weeks[2])

	_, ok := d.repo.actuals[actualKey{allen.ID, 2025, 20}]
	assert.False(t, ok)
}

func TestWeekRangeValidation(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	tests := []struct {
		name string
		run  func(context.Context, WeekRange) (*RangeResult, error)
		r    WeekRange
	}{
		{"actuals start after end", d.app.SyncWeeklyActualsRange, WeekRange{StartWeek: 5, EndWeek: 4}},
		{"actuals past last week", d.app.SyncWeeklyActualsRange, WeekRange{StartWeek: 21, EndWeek: 23}},
		{"actuals week zero", d.app.SyncWeeklyActualsRange, WeekRange{StartWeek: 0, EndWeek: 2}},
		{"scores regular season", d.app.CalculateRosterScoresRange, WeekRange{StartWeek: 18, EndWeek: 19}},
		{"projections start after end", d.app.SyncProjectionsRange, WeekRange{StartWeek: 3, EndWeek: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.run(ctx, tt.r)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
	assert.Empty(t, d.stats.calls)
	assert.Empty(t, d.projections.calls)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := d.app.SyncWeeklyActualsRange(cancelled, WeekRange{StartWeek: 19, EndWeek: 22})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateRosterScoresRange(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	alice := uuid.New()
	kelce := espnPlayer("Travis Kelce", "15847")
	entry := d.roster.add(alice, kelce.ID, 2025)

	for week, pts := range map[int]float64{19: 12.5, 21: 8} {
		require.NoError(t, d.repo.UpsertWeeklyActual(ctx, WeeklyActualParams{
			PlayerID: kelce.ID, ESPNID: "15847", Season: 2025, Week: week, FantasyPoints: pts, Stats: []byte(`{}`),
		}, time.Now()))
	}

	res, err := d.app.CalculateRosterScoresRange(ctx, WeekRange{Season: 2025, StartWeek: 19, EndWeek: 22})
	require.NoError(t, err)
	assert.Equal(t, &RangeResult{
		Weeks: []WeekOutcome{
			{NFLWeek: 19, Updated: 1},
			{NFLWeek: 20, Skipped: 1},
			{NFLWeek: 21, Updated: 1},
			{NFLWeek: 22, Skipped: 1},
		},
		TotalUpdated: 2,
	}, res)
	assert.Equal(t, 12.5, d.repo.scores[scoreKey{entry.ID, 1}])
	assert.Equal(t, 8.0, d.repo.scores[scoreKey{entry.ID, 3}])
}

func TestSyncProjections(t *testing.T) {
	d := newTestDeps()
	mahomes := espnPlayer("Patrick Mahomes", "3139477")
	backup := espnPlayer("Backup Quarterback", "4000")
	unknown := espnPlayer("Practice Squad", "777")
	noID := models.Player{ID: uuid.New(), Name: "No ESPN id"}
	d.players.players = []models.Player{mahomes, backup, unknown, noID}
	d.projections.byWeek = map[int]map[string]models.Projection{
		19: {
			"3139477": {ESPNID: "3139477", SourceID: "4046", Points: 21, HasProjection: true},
			"4000":    {ESPNID: "4000", SourceID: "9001"},
		},
	}

	res, err := d.app.SyncProjections(context.Background(), SyncProjectionsRequest{NFLWeek: 19})
	require.NoError(t, err)
	assert.Equal(t, &SyncProjectionsResult{Updated: 1, NoProjection: 1, NoMatch: 2}, res)
	assert.Equal(t, []string{"2025/19"}, d.projections.calls)

	assert.Equal(t, 21.0, d.repo.projections[actualKey{mahomes.ID, 2025, 19}])
	zero, ok := d.repo.projections[actualKey{backup.ID, 2025, 19}]
	assert.True(t, ok)
	assert.Zero(t, zero)
	assert.Len(t, d.repo.projections, 2)
}

func TestSyncProjectionsErrors(t *testing.T) {
	d := newTestDeps()
	mahomes := espnPlayer("Patrick Mahomes", "3139477")
	d.players.players = []models.Player{mahomes}

	for _, week := range []int{0, 23} {
		_, err := d.app.SyncProjections(context.Background(), SyncProjectionsRequest{NFLWeek: week})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Empty(t, d.projections.calls)

	d.projections.byWeek = map[int]map[string]models.Projection{
		20: {"3139477": {ESPNID: "3139477"}},
	}
	_, err := d.app.SyncProjections(context.Background(), SyncProjectionsRequest{NFLWeek: 20})
	assert.ErrorIs(t, err, ErrProjectionsUnavailable)
	_, err = d.app.SyncProjections(context.Background(), SyncProjectionsRequest{NFLWeek: 21})
	assert.ErrorIs(t, err, ErrProjectionsUnavailable)
	assert.Empty(t, d.repo.projections, "an unpublished week writes nothing")

	upstream := errors.New("sleeper returned 500")
	d.projections.err = upstream
	_, err = d.app.SyncProjections(context.Background(), SyncProjectionsRequest{NFLWeek: 19})
	assert.ErrorIs(t, err, ErrProjectionsUnavailable)
	assert.ErrorIs(t, err, upstream)
}

func TestSyncProjectionsRange(t *testing.T) {
	d := newTestDeps()
	mahomes := espnPlayer("Patrick Mahomes", "3139477")
	d.players.players = []models.Player{mahomes}
	d.projections.byWeek = map[int]map[string]models.Projection{
		19: {"3139477": {ESPNID: "3139477", Points: 20, HasProjection: true}},
		21: {"3139477": {ESPNID: "3139477", Points: 18, HasProjection: true}},
	}

	res, err := d.app.SyncProjectionsRange(context.Background(), WeekRange{Season: 2025, StartWeek: 19, EndWeek: 21})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalUpdated)
	assert.Equal(t, 1, res.Failed)
	assert.NotEmpty(t, res.Weeks[1].Error)
	assert.Equal(t, 18.0, d.repo.projections[actualKey{mahomes.ID, 2025, 21}])
}

func TestGetStandings(t *testing.T) {
	d := newTestDeps()
	a, b, c, z := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	d.repo.totals = []ParticipantTotal{
		{ParticipantID: a, ParticipantName: "Avery", TotalPoints: 101.456},
		{ParticipantID: b, ParticipantName: "Blake", TotalPoints: 88.5},
		{ParticipantID: c, ParticipantName: "Casey", TotalPoints: 88.5},
		{ParticipantID: z, ParticipantName: "Zion", TotalPoints: 0},
	}

	standings, err := d.app.GetStandings(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, standings, 4)

	ranks := []int{standings[0].Rank, standings[1].Rank, standings[2].Rank, standings[3].Rank}
	assert.Equal(t, []int{1, 2, 2, 4}, ranks)
	assert.Equal(t, 101.46, standings[0].TotalPoints)
	assert.Equal(t, "Zion", standings[3].ParticipantName)
}

func TestGetRosterWithScores(t *testing.T) {
	d := newTestDeps()
	alice := uuid.New()
	e1 := d.roster.add(alice, uuid.New(), 2025)
	e2 := d.roster.add(alice, uuid.New(), 2025)
	d.repo.scores[scoreKey{e1.ID, 1}] = 10.25
	d.repo.scores[scoreKey{e1.ID, 2}] = 4.5

	entries, err := d.app.GetRosterWithScores(context.Background(), alice, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, e1.ID, entries[0].ID)
	assert.Equal(t, map[int]float64{1: 10.25, 2: 4.5}, entries[0].WeekPoints)
	assert.Equal(t, 14.75, entries[0].TotalPoints)

	assert.Equal(t, e2.ID, entries[1].ID)
	assert.Empty(t, entries[1].WeekPoints)
	assert.Zero(t, entries[1].TotalPoints)

	_, err = d.app.GetRosterWithScores(context.Background(), uuid.Nil, 2025)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestServiceSyncsRequireAdmin(t *testing.T) {
	d := newTestDeps()
	svc := NewService(d.app)
	ctx := auth.WithPrincipal(context.Background(), auth.Principal{Subject: "p1", Role: auth.RoleParticipant})

	_, err := svc.SyncWeeklyActuals(ctx, connect.NewRequest(&SyncActualsRequest{NFLWeek: 19}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	_, err = svc.CalculateRosterScores(ctx, connect.NewRequest(&CalculateScoresRequest{NFLWeek: 19}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	assert.Empty(t, d.stats.calls)

	admin := auth.WithPrincipal(context.Background(), auth.Principal{Subject: "commissioner", Role: auth.RoleAdmin})
	_, err = svc.CalculateRosterScores(admin, connect.NewRequest(&CalculateScoresRequest{NFLWeek: 12}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	d.stats.err = errors.New("timeout")
	_, err = svc.SyncWeeklyActuals(admin, connect.NewRequest(&SyncActualsRequest{NFLWeek: 19}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))

	_, err = svc.SyncProjections(ctx, connect.NewRequest(&SyncProjectionsRequest{NFLWeek: 19}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	for _, call := range []func(context.Context, *connect.Request[WeekRange]) (*connect.Response[RangeResult], error){
		svc.SyncWeeklyActualsRange, svc.CalculateRosterScoresRange, svc.SyncProjectionsRange,
	} {
		_, err = call(ctx, connect.NewRequest(&WeekRange{StartWeek: 19, EndWeek: 20}))
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	}
	assert.Empty(t, d.projections.calls)

	_, err = svc.SyncProjections(admin, connect.NewRequest(&SyncProjectionsRequest{NFLWeek: 19}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))

	_, err = svc.CalculateRosterScoresRange(admin, connect.NewRequest(&WeekRange{StartWeek: 20, EndWeek: 19}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	rules, err := svc.GetRules(ctx, connect.NewRequest(&GetRulesRequest{}))
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules.Msg.Rules)
}
