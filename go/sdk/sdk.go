// Package sdk is a typed client for the playoff pool API.
package sdk

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/draft"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/participants"
	"github.com/mcdev12/playoffpool/go/internal/player"
	"github.com/mcdev12/playoffpool/go/internal/roster"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
	"github.com/mcdev12/playoffpool/go/internal/scoring"
)

// Client groups one typed client per service.
type Client struct {
	Participants *ParticipantsClient
	Players      *PlayersClient
	Roster       *RosterClient
	Draft        *DraftClient
	Scoring      *ScoringClient
}

// Option configures New.
type Option func(*options)

type options struct {
	httpClient connect.HTTPClient
	token      string
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c connect.HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

// WithToken sends token as the bearer credential on every call.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// New returns a client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	c := caller{
		http:    o.httpClient,
		baseURL: baseURL,
		opts:    []connect.ClientOption{connect.WithInterceptors(auth.NewClientInterceptor(o.token))},
	}
	return &Client{
		Participants: &ParticipantsClient{c},
		Players:      &PlayersClient{c},
		Roster:       &RosterClient{c},
		Draft:        &DraftClient{c},
		Scoring:      &ScoringClient{c},
	}
}

type caller struct {
	http    connect.HTTPClient
	baseURL string
	opts    []connect.ClientOption
}

func call[Req, Res any](ctx context.Context, c caller, procedure string, req *Req) (*Res, error) {
	client := rpc.NewClient[Req, Res](c.http, c.baseURL, procedure, c.opts...)
	resp, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

type ParticipantsClient struct{ c caller }

func (p *ParticipantsClient) Create(ctx context.Context, req participants.CreateParticipantRequest) (*models.Participant, error) {
	resp, err := call[participants.CreateParticipantRequest, participants.ParticipantResponse](ctx, p.c, participants.CreateParticipantProcedure, &req)
	if err != nil {
		return nil, err
	}
	return resp.Participant, nil
}

func (p *ParticipantsClient) Get(ctx context.Context, id uuid.UUID) (*models.Participant, error) {
	resp, err := call[participants.GetParticipantRequest, participants.ParticipantResponse](ctx, p.c, participants.GetParticipantProcedure, &participants.GetParticipantRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Participant, nil
}

func (p *ParticipantsClient) List(ctx context.Context) ([]models.Participant, error) {
	resp, err := call[participants.ListParticipantsRequest, participants.ListParticipantsResponse](ctx, p.c, participants.ListParticipantsProcedure, &participants.ListParticipantsRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

func (p *ParticipantsClient) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := call[participants.DeleteParticipantRequest, participants.DeleteParticipantResponse](ctx, p.c, participants.DeleteParticipantProcedure, &participants.DeleteParticipantRequest{ID: id})
	return err
}

type PlayersClient struct{ c caller }

func (p *PlayersClient) Get(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	resp, err := call[player.GetPlayerRequest, player.PlayerResponse](ctx, p.c, player.GetPlayerProcedure, &player.GetPlayerRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Player, nil
}

func (p *PlayersClient) Search(ctx context.Context, req player.SearchPlayersRequest) ([]models.Player, error) {
	resp, err := call[player.SearchPlayersRequest, player.PlayersResponse](ctx, p.c, player.SearchPlayersProcedure, &req)
	if err != nil {
		return nil, err
	}
	return resp.Players, nil
}

func (p *PlayersClient) ListAvailable(ctx context.Context, req player.ListAvailableRequest) ([]models.Player, error) {
	resp, err := call[player.ListAvailableRequest, player.PlayersResponse](ctx, p.c, player.ListAvailablePlayersProcedure, &req)
	if err != nil {
		return nil, err
	}
	return resp.Players, nil
}

// Sync refreshes the catalog from ESPN. Admin only.
func (p *PlayersClient) Sync(ctx context.Context) (*player.SyncResult, error) {
	resp, err := call[player.SyncPlayersRequest, player.SyncResponse](ctx, p.c, player.SyncPlayersProcedure, &player.SyncPlayersRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Import uploads a csv or xlsx file. Admin only.
func (p *PlayersClient) Import(ctx context.Context, format string, data []byte) (*player.SyncResult, error) {
	resp, err := call[player.ImportPlayersRequest, player.SyncResponse](ctx, p.c, player.ImportPlayersProcedure, &player.ImportPlayersRequest{Format: format, Data: data})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (p *PlayersClient) SetTeamEligibility(ctx context.Context, teams []string, eligible bool) (int64, error) {
	resp, err := call[player.SetTeamEligibilityRequest, player.EligibilityUpdateResponse](ctx, p.c, player.SetTeamEligibilityProcedure, &player.SetTeamEligibilityRequest{Teams: teams, Eligible: eligible})
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (p *PlayersClient) SetAllEligibility(ctx context.Context, eligible bool) (int64, error) {
	resp, err := call[player.SetAllEligibilityRequest, player.EligibilityUpdateResponse](ctx, p.c, player.SetAllEligibilityProcedure, &player.SetAllEligibilityRequest{Eligible: eligible})
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (p *PlayersClient) ToggleEligibility(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	resp, err := call[player.TogglePlayerEligibilityRequest, player.PlayerResponse](ctx, p.c, player.TogglePlayerEligibilityProcedure, &player.TogglePlayerEligibilityRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Player, nil
}

func (p *PlayersClient) EligibilityStats(ctx context.Context) (*player.EligibilityStats, error) {
	resp, err := call[player.GetEligibilityStatsRequest, player.EligibilityStatsResponse](ctx, p.c, player.GetEligibilityStatsProcedure, &player.GetEligibilityStatsRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Stats, nil
}

type RosterClient struct{ c caller }

func (r *RosterClient) List(ctx context.Context, participantID uuid.UUID, seasonYear int) ([]models.RosterEntry, error) {
	resp, err := call[roster.ListRosterRequest, roster.ListRosterResponse](ctx, r.c, roster.ListRosterProcedure, &roster.ListRosterRequest{ParticipantID: participantID, SeasonYear: seasonYear})
	if err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (r *RosterClient) Add(ctx context.Context, req roster.AddRosterEntryRequest) (*models.RosterEntry, error) {
	resp, err := call[roster.AddRosterEntryRequest, roster.RosterEntryResponse](ctx, r.c, roster.AddRosterEntryProcedure, &req)
	if err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

func (r *RosterClient) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := call[roster.RemoveRosterEntryRequest, roster.RemoveRosterEntryResponse](ctx, r.c, roster.RemoveRosterEntryProcedure, &roster.RemoveRosterEntryRequest{ID: id})
	return err
}

type DraftClient struct{ c caller }

func (d *DraftClient) Create(ctx context.Context, req draft.CreateDraftRequest) (*models.DraftSnapshot, error) {
	resp, err := call[draft.CreateDraftRequest, draft.DraftResponse](ctx, d.c, draft.CreateDraftProcedure, &req)
	if err != nil {
		return nil, err
	}
	return resp.Draft, nil
}

func (d *DraftClient) Delete(ctx context.Context, seasonYear int) error {
	_, err := call[draft.DeleteDraftRequest, draft.DeleteDraftResponse](ctx, d.c, draft.DeleteDraftProcedure, &draft.DeleteDraftRequest{SeasonYear: seasonYear})
	return err
}

// Current returns nil when the season has no draft.
func (d *DraftClient) Current(ctx context.Context, seasonYear int) (*models.DraftSnapshot, error) {
	resp, err := call[draft.GetCurrentDraftRequest, draft.DraftResponse](ctx, d.c, draft.GetCurrentDraftProcedure, &draft.GetCurrentDraftRequest{SeasonYear: seasonYear})
	if err != nil {
		return nil, err
	}
	return resp.Draft, nil
}

func (d *DraftClient) Get(ctx context.Context, draftID uuid.UUID) (*models.DraftSnapshot, error) {
	resp, err := call[draft.DraftIDRequest, draft.DraftResponse](ctx, d.c, draft.GetDraftProcedure, &draft.DraftIDRequest{DraftID: draftID})
	if err != nil {
		return nil, err
	}
	return resp.Draft, nil
}

func (d *DraftClient) Picks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPickDetail, error) {
	resp, err := call[draft.DraftIDRequest, draft.GetDraftPicksResponse](ctx, d.c, draft.GetDraftPicksProcedure, &draft.DraftIDRequest{DraftID: draftID})
	if err != nil {
		return nil, err
	}
	return resp.Picks, nil
}

func (d *DraftClient) CurrentPicker(ctx context.Context, draftID uuid.UUID) (*models.DraftOrderEntry, error) {
	resp, err := call[draft.DraftIDRequest, draft.GetCurrentPickerResponse](ctx, d.c, draft.GetCurrentPickerProcedure, &draft.DraftIDRequest{DraftID: draftID})
	if err != nil {
		return nil, err
	}
	return resp.Picker, nil
}

func (d *DraftClient) MakePick(ctx context.Context, req draft.MakePickRequest) (*draft.MakePickResult, error) {
	resp, err := call[draft.MakePickRequest, draft.MakePickResponse](ctx, d.c, draft.MakePickProcedure, &req)
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

type ScoringClient struct{ c caller }

func (s *ScoringClient) SyncWeeklyActuals(ctx context.Context, season, nflWeek int) (*scoring.SyncActualsResult, error) {
	return call[scoring.SyncActualsRequest, scoring.SyncActualsResult](ctx, s.c, scoring.SyncWeeklyActualsProcedure, &scoring.SyncActualsRequest{Season: season, NFLWeek: nflWeek})
}

func (s *ScoringClient) CalculateRosterScores(ctx context.Context, season, nflWeek int) (*scoring.CalculateScoresResult, error) {
	return call[scoring.CalculateScoresRequest, scoring.CalculateScoresResult](ctx, s.c, scoring.CalculateRosterScoresProcedure, &scoring.CalculateScoresRequest{Season: season, NFLWeek: nflWeek})
}

// SyncActualsRange syncs NFL weeks from through to inclusive.
func (s *ScoringClient) SyncActualsRange(ctx context.Context, season, from, to int) (*scoring.RangeResult, error) {
	return call[scoring.WeekRange, scoring.RangeResult](ctx, s.c, scoring.SyncWeeklyActualsRangeProcedure, &scoring.WeekRange{Season: season, StartWeek: from, EndWeek: to})
}

func (s *ScoringClient) CalculateRange(ctx context.Context, season, from, to int) (*scoring.RangeResult, error) {
	return call[scoring.WeekRange, scoring.RangeResult](ctx, s.c, scoring.CalculateRosterScoresRangeProcedure, &scoring.WeekRange{Season: season, StartWeek: from, EndWeek: to})
}

func (s *ScoringClient) SyncProjections(ctx context.Context, season, nflWeek int) (*scoring.SyncProjectionsResult, error) {
	return call[scoring.SyncProjectionsRequest, scoring.SyncProjectionsResult](ctx, s.c, scoring.SyncProjectionsProcedure, &scoring.SyncProjectionsRequest{Season: season, NFLWeek: nflWeek})
}

func (s *ScoringClient) SyncProjectionsRange(ctx context.Context, season, from, to int) (*scoring.RangeResult, error) {
	return call[scoring.WeekRange, scoring.RangeResult](ctx, s.c, scoring.SyncProjectionsRangeProcedure, &scoring.WeekRange{Season: season, StartWeek: from, EndWeek: to})
}

func (s *ScoringClient) Standings(ctx context.Context, seasonYear int) ([]models.Standing, error) {
	resp, err := call[scoring.GetStandingsRequest, scoring.GetStandingsResponse](ctx, s.c, scoring.GetStandingsProcedure, &scoring.GetStandingsRequest{SeasonYear: seasonYear})
	if err != nil {
		return nil, err
	}
	return resp.Standings, nil
}

func (s *ScoringClient) RosterWithScores(ctx context.Context, participantID uuid.UUID, seasonYear int) ([]models.RosterEntryScore, error) {
	resp, err := call[scoring.GetRosterWithScoresRequest, scoring.GetRosterWithScoresResponse](ctx, s.c, scoring.GetRosterWithScoresProcedure, &scoring.GetRosterWithScoresRequest{ParticipantID: participantID, SeasonYear: seasonYear})
	if err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (s *ScoringClient) Rules(ctx context.Context) (scoring.Rules, error) {
	resp, err := call[scoring.GetRulesRequest, scoring.GetRulesResponse](ctx, s.c, scoring.GetRulesProcedure, &scoring.GetRulesRequest{})
	if err != nil {
		return scoring.Rules{}, err
	}
	return resp.Rules, nil
}
