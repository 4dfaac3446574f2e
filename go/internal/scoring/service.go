package scoring

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
)

const ServiceName = "playoffpool.scoring.v1.ScoringService"

var (
	SyncWeeklyActualsProcedure          = rpc.Procedure(ServiceName, "SyncWeeklyActuals")
	SyncWeeklyActualsRangeProcedure     = rpc.Procedure(ServiceName, "SyncWeeklyActualsRange")
	CalculateRosterScoresProcedure      = rpc.Procedure(ServiceName, "CalculateRosterScores")
	CalculateRosterScoresRangeProcedure = rpc.Procedure(ServiceName, "CalculateRosterScoresRange")
	SyncProjectionsProcedure            = rpc.Procedure(ServiceName, "SyncProjections")
	SyncProjectionsRangeProcedure       = rpc.Procedure(ServiceName, "SyncProjectionsRange")
	GetStandingsProcedure               = rpc.Procedure(ServiceName, "GetStandings")
	GetRosterWithScoresProcedure        = rpc.Procedure(ServiceName, "GetRosterWithScores")
	GetRulesProcedure                   = rpc.Procedure(ServiceName, "GetRules")
)

// ScoringApp defines what the service layer needs from the scoring application
type ScoringApp interface {
	SyncWeeklyActuals(ctx context.Context, req SyncActualsRequest) (*SyncActualsResult, error)
	SyncWeeklyActualsRange(ctx context.Context, r WeekRange) (*RangeResult, error)
	CalculateRosterScores(ctx context.Context, req CalculateScoresRequest) (*CalculateScoresResult, error)
	CalculateRosterScoresRange(ctx context.Context, r WeekRange) (*RangeResult, error)
	SyncProjections(ctx context.Context, req SyncProjectionsRequest) (*SyncProjectionsResult, error)
	SyncProjectionsRange(ctx context.Context, r WeekRange) (*RangeResult, error)
	GetStandings(ctx context.Context, year int) ([]models.Standing, error)
	GetRosterWithScores(ctx context.Context, participantID uuid.UUID, year int) ([]models.RosterEntryScore, error)
	Rules() Rules
}

type GetStandingsRequest struct {
	SeasonYear int `json:"season_year"`
}

type GetStandingsResponse struct {
	Standings []models.Standing `json:"standings"`
}

type GetRosterWithScoresRequest struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	SeasonYear    int       `json:"season_year"`
}

type GetRosterWithScoresResponse struct {
	Entries []models.RosterEntryScore `json:"entries"`
}

type GetRulesRequest struct{}

type GetRulesResponse struct {
	Rules Rules `json:"rules"`
}

// Service implements the scoring connect handlers
type Service struct {
	app ScoringApp
}

// NewService creates a new scoring service
func NewService(app ScoringApp) *Service {
	return &Service{app: app}
}

func (s *Service) Routes(opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(SyncWeeklyActualsProcedure, s.SyncWeeklyActuals, opts...),
		rpc.Unary(SyncWeeklyActualsRangeProcedure, s.SyncWeeklyActualsRange, opts...),
		rpc.Unary(CalculateRosterScoresProcedure, s.CalculateRosterScores, opts...),
		rpc.Unary(CalculateRosterScoresRangeProcedure, s.CalculateRosterScoresRange, opts...),
		rpc.Unary(SyncProjectionsProcedure, s.SyncProjections, opts...),
		rpc.Unary(SyncProjectionsRangeProcedure, s.SyncProjectionsRange, opts...),
		rpc.Unary(GetStandingsProcedure, s.GetStandings, opts...),
		rpc.Unary(GetRosterWithScoresProcedure, s.GetRosterWithScores, opts...),
		rpc.Unary(GetRulesProcedure, s.GetRules, opts...),
	}
}

// SyncWeeklyActuals is admin only.
func (s *Service) SyncWeeklyActuals(ctx context.Context, req *connect.Request[SyncActualsRequest]) (*connect.Response[SyncActualsResult], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	result, err := s.app.SyncWeeklyActuals(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(result), nil
}

// CalculateRosterScores is admin only.
func (s *Service) CalculateRosterScores(ctx context.Context, req *connect.Request[CalculateScoresRequest]) (*connect.Response[CalculateScoresResult], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	result, err := s.app.CalculateRosterScores(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(result), nil
}

func (s *Service) SyncWeeklyActualsRange(ctx context.Context, req *connect.Request[WeekRange]) (*connect.Response[RangeResult], error) {
	return s.adminRange(ctx, *req.Msg, s.app.SyncWeeklyActualsRange)
}

func (s *Service) CalculateRosterScoresRange(ctx context.Context, req *connect.Request[WeekRange]) (*connect.Response[RangeResult], error) {
	return s.adminRange(ctx, *req.Msg, s.app.CalculateRosterScoresRange)
}

// SyncProjections is admin only.
func (s *Service) SyncProjections(ctx context.Context, req *connect.Request[SyncProjectionsRequest]) (*connect.Response[SyncProjectionsResult], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	result, err := s.app.SyncProjections(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(result), nil
}

func (s *Service) SyncProjectionsRange(ctx context.Context, req *connect.Request[WeekRange]) (*connect.Response[RangeResult], error) {
	return s.adminRange(ctx, *req.Msg, s.app.SyncProjectionsRange)
}

func (s *Service) adminRange(ctx context.Context, r WeekRange, run func(context.Context, WeekRange) (*RangeResult, error)) (*connect.Response[RangeResult], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	result, err := run(ctx, r)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(result), nil
}

func (s *Service) GetStandings(ctx context.Context, req *connect.Request[GetStandingsRequest]) (*connect.Response[GetStandingsResponse], error) {
	standings, err := s.app.GetStandings(ctx, req.Msg.SeasonYear)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetStandingsResponse{Standings: standings}), nil
}

func (s *Service) GetRosterWithScores(ctx context.Context, req *connect.Request[GetRosterWithScoresRequest]) (*connect.Response[GetRosterWithScoresResponse], error) {
	entries, err := s.app.GetRosterWithScores(ctx, req.Msg.ParticipantID, req.Msg.SeasonYear)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetRosterWithScoresResponse{Entries: entries}), nil
}

func (s *Service) GetRules(_ context.Context, _ *connect.Request[GetRulesRequest]) (*connect.Response[GetRulesResponse], error) {
	return connect.NewResponse(&GetRulesResponse{Rules: s.app.Rules()}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrNotPlayoffWeek):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrStatsUnavailable), errors.Is(err, ErrProjectionsUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
