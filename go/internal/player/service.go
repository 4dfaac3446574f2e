package player

import (
	"bytes"
	"context"
	"errors"
	"io"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
)

const ServiceName = "playoffpool.player.v1.PlayerService"

var (
	GetPlayerProcedure               = rpc.Procedure(ServiceName, "GetPlayer")
	SearchPlayersProcedure           = rpc.Procedure(ServiceName, "SearchPlayers")
	ListAvailablePlayersProcedure    = rpc.Procedure(ServiceName, "ListAvailablePlayers")
	SyncPlayersProcedure             = rpc.Procedure(ServiceName, "SyncPlayers")
	ImportPlayersProcedure           = rpc.Procedure(ServiceName, "ImportPlayers")
	SetTeamEligibilityProcedure      = rpc.Procedure(ServiceName, "SetTeamEligibility")
	SetAllEligibilityProcedure       = rpc.Procedure(ServiceName, "SetAllEligibility")
	TogglePlayerEligibilityProcedure = rpc.Procedure(ServiceName, "TogglePlayerEligibility")
	GetEligibilityStatsProcedure     = rpc.Procedure(ServiceName, "GetEligibilityStats")
)

// PlayerApp defines what the service layer needs from the player application
type PlayerApp interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	SearchPlayers(ctx context.Context, req SearchPlayersRequest) ([]models.Player, error)
	ListAvailablePlayers(ctx context.Context, req ListAvailableRequest) ([]models.Player, error)
	SyncFromESPN(ctx context.Context) (*SyncResult, error)
	ImportPlayers(ctx context.Context, r io.Reader, format Format) (*SyncResult, error)
	SetTeamEligibility(ctx context.Context, teams []string, eligible bool) (int64, error)
	SetAllEligibility(ctx context.Context, eligible bool) (int64, error)
	TogglePlayerEligibility(ctx context.Context, id uuid.UUID) (*models.Player, error)
	EligibilityStats(ctx context.Context) (*EligibilityStats, error)
}

type GetPlayerRequest struct {
	ID uuid.UUID `json:"id"`
}

type PlayerResponse struct {
	Player *models.Player `json:"player"`
}

type PlayersResponse struct {
	Players []models.Player `json:"players"`
}

type SyncPlayersRequest struct{}

type ImportPlayersRequest struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

type SyncResponse struct {
	Result *SyncResult `json:"result"`
}

type SetTeamEligibilityRequest struct {
	Teams    []string `json:"teams"`
	Eligible bool     `json:"eligible"`
}

type SetAllEligibilityRequest struct {
	Eligible bool `json:"eligible"`
}

type EligibilityUpdateResponse struct {
	Updated int64 `json:"updated"`
}

type TogglePlayerEligibilityRequest struct {
	ID uuid.UUID `json:"id"`
}

type GetEligibilityStatsRequest struct{}

type EligibilityStatsResponse struct {
	Stats *EligibilityStats `json:"stats"`
}

// Service implements the player connect handlers
type Service struct {
	app PlayerApp
}

// NewService creates a new player service
func NewService(app PlayerApp) *Service {
	return &Service{app: app}
}

func (s *Service) Routes(opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(GetPlayerProcedure, s.GetPlayer, opts...),
		rpc.Unary(SearchPlayersProcedure, s.SearchPlayers, opts...),
		rpc.Unary(ListAvailablePlayersProcedure, s.ListAvailablePlayers, opts...),
		rpc.Unary(SyncPlayersProcedure, s.SyncPlayers, opts...),
		rpc.Unary(ImportPlayersProcedure, s.ImportPlayers, opts...),
		rpc.Unary(SetTeamEligibilityProcedure, s.SetTeamEligibility, opts...),
		rpc.Unary(SetAllEligibilityProcedure, s.SetAllEligibility, opts...),
		rpc.Unary(TogglePlayerEligibilityProcedure, s.TogglePlayerEligibility, opts...),
		rpc.Unary(GetEligibilityStatsProcedure, s.GetEligibilityStats, opts...),
	}
}

func (s *Service) GetPlayer(ctx context.Context, req *connect.Request[GetPlayerRequest]) (*connect.Response[PlayerResponse], error) {
	p, err := s.app.GetPlayer(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayerResponse{Player: p}), nil
}

func (s *Service) SearchPlayers(ctx context.Context, req *connect.Request[SearchPlayersRequest]) (*connect.Response[PlayersResponse], error) {
	players, err := s.app.SearchPlayers(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayersResponse{Players: players}), nil
}

func (s *Service) ListAvailablePlayers(ctx context.Context, req *connect.Request[ListAvailableRequest]) (*connect.Response[PlayersResponse], error) {
	players, err := s.app.ListAvailablePlayers(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayersResponse{Players: players}), nil
}

// SyncPlayers refreshes the catalog from ESPN. Admin only.
func (s *Service) SyncPlayers(ctx context.Context, _ *connect.Request[SyncPlayersRequest]) (*connect.Response[SyncResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	result, err := s.app.SyncFromESPN(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	return connect.NewResponse(&SyncResponse{Result: result}), nil
}

// ImportPlayers loads an uploaded players file. Admin only.
func (s *Service) ImportPlayers(ctx context.Context, req *connect.Request[ImportPlayersRequest]) (*connect.Response[SyncResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	format, err := ParseFormat(req.Msg.Format)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	result, err := s.app.ImportPlayers(ctx, bytes.NewReader(req.Msg.Data), format)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&SyncResponse{Result: result}), nil
}

func (s *Service) SetTeamEligibility(ctx context.Context, req *connect.Request[SetTeamEligibilityRequest]) (*connect.Response[EligibilityUpdateResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	n, err := s.app.SetTeamEligibility(ctx, req.Msg.Teams, req.Msg.Eligible)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&EligibilityUpdateResponse{Updated: n}), nil
}

func (s *Service) SetAllEligibility(ctx context.Context, req *connect.Request[SetAllEligibilityRequest]) (*connect.Response[EligibilityUpdateResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	n, err := s.app.SetAllEligibility(ctx, req.Msg.Eligible)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&EligibilityUpdateResponse{Updated: n}), nil
}

func (s *Service) TogglePlayerEligibility(ctx context.Context, req *connect.Request[TogglePlayerEligibilityRequest]) (*connect.Response[PlayerResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	p, err := s.app.TogglePlayerEligibility(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayerResponse{Player: p}), nil
}

func (s *Service) GetEligibilityStats(ctx context.Context, _ *connect.Request[GetEligibilityStatsRequest]) (*connect.Response[EligibilityStatsResponse], error) {
	stats, err := s.app.EligibilityStats(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&EligibilityStatsResponse{Stats: stats}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrUnknownFormat):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrPlayerNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
