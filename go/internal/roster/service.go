package roster

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/player"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
)

const ServiceName = "playoffpool.roster.v1.RosterService"

var (
	ListRosterProcedure        = rpc.Procedure(ServiceName, "ListRoster")
	AddRosterEntryProcedure    = rpc.Procedure(ServiceName, "AddRosterEntry")
	RemoveRosterEntryProcedure = rpc.Procedure(ServiceName, "RemoveRosterEntry")
)

// RosterApp defines what the service layer needs from the roster application
type RosterApp interface {
	ListRoster(ctx context.Context, participantID uuid.UUID, year int) ([]models.RosterEntry, error)
	AddRosterEntry(ctx context.Context, req AddRosterEntryRequest) (*models.RosterEntry, error)
	RemoveRosterEntry(ctx context.Context, id uuid.UUID) error
}

type ListRosterRequest struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	SeasonYear    int       `json:"season_year"`
}

type ListRosterResponse struct {
	Entries []models.RosterEntry `json:"entries"`
}

type RosterEntryResponse struct {
	Entry *models.RosterEntry `json:"entry"`
}

type RemoveRosterEntryRequest struct {
	ID uuid.UUID `json:"id"`
}

type RemoveRosterEntryResponse struct{}

// Service implements the roster connect handlers
type Service struct {
	app RosterApp
}

// NewService creates a new roster service
func NewService(app RosterApp) *Service {
	return &Service{app: app}
}

func (s *Service) Routes(opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(ListRosterProcedure, s.ListRoster, opts...),
		rpc.Unary(AddRosterEntryProcedure, s.AddRosterEntry, opts...),
		rpc.Unary(RemoveRosterEntryProcedure, s.RemoveRosterEntry, opts...),
	}
}

func (s *Service) ListRoster(ctx context.Context, req *connect.Request[ListRosterRequest]) (*connect.Response[ListRosterResponse], error) {
	entries, err := s.app.ListRoster(ctx, req.Msg.ParticipantID, req.Msg.SeasonYear)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListRosterResponse{Entries: entries}), nil
}

// AddRosterEntry is the admin direct add.
func (s *Service) AddRosterEntry(ctx context.Context, req *connect.Request[AddRosterEntryRequest]) (*connect.Response[RosterEntryResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	entry, err := s.app.AddRosterEntry(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RosterEntryResponse{Entry: entry}), nil
}

func (s *Service) RemoveRosterEntry(ctx context.Context, req *connect.Request[RemoveRosterEntryRequest]) (*connect.Response[RemoveRosterEntryResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	if err := s.app.RemoveRosterEntry(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RemoveRosterEntryResponse{}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrRosterEntryNotFound), errors.Is(err, player.ErrPlayerNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrDuplicateRosterEntry):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
