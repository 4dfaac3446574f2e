package participants

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
)

// ServiceName is the connect service path for participants.
const ServiceName = "playoffpool.participants.v1.ParticipantService"

// Procedures served by Service.
var (
	CreateParticipantProcedure = rpc.Procedure(ServiceName, "CreateParticipant")
	GetParticipantProcedure    = rpc.Procedure(ServiceName, "GetParticipant")
	ListParticipantsProcedure  = rpc.Procedure(ServiceName, "ListParticipants")
	DeleteParticipantProcedure = rpc.Procedure(ServiceName, "DeleteParticipant")
)

// ParticipantsApp defines what the service layer needs from the participants application
type ParticipantsApp interface {
	CreateParticipant(ctx context.Context, req CreateParticipantRequest) (*models.Participant, error)
	GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error)
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	DeleteParticipant(ctx context.Context, id uuid.UUID) error
}

type GetParticipantRequest struct {
	ID uuid.UUID `json:"id"`
}

type DeleteParticipantRequest struct {
	ID uuid.UUID `json:"id"`
}

type ParticipantResponse struct {
	Participant *models.Participant `json:"participant"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []models.Participant `json:"participants"`
}

type DeleteParticipantResponse struct{}

// Service implements the participant connect handlers
type Service struct {
	app ParticipantsApp
}

// NewService creates a new participants service
func NewService(app ParticipantsApp) *Service {
	return &Service{app: app}
}

// Routes returns the handlers to mount on the API mux.
func (s *Service) Routes(opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(CreateParticipantProcedure, s.CreateParticipant, opts...),
		rpc.Unary(GetParticipantProcedure, s.GetParticipant, opts...),
		rpc.Unary(ListParticipantsProcedure, s.ListParticipants, opts...),
		rpc.Unary(DeleteParticipantProcedure, s.DeleteParticipant, opts...),
	}
}

// CreateParticipant adds a drafter. Admin only.
func (s *Service) CreateParticipant(ctx context.Context, req *connect.Request[CreateParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	p, err := s.app.CreateParticipant(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ParticipantResponse{Participant: p}), nil
}

func (s *Service) GetParticipant(ctx context.Context, req *connect.Request[GetParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	p, err := s.app.GetParticipant(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ParticipantResponse{Participant: p}), nil
}

func (s *Service) ListParticipants(ctx context.Context, _ *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	ps, err := s.app.ListParticipants(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListParticipantsResponse{Participants: ps}), nil
}

// DeleteParticipant removes a drafter. Admin only.
func (s *Service) DeleteParticipant(ctx context.Context, req *connect.Request[DeleteParticipantRequest]) (*connect.Response[DeleteParticipantResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	if err := s.app.DeleteParticipant(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteParticipantResponse{}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrParticipantNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrDuplicateAuthID):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
