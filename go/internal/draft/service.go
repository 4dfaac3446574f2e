package draft

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/rpc"
)

const ServiceName = "playoffpool.draft.v1.DraftService"

var (
	CreateDraftProcedure      = rpc.Procedure(ServiceName, "CreateDraft")
	DeleteDraftProcedure      = rpc.Procedure(ServiceName, "DeleteDraft")
	GetCurrentDraftProcedure  = rpc.Procedure(ServiceName, "GetCurrentDraft")
	GetDraftProcedure         = rpc.Procedure(ServiceName, "GetDraft")
	GetDraftPicksProcedure    = rpc.Procedure(ServiceName, "GetDraftPicks")
	GetCurrentPickerProcedure = rpc.Procedure(ServiceName, "GetCurrentPicker")
	MakePickProcedure         = rpc.Procedure(ServiceName, "MakePick")
)

// DraftApp defines what the service layer needs from the draft application
type DraftApp interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.DraftSnapshot, error)
	DeleteDraft(ctx context.Context, seasonYear int) error
	GetCurrentDraft(ctx context.Context, seasonYear int) (*models.DraftSnapshot, error)
	GetDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSnapshot, error)
	GetDraftPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPickDetail, error)
	GetCurrentPicker(ctx context.Context, draftID uuid.UUID) (*models.DraftOrderEntry, error)
	MakePick(ctx context.Context, req MakePickRequest) (*MakePickResult, error)
}

type DraftResponse struct {
	Draft *models.DraftSnapshot `json:"draft"`
}

type DeleteDraftRequest struct {
	SeasonYear int `json:"season_year"`
}

type DeleteDraftResponse struct{}

type GetCurrentDraftRequest struct {
	SeasonYear int `json:"season_year"`
}

// DraftIDRequest addresses one draft.
type DraftIDRequest struct {
	DraftID uuid.UUID `json:"draft_id"`
}

type GetDraftPicksResponse struct {
	Picks []models.DraftPickDetail `json:"picks"`
}

type GetCurrentPickerResponse struct {
	Picker *models.DraftOrderEntry `json:"picker"`
}

type MakePickResponse struct {
	Result *MakePickResult `json:"result"`
}

// Service implements the draft connect handlers
type Service struct {
	app DraftApp
}

// NewService creates a new draft service
func NewService(app DraftApp) *Service {
	return &Service{app: app}
}

func (s *Service) Routes(opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(CreateDraftProcedure, s.CreateDraft, opts...),
		rpc.Unary(DeleteDraftProcedure, s.DeleteDraft, opts...),
		rpc.Unary(GetCurrentDraftProcedure, s.GetCurrentDraft, opts...),
		rpc.Unary(GetDraftProcedure, s.GetDraft, opts...),
		rpc.Unary(GetDraftPicksProcedure, s.GetDraftPicks, opts...),
		rpc.Unary(GetCurrentPickerProcedure, s.GetCurrentPicker, opts...),
		rpc.Unary(MakePickProcedure, s.MakePick, opts...),
	}
}

// CreateDraft starts a fresh draft for a season year. Admin only.
func (s *Service) CreateDraft(ctx context.Context, req *connect.Request[CreateDraftRequest]) (*connect.Response[DraftResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	snapshot, err := s.app.CreateDraft(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DraftResponse{Draft: snapshot}), nil
}

// DeleteDraft resets a season year. Admin only.
func (s *Service) DeleteDraft(ctx context.Context, req *connect.Request[DeleteDraftRequest]) (*connect.Response[DeleteDraftResponse], error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	if err := s.app.DeleteDraft(ctx, req.Msg.SeasonYear); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteDraftResponse{}), nil
}

// GetCurrentDraft answers with a nil draft when the year has none.
func (s *Service) GetCurrentDraft(ctx context.Context, req *connect.Request[GetCurrentDraftRequest]) (*connect.Response[DraftResponse], error) {
	snapshot, err := s.app.GetCurrentDraft(ctx, req.Msg.SeasonYear)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DraftResponse{Draft: snapshot}), nil
}

func (s *Service) GetDraft(ctx context.Context, req *connect.Request[DraftIDRequest]) (*connect.Response[DraftResponse], error) {
	snapshot, err := s.app.GetDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DraftResponse{Draft: snapshot}), nil
}

func (s *Service) GetDraftPicks(ctx context.Context, req *connect.Request[DraftIDRequest]) (*connect.Response[GetDraftPicksResponse], error) {
	picks, err := s.app.GetDraftPicks(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetDraftPicksResponse{Picks: picks}), nil
}

func (s *Service) GetCurrentPicker(ctx context.Context, req *connect.Request[DraftIDRequest]) (*connect.Response[GetCurrentPickerResponse], error) {
	picker, err := s.app.GetCurrentPicker(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetCurrentPickerResponse{Picker: picker}), nil
}

// MakePick submits a pick. A signed-in participant may only pick as
// themselves; admins may pick for anyone and may override the turn.
func (s *Service) MakePick(ctx context.Context, req *connect.Request[MakePickRequest]) (*connect.Response[MakePickResponse], error) {
	if err := authorizePicker(ctx, req.Msg.ParticipantID); err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	result, err := s.app.MakePick(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MakePickResponse{Result: result}), nil
}

func authorizePicker(ctx context.Context, participantID uuid.UUID) error {
	p := auth.FromContext(ctx)
	switch {
	case p.IsAdmin(), p == auth.Anonymous:
		return nil
	case p.ParticipantID == nil || *p.ParticipantID != participantID:
		return fmt.Errorf("%s may not pick for participant %s", p.Subject, participantID)
	}
	return nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrOverrideNotPermitted):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrParticipantNotInDraft):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrDraftNotFound), errors.Is(err, ErrPlayerNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrDraftComplete), errors.Is(err, ErrNoDraftOrder),
		errors.Is(err, ErrNotYourTurn), errors.Is(err, ErrNoParticipants):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, ErrPlayerAlreadyDrafted):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ErrVersionConflict):
		return connect.NewError(connect.CodeAborted, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
