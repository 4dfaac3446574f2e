package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/playoffpool/go/internal/draft/snake"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

// recentPickLimit bounds DraftState.RecentPicks.
const recentPickLimit = 10

// StateProvider reads draft state. *draft.App satisfies it.
type StateProvider interface {
	GetDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSnapshot, error)
	GetCurrentDraft(ctx context.Context, seasonYear int) (*models.DraftSnapshot, error)
	GetDraftPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPickDetail, error)
}

// DraftState is the full picture a client needs to render a draft board
// before applying pushed events.
type DraftState struct {
	DraftID        string                   `json:"draft_id"`
	SeasonYear     int                      `json:"season_year"`
	IsComplete     bool                     `json:"is_complete"`
	TotalRounds    int                      `json:"total_rounds"`
	TotalPicks     int                      `json:"total_picks"`
	CompletedPicks int                      `json:"completed_picks"`
	CurrentPick    *PickState               `json:"current_pick,omitempty"`
	Order          []models.DraftOrderEntry `json:"order"`
	RecentPicks    []RecentPickInfo         `json:"recent_picks"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// PickState is the slot on the clock.
type PickState struct {
	ParticipantID   string `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
	Round           int    `json:"round"`
	Pick            int    `json:"pick"`
	OverallPick     int    `json:"overall_pick"`
}

// RecentPickInfo represents a recently made pick
type RecentPickInfo struct {
	PickID          string    `json:"pick_id"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	PlayerID        string    `json:"player_id"`
	PlayerName      string    `json:"player_name"`
	PlayerPosition  string    `json:"player_position"`
	PlayerTeam      string    `json:"player_team"`
	Round           int       `json:"round"`
	Pick            int       `json:"pick"`
	OverallPick     int       `json:"overall_pick"`
	IsOverride      bool      `json:"is_override"`
	MadeAt          time.Time `json:"made_at"`
}

// LoadDraftState assembles a DraftState from the provider.
func LoadDraftState(ctx context.Context, p StateProvider, draftID uuid.UUID) (*DraftState, error) {
	snap, err := p.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	picks, err := p.GetDraftPicks(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft picks: %w", err)
	}
	return buildDraftState(snap, picks), nil
}

func buildDraftState(snap *models.DraftSnapshot, picks []models.DraftPickDetail) *DraftState {
	d := snap.Draft
	n := len(snap.Order)
	state := &DraftState{
		DraftID:        d.ID.String(),
		SeasonYear:     d.SeasonYear,
		IsComplete:     d.IsComplete,
		TotalRounds:    d.TotalRounds,
		TotalPicks:     snake.TotalPicks(d.TotalRounds, n),
		CompletedPicks: len(picks),
		Order:          snap.Order,
		RecentPicks:    []RecentPickInfo{},
		UpdatedAt:      d.UpdatedAt,
	}

	s := snake.State{
		TotalRounds:  d.TotalRounds,
		CurrentRound: d.CurrentRound,
		CurrentPick:  d.CurrentPick,
		IsComplete:   d.IsComplete,
	}
	if slot, ok := snake.Current(s, n); ok {
		entry := snap.Order[slot.OrderIndex]
		state.CurrentPick = &PickState{
			ParticipantID:   entry.ParticipantID.String(),
			ParticipantName: entry.ParticipantName,
			Round:           slot.Round,
			Pick:            slot.PickInRound,
			OverallPick:     slot.Overall,
		}
	}

	// Newest first.
	for i := len(picks) - 1; i >= 0 && len(state.RecentPicks) < recentPickLimit; i-- {
		p := picks[i]
		state.RecentPicks = append(state.RecentPicks, RecentPickInfo{
			PickID:          p.ID.String(),
			ParticipantID:   p.ParticipantID.String(),
			ParticipantName: p.ParticipantName,
			PlayerID:        p.PlayerID.String(),
			PlayerName:      p.PlayerName,
			PlayerPosition:  p.PlayerPosition,
			PlayerTeam:      p.PlayerTeam,
			Round:           p.Round,
			Pick:            p.PickInRound,
			OverallPick:     p.PickNumber,
			IsOverride:      p.IsOverride,
			MadeAt:          p.PickedAt,
		})
	}
	return state
}
