package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/draft/events"
	"github.com/mcdev12/playoffpool/go/internal/draft/snake"
	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/seasons"
)

const maxRounds = 50

// Config holds draft defaults.
type Config struct {
	DefaultRounds int `yaml:"default_rounds"`
}

// DefaultConfig returns the pool's usual draft settings.
func DefaultConfig() Config {
	return Config{DefaultRounds: 8}
}

// Option customises an App.
type Option func(*App)

// WithClock replaces the wall clock.
func WithClock(c clockwork.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithShuffle replaces the permutation used for the draft order.
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(a *App) { a.shuffle = shuffle }
}

// App handles draft business logic
type App struct {
	repo    DraftRepository
	config  Config
	clock   clockwork.Clock
	shuffle func(n int, swap func(i, j int))
}

// NewApp creates a new draft App
func NewApp(repo DraftRepository, cfg Config, opts ...Option) *App {
	a := &App{
		repo:    repo,
		config:  cfg,
		clock:   clockwork.NewRealClock(),
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateDraft replaces any draft for the season year with a fresh one. All
// roster entries tagged with that year are removed and every participant is
// placed in a uniformly random draft order.
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.DraftSnapshot, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	year := req.SeasonYear
	if year == 0 {
		year = seasons.CurrentYear(a.clock.Now())
	}
	rounds := req.TotalRounds
	if rounds == 0 {
		rounds = a.config.DefaultRounds
	}
	if rounds < 1 {
		return nil, fmt.Errorf("validation failed: %w: total rounds must be at least 1", ErrInvalidArgument)
	}

	var snapshot *models.DraftSnapshot
	err := a.repo.WithTx(ctx, func(tx DraftStore) error {
		participants, err := tx.ListParticipants(ctx)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		if len(participants) == 0 {
			return ErrNoParticipants
		}

		if err := a.clearSeason(ctx, tx, year); err != nil {
			return err
		}

		now := a.clock.Now()
		state := snake.New(rounds)
		d := models.Draft{
			ID:          uuid.New(),
			SeasonYear:  year,
			TotalRounds: rounds,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		applyState(&d, state)

		order := a.shuffledOrder(d.ID, participants)
		if err := tx.CreateDraft(ctx, d, order); err != nil {
			return fmt.Errorf("failed to create draft: %w", err)
		}

		payload := events.DraftCreatedPayload{
			DraftID:     d.ID.String(),
			SeasonYear:  year,
			TotalRounds: rounds,
			TotalPicks:  snake.TotalPicks(rounds, len(order)),
			Order:       orderPayload(order),
			CreatedAt:   now,
		}
		if err := writeEvent(ctx, tx, d.ID, events.TypeDraftCreated, payload); err != nil {
			return err
		}

		snapshot = &models.DraftSnapshot{Draft: d, Order: order}
		return nil
	})
	if err != nil {
		return nil, classify("create draft", err)
	}

	log.Info().
		Str("draft_id", snapshot.Draft.ID.String()).
		Int("season_year", year).
		Int("total_rounds", rounds).
		Int("participants", len(snapshot.Order)).
		Msg("created draft")
	return snapshot, nil
}

// DeleteDraft removes the season year's draft with its order and picks and
// clears that year's roster entries.
func (a *App) DeleteDraft(ctx context.Context, seasonYear int) error {
	if seasonYear < 0 {
		return fmt.Errorf("validation failed: %w: season year must not be negative", ErrInvalidArgument)
	}
	if seasonYear == 0 {
		seasonYear = seasons.CurrentYear(a.clock.Now())
	}

	err := a.repo.WithTx(ctx, func(tx DraftStore) error {
		d, err := tx.GetDraftBySeasonYear(ctx, seasonYear)
		if err != nil {
			return err
		}
		return a.deleteDraft(ctx, tx, d)
	})
	if err != nil {
		return classify("delete draft", err)
	}

	log.Info().Int("season_year", seasonYear).Msg("deleted draft")
	return nil
}

// GetCurrentDraft returns the season year's draft and order, or nil when
// no draft exists. A zero year selects the current season.
func (a *App) GetCurrentDraft(ctx context.Context, seasonYear int) (*models.DraftSnapshot, error) {
	if seasonYear == 0 {
		seasonYear = seasons.CurrentYear(a.clock.Now())
	}

	d, err := a.repo.GetDraftBySeasonYear(ctx, seasonYear)
	if errors.Is(err, ErrDraftNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get current draft", err)
	}

	order, err := a.repo.ListDraftOrder(ctx, d.ID)
	if err != nil {
		return nil, classify("list draft order", err)
	}
	return &models.DraftSnapshot{Draft: *d, Order: order}, nil
}

// GetDraft returns a draft and its order by id.
func (a *App) GetDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSnapshot, error) {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, classify("get draft", err)
	}
	order, err := a.repo.ListDraftOrder(ctx, d.ID)
	if err != nil {
		return nil, classify("list draft order", err)
	}
	return &models.DraftSnapshot{Draft: *d, Order: order}, nil
}

// GetDraftPicks returns the draft's picks ordered by pick number.
func (a *App) GetDraftPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPickDetail, error) {
	picks, err := a.repo.ListDraftPicks(ctx, draftID)
	if err != nil {
		return nil, classify("list draft picks", err)
	}
	return picks, nil
}

// GetCurrentPicker returns the order entry on the clock. It is recomputed
// from the draft counters on every call and is nil once the draft is
// complete or when the order is empty.
func (a *App) GetCurrentPicker(ctx context.Context, draftID uuid.UUID) (*models.DraftOrderEntry, error) {
	d, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, classify("get draft", err)
	}
	order, err := a.repo.ListDraftOrder(ctx, draftID)
	if err != nil {
		return nil, classify("list draft order", err)
	}
	return currentPicker(stateOf(d), order), nil
}

// MakePick validates and commits one pick. The pick, the roster entry and
// the advanced counters are written in one transaction that holds the
// draft row lock, so a failed pick leaves nothing behind.
func (a *App) MakePick(ctx context.Context, req MakePickRequest) (*MakePickResult, error) {
	if err := a.validateMakePickRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var result *MakePickResult
	err := a.repo.WithTx(ctx, func(tx DraftStore) error {
		d, err := tx.GetDraftForUpdate(ctx, req.DraftID)
		if err != nil {
			return err
		}
		if d.IsComplete {
			return ErrDraftComplete
		}

		order, err := tx.ListDraftOrder(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("failed to list draft order: %w", err)
		}
		if len(order) == 0 {
			return ErrNoDraftOrder
		}

		state := stateOf(d)
		if err := state.Validate(len(order)); err != nil {
			return fmt.Errorf("failed to read draft state: %w", err)
		}
		slot, _ := snake.Current(state, len(order))
		onClock := order[slot.OrderIndex]

		picker, ok := findEntry(order, req.ParticipantID)
		if !req.Override && onClock.ParticipantID != req.ParticipantID {
			return fmt.Errorf("%w: %s is on the clock", ErrNotYourTurn, onClock.ParticipantName)
		}
		if !ok {
			return ErrParticipantNotInDraft
		}

		picked, err := tx.IsPlayerPicked(ctx, d.ID, req.PlayerID)
		if err != nil {
			return fmt.Errorf("failed to check player: %w", err)
		}
		if picked {
			return ErrPlayerAlreadyDrafted
		}

		player, err := tx.GetPlayer(ctx, req.PlayerID)
		if err != nil {
			return err
		}

		now := a.clock.Now()
		pick := models.DraftPick{
			ID:            uuid.New(),
			DraftID:       d.ID,
			ParticipantID: req.ParticipantID,
			PlayerID:      player.ID,
			Round:         slot.Round,
			PickInRound:   slot.PickInRound,
			PickNumber:    slot.Overall,
			IsOverride:    req.Override,
			PickedAt:      now,
		}
		if err := tx.InsertPick(ctx, pick); err != nil {
			return err
		}

		season, err := tx.GetOrCreateSeason(ctx, req.ParticipantID, d.SeasonYear)
		if err != nil {
			return fmt.Errorf("failed to resolve season: %w", err)
		}

		snap := player.Snapshot()
		entry := models.RosterEntry{
			ID:              uuid.New(),
			ParticipantID:   req.ParticipantID,
			SeasonID:        season.ID,
			PlayerID:        player.ID,
			PickID:          &pick.ID,
			PlayerName:      snap.Name,
			PlayerPosition:  snap.Position,
			PlayerTeam:      snap.Team,
			AcquisitionType: models.AcquisitionTypeDraft,
			AcquiredAt:      now,
		}
		if err := tx.InsertRosterEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to add roster entry: %w", err)
		}

		next := snake.Advance(state, len(order))
		if err := tx.UpdateDraftState(ctx, d.ID, next, d.Version, now); err != nil {
			return fmt.Errorf("failed to advance draft: %w", err)
		}

		made := events.PickMadePayload{
			PickID:          pick.ID.String(),
			DraftID:         d.ID.String(),
			ParticipantID:   picker.ParticipantID.String(),
			ParticipantName: picker.ParticipantName,
			PlayerID:        player.ID.String(),
			PlayerName:      snap.Name,
			PlayerPosition:  snap.Position,
			PlayerTeam:      snap.Team,
			Round:           pick.Round,
			PickInRound:     pick.PickInRound,
			PickNumber:      pick.PickNumber,
			IsOverride:      pick.IsOverride,
			NextRound:       next.CurrentRound,
			NextPick:        next.CurrentPick,
			MadeAt:          now,
		}
		if err := writeEvent(ctx, tx, d.ID, events.TypePickMade, made); err != nil {
			return err
		}
		if next.IsComplete {
			done := events.DraftCompletedPayload{
				DraftID:     d.ID.String(),
				CompletedAt: now,
				Duration:    now.Sub(d.CreatedAt).Round(time.Second).String(),
				TotalPicks:  pick.PickNumber,
			}
			if err := writeEvent(ctx, tx, d.ID, events.TypeDraftCompleted, done); err != nil {
				return err
			}
		}

		result = &MakePickResult{
			Pick:        pick,
			RosterEntry: entry,
			State:       next,
			NextPicker:  currentPicker(next, order),
		}
		return nil
	})
	if err != nil {
		return nil, classify("make pick", err)
	}

	log.Info().
		Str("draft_id", req.DraftID.String()).
		Str("participant_id", req.ParticipantID.String()).
		Str("player_id", req.PlayerID.String()).
		Int("pick_number", result.Pick.PickNumber).
		Bool("override", req.Override).
		Bool("draft_complete", result.State.IsComplete).
		Msg("pick made")
	return result, nil
}

func (a *App) clearSeason(ctx context.Context, tx DraftStore, year int) error {
	existing, err := tx.GetDraftBySeasonYear(ctx, year)
	switch {
	case errors.Is(err, ErrDraftNotFound):
		// Rosters may exist from direct adds even without a draft.
		if _, err := tx.DeleteRosterEntriesBySeasonYear(ctx, year); err != nil {
			return fmt.Errorf("failed to clear roster entries: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up existing draft: %w", err)
	}
	return a.deleteDraft(ctx, tx, existing)
}

func (a *App) deleteDraft(ctx context.Context, tx DraftStore, d *models.Draft) error {
	removed, err := tx.DeleteRosterEntriesBySeasonYear(ctx, d.SeasonYear)
	if err != nil {
		return fmt.Errorf("failed to clear roster entries: %w", err)
	}
	if err := tx.DeleteDraft(ctx, d.ID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	payload := events.DraftDeletedPayload{
		DraftID:    d.ID.String(),
		SeasonYear: d.SeasonYear,
		DeletedAt:  a.clock.Now(),
	}
	if err := writeEvent(ctx, tx, d.ID, events.TypeDraftDeleted, payload); err != nil {
		return err
	}

	log.Debug().
		Str("draft_id", d.ID.String()).
		Int64("roster_entries_removed", removed).
		Msg("removed draft and season rosters")
	return nil
}

func (a *App) shuffledOrder(draftID uuid.UUID, participants []models.Participant) []models.DraftOrderEntry {
	shuffled := make([]models.Participant, len(participants))
	copy(shuffled, participants)
	a.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	order := make([]models.DraftOrderEntry, len(shuffled))
	for i, p := range shuffled {
		order[i] = models.DraftOrderEntry{
			DraftID:         draftID,
			ParticipantID:   p.ID,
			ParticipantName: p.Name,
			Position:        i + 1,
		}
	}
	return order
}

func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.SeasonYear < 0 {
		return fmt.Errorf("%w: season year must not be negative", ErrInvalidArgument)
	}
	if req.TotalRounds < 0 || req.TotalRounds > maxRounds {
		return fmt.Errorf("%w: total rounds must be between 1 and %d", ErrInvalidArgument, maxRounds)
	}
	return nil
}

func (a *App) validateMakePickRequest(ctx context.Context, req MakePickRequest) error {
	if req.Override && !auth.FromContext(ctx).IsAdmin() {
		return ErrOverrideNotPermitted
	}
	if req.DraftID == uuid.Nil {
		return fmt.Errorf("%w: draft id is required", ErrInvalidArgument)
	}
	if req.ParticipantID == uuid.Nil {
		return fmt.Errorf("%w: participant id is required", ErrInvalidArgument)
	}
	if req.PlayerID == uuid.Nil {
		return fmt.Errorf("%w: player id is required", ErrInvalidArgument)
	}
	return nil
}

func currentPicker(s snake.State, order []models.DraftOrderEntry) *models.DraftOrderEntry {
	idx, ok := snake.PickerIndex(s, len(order))
	if !ok {
		return nil
	}
	entry := order[idx]
	return &entry
}

func findEntry(order []models.DraftOrderEntry, participantID uuid.UUID) (models.DraftOrderEntry, bool) {
	for _, e := range order {
		if e.ParticipantID == participantID {
			return e, true
		}
	}
	return models.DraftOrderEntry{}, false
}

func orderPayload(order []models.DraftOrderEntry) []events.OrderEntry {
	out := make([]events.OrderEntry, len(order))
	for i, e := range order {
		out[i] = events.OrderEntry{
			ParticipantID:   e.ParticipantID.String(),
			ParticipantName: e.ParticipantName,
			Position:        e.Position,
		}
	}
	return out
}

func writeEvent(ctx context.Context, tx DraftStore, draftID uuid.UUID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	if err := tx.InsertOutboxEvent(ctx, draftID, eventType, data); err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}
