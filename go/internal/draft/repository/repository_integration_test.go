//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/playoffpool/go/internal/auth"
	"github.com/mcdev12/playoffpool/go/internal/draft"
	"github.com/mcdev12/playoffpool/go/internal/draft/events"
	"github.com/mcdev12/playoffpool/go/internal/draft/outbox"
	"github.com/mcdev12/playoffpool/go/internal/draft/repository"
	"github.com/mcdev12/playoffpool/go/internal/draft/snake"
	"github.com/mcdev12/playoffpool/go/internal/participants"
	"github.com/mcdev12/playoffpool/go/internal/pgtest"
	"github.com/mcdev12/playoffpool/go/internal/player"
)

const season = 2025

func TestDraftAgainstPostgres(t *testing.T) {
	db := pgtest.New(t)
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 12, 20, 18, 0, 0, 0, time.UTC))

	people := participants.NewRepository(db)
	for _, name := range []string{"Avery", "Blake"} {
		_, err := people.CreateParticipant(ctx, participants.CreateParticipantRequest{Name: name})
		require.NoError(t, err)
	}

	players := player.NewRepository(db)
	var pool []uuid.UUID
	for _, name := range []string{"Josh Allen", "Saquon Barkley", "Ja'Marr Chase", "Travis Kelce", "Derrick Henry"} {
		p, created, err := players.UpsertPlayer(ctx, player.UpsertPlayerParams{Name: name, Position: "RB", Team: "BUF"})
		require.NoError(t, err)
		require.True(t, created)
		pool = append(pool, p.ID)
	}

	repo := repository.NewRepository(db)
	app := draft.NewApp(repo, draft.Config{DefaultRounds: 2}, draft.WithClock(clock))

	snap, err := app.CreateDraft(ctx, draft.CreateDraftRequest{SeasonYear: season})
	require.NoError(t, err)
	require.Len(t, snap.Order, 2)
	first, second := snap.Order[0].ParticipantID, snap.Order[1].ParticipantID

	t.Run("racing picks for one slot commit once", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = app.MakePick(ctx, draft.MakePickRequest{
					DraftID:       snap.Draft.ID,
					ParticipantID: first,
					PlayerID:      pool[i],
				})
			}(i)
		}
		wg.Wait()

		var ok int
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, draft.ErrNotYourTurn)
		}
		assert.Equal(t, 1, ok)

		picks, err := app.GetDraftPicks(ctx, snap.Draft.ID)
		require.NoError(t, err)
		require.Len(t, picks, 1)
		assert.Equal(t, 1, picks[0].PickNumber)
	})

	t.Run("drafted player is rejected", func(t *testing.T) {
		picks, err := app.GetDraftPicks(ctx, snap.Draft.ID)
		require.NoError(t, err)

		_, err = app.MakePick(ctx, draft.MakePickRequest{
			DraftID:       snap.Draft.ID,
			ParticipantID: second,
			PlayerID:      picks[0].PlayerID,
		})
		assert.ErrorIs(t, err, draft.ErrPlayerAlreadyDrafted)
	})

	t.Run("snake order is followed to completion", func(t *testing.T) {
		for _, step := range []struct {
			participant uuid.UUID
			player      uuid.UUID
		}{
			{second, pool[2]},
			{second, pool[3]},
			{first, pool[4]},
		} {
			_, err := app.MakePick(ctx, draft.MakePickRequest{
				DraftID:       snap.Draft.ID,
				ParticipantID: step.participant,
				PlayerID:      step.player,
			})
			require.NoError(t, err)
		}

		got, err := app.GetDraft(ctx, snap.Draft.ID)
		require.NoError(t, err)
		assert.True(t, got.Draft.IsComplete)

		admin := auth.WithPrincipal(ctx, auth.Principal{Subject: "commissioner", Role: auth.RoleAdmin})
		_, err = app.MakePick(admin, draft.MakePickRequest{
			DraftID:       snap.Draft.ID,
			ParticipantID: first,
			PlayerID:      pool[0],
			Override:      true,
		})
		assert.ErrorIs(t, err, draft.ErrDraftComplete)
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		d, err := repo.GetDraft(ctx, snap.Draft.ID)
		require.NoError(t, err)

		err = repo.UpdateDraftState(ctx, d.ID, snake.New(2), d.Version-1, clock.Now())
		assert.ErrorIs(t, err, draft.ErrVersionConflict)
	})

	t.Run("every change reached the outbox", func(t *testing.T) {
		store := outbox.NewRepository(db)

		pending, err := store.FetchUnsent(ctx, 100)
		require.NoError(t, err)

		var kinds []string
		ids := make([]uuid.UUID, 0, len(pending))
		for _, e := range pending {
			assert.Equal(t, snap.Draft.ID, e.DraftID)
			kinds = append(kinds, e.EventType)
			ids = append(ids, e.ID)
		}
		assert.ElementsMatch(t, []string{
			events.TypeDraftCreated,
			events.TypePickMade,
			events.TypePickMade,
			events.TypePickMade,
			events.TypePickMade,
			events.TypeDraftCompleted,
		}, kinds)

		require.NoError(t, store.MarkSent(ctx, ids, clock.Now()))
		n, err := store.CountPending(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete clears draft rosters", func(t *testing.T) {
		require.NoError(t, app.DeleteDraft(ctx, season))

		current, err := app.GetCurrentDraft(ctx, season)
		require.NoError(t, err)
		assert.Nil(t, current)

		var left int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roster_entries`).Scan(&left))
		assert.Zero(t, left)
	})
}
