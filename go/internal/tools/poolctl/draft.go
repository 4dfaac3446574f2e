package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mcdev12/playoffpool/go/internal/draft"
	"github.com/mcdev12/playoffpool/go/internal/models"
)

var errNoDraft = errors.New("no draft for that season")

func draftCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "draft", Short: "Manage the season draft"}
	cmd.PersistentFlags().Int("season", 0, "season year (0 = current season)")
	cmd.AddCommand(draftCreateCmd(a), draftDeleteCmd(a), draftStatusCmd(a), draftPicksCmd(a), draftPickCmd(a))
	return cmd
}

func seasonFlag(cmd *cobra.Command) int {
	season, _ := cmd.Flags().GetInt("season")
	return season
}

func (a *app) currentDraft(ctx context.Context, season int) (*models.DraftSnapshot, error) {
	snap, err := a.client().Draft.Current(ctx, season)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errNoDraft
	}
	return snap, nil
}

func draftCreateCmd(a *app) *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft with a shuffled order, replacing any existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.client().Draft.Create(cmd.Context(), draft.CreateDraftRequest{
				SeasonYear:  seasonFlag(cmd),
				TotalRounds: rounds,
			})
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, snap)
			}
			renderDraft(a.out, snap, nil)
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 0, "total rounds (0 = configured default)")
	return cmd
}

func draftDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the season's draft, its picks and drafted roster entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			season := seasonFlag(cmd)
			if err := a.client().Draft.Delete(cmd.Context(), season); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted draft for season %d\n", season)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func draftStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the draft order and who is on the clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := a.currentDraft(ctx, seasonFlag(cmd))
			if err != nil {
				return err
			}
			picker, err := a.client().Draft.CurrentPicker(ctx, snap.Draft.ID)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, struct {
					Draft  *models.DraftSnapshot   `json:"draft"`
					Picker *models.DraftOrderEntry `json:"picker"`
				}{snap, picker})
			}
			renderDraft(a.out, snap, picker)
			return nil
		},
	}
}

func draftPicksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "picks",
		Short: "List the picks made so far",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := a.currentDraft(ctx, seasonFlag(cmd))
			if err != nil {
				return err
			}
			picks, err := a.client().Draft.Picks(ctx, snap.Draft.ID)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, picks)
			}
			renderPicks(a.out, picks)
			return nil
		},
	}
}

func draftPickCmd(a *app) *cobra.Command {
	var (
		participant string
		playerID    string
		override    bool
	)
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Record a pick; --override picks out of turn and needs the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := uuid.Parse(participant)
			if err != nil {
				return fmt.Errorf("--participant: %w", err)
			}
			plid, err := uuid.Parse(playerID)
			if err != nil {
				return fmt.Errorf("--player: %w", err)
			}

			ctx := cmd.Context()
			snap, err := a.currentDraft(ctx, seasonFlag(cmd))
			if err != nil {
				return err
			}
			result, err := a.client().Draft.MakePick(ctx, draft.MakePickRequest{
				DraftID:       snap.Draft.ID,
				ParticipantID: pid,
				PlayerID:      plid,
				Override:      override,
			})
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, result)
			}

			fmt.Fprintf(a.out, "pick %d (round %d.%d): %s\n",
				result.Pick.PickNumber, result.Pick.Round, result.Pick.PickInRound, result.RosterEntry.PlayerName)
			switch {
			case result.State.IsComplete:
				fmt.Fprintln(a.out, "draft complete")
			case result.NextPicker != nil:
				fmt.Fprintf(a.out, "on the clock: %s\n", result.NextPicker.ParticipantName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&participant, "participant", "", "participant id")
	cmd.Flags().StringVar(&playerID, "player", "", "player id")
	cmd.Flags().BoolVar(&override, "override", false, "pick out of turn (admin)")
	_ = cmd.MarkFlagRequired("participant")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}
