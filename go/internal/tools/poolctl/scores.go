package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcdev12/playoffpool/go/internal/scoring"
)

func scoresCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "scores", Short: "Pull stats and projections and compute weekly scores"}
	cmd.PersistentFlags().Int("season", 0, "NFL season (year the season started)")
	cmd.PersistentFlags().Int("week", 0, "NFL week; 19-22 are the playoff rounds")
	cmd.PersistentFlags().Int("from", 0, "first NFL week of a range")
	cmd.PersistentFlags().Int("to", 0, "last NFL week of a range")
	_ = cmd.MarkPersistentFlagRequired("season")
	cmd.AddCommand(scoresSyncCmd(a), scoresCalculateCmd(a), scoresProjectionsCmd(a))
	return cmd
}

// weeks is either a single --week or a --from/--to range.
type weeks struct {
	season   int
	week     int
	from, to int
}

func (w weeks) ranged() bool { return w.week == 0 }

func selectWeeks(cmd *cobra.Command) (weeks, error) {
	var w weeks
	f := cmd.Flags()
	w.season, _ = f.GetInt("season")
	w.week, _ = f.GetInt("week")
	w.from, _ = f.GetInt("from")
	w.to, _ = f.GetInt("to")

	single := f.Changed("week")
	ranged := f.Changed("from") || f.Changed("to")
	switch {
	case single && ranged:
		return weeks{}, errors.New("use either --week or --from/--to, not both")
	case single:
		if w.week < 1 {
			return weeks{}, fmt.Errorf("--week must be positive, got %d", w.week)
		}
		return w, nil
	case f.Changed("from") && f.Changed("to"):
		return w, nil
	case ranged:
		return weeks{}, errors.New("a week range needs both --from and --to")
	default:
		return weeks{}, errors.New("either --week or --from and --to is required")
	}
}

func scoresSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch weekly stat lines from ESPN (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := selectWeeks(cmd)
			if err != nil {
				return err
			}
			if w.ranged() {
				result, err := a.client().Scoring.SyncActualsRange(cmd.Context(), w.season, w.from, w.to)
				if err != nil {
					return err
				}
				return a.printRange(result)
			}
			result, err := a.client().Scoring.SyncWeeklyActuals(cmd.Context(), w.season, w.week)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, result)
			}
			fmt.Fprintf(a.out, "week %d: fetched %d, updated %d, skipped %d\n", w.week, result.Fetched, result.Updated, result.Skipped)
			return nil
		},
	}
}

func scoresCalculateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calculate",
		Short: "Score every roster entry for a playoff week (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := selectWeeks(cmd)
			if err != nil {
				return err
			}
			if w.ranged() {
				result, err := a.client().Scoring.CalculateRange(cmd.Context(), w.season, w.from, w.to)
				if err != nil {
					return err
				}
				return a.printRange(result)
			}
			result, err := a.client().Scoring.CalculateRosterScores(cmd.Context(), w.season, w.week)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, result)
			}
			fmt.Fprintf(a.out, "playoff week %d: scored %d entries, skipped %d\n", result.PlayoffWeek, result.Updated, result.Skipped)
			return nil
		},
	}
}

func scoresProjectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projections",
		Short: "Fetch weekly projections from Sleeper (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := selectWeeks(cmd)
			if err != nil {
				return err
			}
			if w.ranged() {
				result, err := a.client().Scoring.SyncProjectionsRange(cmd.Context(), w.season, w.from, w.to)
				if err != nil {
					return err
				}
				return a.printRange(result)
			}
			result, err := a.client().Scoring.SyncProjections(cmd.Context(), w.season, w.week)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, result)
			}
			fmt.Fprintf(a.out, "week %d: projected %d, no projection %d, unmatched %d\n", w.week, result.Updated, result.NoProjection, result.NoMatch)
			return nil
		},
	}
}

func (a *app) printRange(result *scoring.RangeResult) error {
	if a.json() {
		return printJSON(a.out, result)
	}
	renderRange(a.out, result)
	return nil
}

func standingsCmd(a *app) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			standings, err := a.client().Scoring.Standings(cmd.Context(), season)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, standings)
			}
			renderStandings(a.out, standings)
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "season year (0 = current season)")
	return cmd
}
