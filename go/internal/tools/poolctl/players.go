package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mcdev12/playoffpool/go/internal/player"
)

func playersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "players", Short: "Search and maintain the player catalog"}
	cmd.AddCommand(playersSearchCmd(a), playersImportCmd(a), playersSyncCmd(a), eligibilityCmd(a))
	return cmd
}

func playersSearchCmd(a *app) *cobra.Command {
	var (
		eligibleOnly bool
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search players by name, team or position",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := player.SearchPlayersRequest{EligibleOnly: eligibleOnly, Limit: limit}
			if len(args) == 1 {
				req.Query = args[0]
			}
			players, err := a.client().Players.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, players)
			}
			renderPlayers(a.out, players)
			return nil
		},
	}
	cmd.Flags().BoolVar(&eligibleOnly, "eligible", false, "only draft-eligible players")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 = server default)")
	return cmd
}

func playersImportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import players from a csv or xlsx file (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := resolveFormat(path, format)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			result, err := a.client().Players.Import(cmd.Context(), string(f), data)
			if err != nil {
				return err
			}
			return a.printSyncResult(result)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "csv or xlsx (default: from extension)")
	return cmd
}

func resolveFormat(path, flag string) (player.Format, error) {
	if flag != "" {
		return player.ParseFormat(flag)
	}
	return player.FormatFromPath(path)
}

func playersSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh QB/RB/WR/TE from ESPN team rosters (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client().Players.Sync(cmd.Context())
			if err != nil {
				return err
			}
			return a.printSyncResult(result)
		},
	}
}

func (a *app) printSyncResult(result *player.SyncResult) error {
	if a.json() {
		return printJSON(a.out, result)
	}
	fmt.Fprintf(a.out, "processed %d: %d created, %d updated\n", result.TotalProcessed, result.Created, result.Updated)
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "  error: %s\n", e)
	}
	return nil
}

func eligibilityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "eligibility", Short: "Control which players may be drafted"}
	cmd.AddCommand(eligibilityStatsCmd(a), eligibilitySetCmd(a), eligibilityToggleCmd(a))
	return cmd
}

func eligibilityStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count eligible players per team",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client().Players.EligibilityStats(cmd.Context())
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, stats)
			}
			fmt.Fprintf(a.out, "%d of %d players eligible\n", stats.Eligible, stats.Total)
			tw := newTable(a.out, table.Row{"Team", "Eligible", "Total"})
			for _, t := range stats.ByTeam {
				tw.AppendRow(table.Row{t.Team, t.Eligible, t.Total})
			}
			tw.Render()
			return nil
		},
	}
}

func eligibilitySetCmd(a *app) *cobra.Command {
	var (
		teams    string
		all      bool
		eligible bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set eligibility for whole teams or every player (admin)",
		Example: `  poolctl players eligibility set --teams KC,BUF --eligible
  poolctl players eligibility set --all --eligible=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (teams != "") {
				return errors.New("pass exactly one of --teams or --all")
			}
			client := a.client()
			var (
				updated int64
				err     error
			)
			if all {
				updated, err = client.Players.SetAllEligibility(cmd.Context(), eligible)
			} else {
				updated, err = client.Players.SetTeamEligibility(cmd.Context(), splitTeams(teams), eligible)
			}
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, map[string]int64{"updated": updated})
			}
			fmt.Fprintf(a.out, "updated %d players\n", updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&teams, "teams", "", "comma-separated team abbreviations")
	cmd.Flags().BoolVar(&all, "all", false, "apply to every player")
	cmd.Flags().BoolVar(&eligible, "eligible", true, "eligibility to set")
	return cmd
}

func splitTeams(s string) []string {
	var teams []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			teams = append(teams, t)
		}
	}
	return teams
}

func eligibilityToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <player-id>",
		Short: "Flip one player's eligibility (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("player id: %w", err)
			}
			p, err := a.client().Players.ToggleEligibility(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.json() {
				return printJSON(a.out, p)
			}
			fmt.Fprintf(a.out, "%s is now eligible=%t\n", p.Name, p.IsEligible)
			return nil
		},
	}
}
