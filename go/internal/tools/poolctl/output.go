package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mcdev12/playoffpool/go/internal/models"
	"github.com/mcdev12/playoffpool/go/internal/scoring"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	return tw
}

func renderDraft(w io.Writer, snap *models.DraftSnapshot, picker *models.DraftOrderEntry) {
	d := snap.Draft
	status := fmt.Sprintf("round %d, pick %d", d.CurrentRound, d.CurrentPick)
	if d.IsComplete {
		status = "complete"
	}
	fmt.Fprintf(w, "Draft %s  season %d  %d rounds  %s\n", d.ID, d.SeasonYear, d.TotalRounds, status)

	tw := newTable(w, table.Row{"#", "Participant", "On the clock"})
	for _, o := range snap.Order {
		mark := ""
		if picker != nil && picker.ParticipantID == o.ParticipantID {
			mark = "◀"
		}
		tw.AppendRow(table.Row{o.Position, o.ParticipantName, mark})
	}
	tw.Render()
}

func renderPicks(w io.Writer, picks []models.DraftPickDetail) {
	tw := newTable(w, table.Row{"Pick", "Round", "Participant", "Player", "Pos", "Team", "Override"})
	for _, p := range picks {
		override := ""
		if p.IsOverride {
			override = "yes"
		}
		tw.AppendRow(table.Row{p.PickNumber, fmt.Sprintf("%d.%d", p.Round, p.PickInRound), p.ParticipantName, p.PlayerName, p.PlayerPosition, p.PlayerTeam, override})
	}
	tw.Render()
}

func renderPlayers(w io.Writer, players []models.Player) {
	tw := newTable(w, table.Row{"ID", "Name", "Pos", "Team", "Eligible", "Proj"})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 6, Align: text.AlignRight}})
	for _, p := range players {
		proj := ""
		if p.ProjectedPoints != nil {
			proj = fmt.Sprintf("%.0f", *p.ProjectedPoints)
		}
		tw.AppendRow(table.Row{p.ID, p.Name, p.Position, p.Team, strconv.FormatBool(p.IsEligible), proj})
	}
	tw.Render()
}

func renderStandings(w io.Writer, standings []models.Standing) {
	tw := newTable(w, table.Row{"Rank", "Participant", "Points"})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	for _, s := range standings {
		tw.AppendRow(table.Row{s.Rank, s.ParticipantName, fmt.Sprintf("%.2f", s.TotalPoints)})
	}
	tw.Render()
}

func renderRange(w io.Writer, res *scoring.RangeResult) {
	tw := newTable(w, table.Row{"Week", "Updated", "Skipped", "Error"})
	for _, o := range res.Weeks {
		tw.AppendRow(table.Row{o.NFLWeek, o.Updated, o.Skipped, o.Error})
	}
	tw.AppendFooter(table.Row{"total", res.TotalUpdated, "", fmt.Sprintf("%d failed", res.Failed)})
	tw.Render()
}
