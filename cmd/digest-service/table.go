package main

import (
	"fmt"
	"strings"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/digest/render"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderSummary(summary *dto.RunSummary) string {
	var b strings.Builder

	stats := table.NewWriter()
	stats.SetStyle(table.StyleRounded)
	stats.SetTitle("Digest run " + summary.RunID)
	stats.AppendRows([]table.Row{
		{"Status", summary.Status},
		{"Trigger", summary.Trigger},
		{"Dry run", summary.DryRun},
		{"Candidates received", summary.CandidatesReceived},
		{"Candidates enriched", summary.CandidatesProcessed},
		{"Candidates excluded", summary.CandidatesExcluded},
		{"Candidates skipped", summary.CandidatesSkipped},
		{"Recipients sent", summary.RecipientsSucceeded},
		{"Recipients failed", summary.RecipientsFailed},
	})
	if summary.Error != "" {
		stats.AppendRow(table.Row{"Error", summary.Error})
	}
	b.WriteString(stats.Render())

	if len(summary.Top) == 0 {
		return b.String()
	}

	top := table.NewWriter()
	top.SetStyle(table.StyleRounded)
	top.AppendHeader(table.Row{"#", "Ticker", "Company", "Hype", "Recommendation", "Risk", "Market cap"})
	for _, r := range summary.Top {
		top.AppendRow(table.Row{
			r.Rank,
			r.Candidate.Ticker,
			r.Candidate.Name,
			fmt.Sprintf("%.1f", r.HypeScore()),
			r.Signals.Recommendation,
			r.Signals.RiskLevel,
			render.Money(r.Candidate.ImpliedMarketCap),
		})
	}
	top.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	b.WriteString("\n")
	b.WriteString(top.Render())
	return b.String()
}
