package main

import (
	"testing"

	"ipo-hype-tracker/internal/digest/dto"

	"github.com/stretchr/testify/assert"
)

func TestRenderSummary(t *testing.T) {
	summary := &dto.RunSummary{
		RunID:               "run-1",
		Status:              dto.RunStatusPartial,
		Trigger:             "cli",
		CandidatesReceived:  3,
		RecipientsSucceeded: 100,
		RecipientsFailed:    20,
		Top: []dto.RankedCandidate{{
			Rank:      1,
			Candidate: dto.Candidate{Name: "Acme Corp", Ticker: "ACME", ImpliedMarketCap: 2.5e9},
			Signals:   dto.SignalBundle{HypeScore: 88.5, Recommendation: "Strong Buy", RiskLevel: "Medium"},
		}},
	}

	out := renderSummary(summary)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "partial")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "88.5")
	assert.Contains(t, out, "Strong Buy")
}

func TestRenderSummary_NoRankedCandidates(t *testing.T) {
	out := renderSummary(&dto.RunSummary{RunID: "run-2", Status: dto.RunStatusFailed, Error: "no rankable candidates"})
	assert.Contains(t, out, "no rankable candidates")
	assert.NotContains(t, out, "Ticker")
}
