package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/digest/render"
	"ipo-hype-tracker/pkg/common"
	"ipo-hype-tracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeline struct {
	deps        *enricherDeps
	calendar    *fakeCalendar
	subscribers *fakeSubscribers
	runs        *fakeRuns
	cache       *fakeCache
	sender      *fakeSender
	notifier    *fakeNotifier
	opts        DigestOptions
}

func newPipeline() *pipeline {
	return &pipeline{
		deps:        newEnricherDeps(),
		calendar:    &fakeCalendar{},
		subscribers: &fakeSubscribers{},
		runs:        newFakeRuns(),
		cache:       &fakeCache{},
		sender:      &fakeSender{},
		notifier:    &fakeNotifier{},
		opts:        DigestOptions{MaxCandidates: 10, TopN: 5, EnrichBatchSize: 5, MailBatchSize: 50},
	}
}

func (p *pipeline) service() DigestService {
	log := logger.NewNop()
	dispatcher := NewBatchDispatcher(p.sender, p.opts.MailBatchSize, 0, log)
	return NewDigestService(p.calendar, p.subscribers, p.runs, p.cache, p.deps.enricher(EnricherOptions{}),
		dispatcher, render.NewRenderer("Weekly IPOs"), p.notifier, p.opts, log)
}

// withCandidates registers n upcoming IPOs named Company-00.. with scores from score(i).
func (p *pipeline) withCandidates(n int, score func(i int) (float64, bool)) {
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Company-%02d", i)
		p.calendar.upcoming = append(p.calendar.upcoming, dto.RawCandidate{
			"Company Name": name,
			"Symbol":       fmt.Sprintf("c%02d", i),
			"Price Low":    "$10.00",
			"Price High":   "$12.00",
		})
		if s, ok := score(i); ok {
			p.deps.synthesis.scores[name] = s
		}
	}
}

func TestDigestService_Run_Completed(t *testing.T) {
	p := newPipeline()
	p.withCandidates(3, func(i int) (float64, bool) { return float64(60 + i*10), true })
	p.subscribers.emails = recipients(120)

	summary, err := p.service().Run(context.Background(), dto.RunRequest{RunID: "run-1", Trigger: common.TriggerCLI})
	require.NoError(t, err)

	assert.Equal(t, dto.RunStatusCompleted, summary.Status)
	assert.Equal(t, []string{"C02", "C01", "C00"}, summary.Tickers())
	assert.Equal(t, 3, summary.CandidatesProcessed)
	assert.Equal(t, 120, summary.RecipientsSucceeded)
	assert.Equal(t, 3, summary.BatchesSucceeded)
	assert.NotNil(t, summary.FinishedAt)

	run := p.runs.runs["run-1"]
	require.NotNil(t, run)
	assert.Equal(t, dto.RunStatusCompleted, run.Status)
	assert.Equal(t, []string{"C02", "C01", "C00"}, []string(run.RankedTickers))
	assert.NotEmpty(t, run.Summary)

	require.NotNil(t, p.cache.latest)
	assert.Equal(t, "run-1", p.cache.latest.RunID)
	assert.Equal(t, 1, p.cache.released)
	require.Len(t, p.notifier.messages, 1)
	assert.Contains(t, p.notifier.messages[0], "IPO Hype Digest")
}

func TestDigestService_Run_NoRankableCandidates(t *testing.T) {
	p := newPipeline()
	p.withCandidates(4, func(int) (float64, bool) { return 0, false })
	p.subscribers.emails = recipients(10)

	summary, err := p.service().Run(context.Background(), dto.RunRequest{RunID: "run-1"})

	assert.ErrorIs(t, err, ErrNoRankableCandidates)
	require.NotNil(t, summary)
	assert.Equal(t, dto.RunStatusFailed, summary.Status)
	assert.Equal(t, 4, summary.CandidatesExcluded)
	assert.Empty(t, p.sender.batches, "no dispatch without rankable candidates")
	assert.Nil(t, p.cache.latest)
	assert.Equal(t, dto.RunStatusFailed, p.runs.runs["run-1"].Status)
	require.Len(t, p.notifier.messages, 1)
	assert.Contains(t, p.notifier.messages[0], "ERROR ALERT")
}

func TestDigestService_Run_CandidateBound(t *testing.T) {
	p := newPipeline()
	p.withCandidates(30, func(i int) (float64, bool) { return float64(i), true })

	summary, err := p.service().Run(context.Background(), dto.RunRequest{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 30, summary.CandidatesReceived)
	assert.Equal(t, 10, summary.CandidatesBounded)
	assert.Equal(t, 10, summary.CandidatesProcessed)
	assert.Len(t, p.deps.trend.calls, 2, "two enrichment chunks of five")
	assert.Len(t, p.deps.trend.companies(), 10)
	assert.Len(t, p.deps.synthesis.requests, 10)
	assert.Equal(t, []string{"C09", "C08", "C07", "C06", "C05"}, summary.Tickers())
}

func TestDigestService_Run_UnboundedWhenZero(t *testing.T) {
	p := newPipeline()
	p.opts.MaxCandidates = 0
	p.withCandidates(12, func(i int) (float64, bool) { return 50, true })

	summary, err := p.service().Run(context.Background(), dto.RunRequest{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 12, summary.CandidatesProcessed)
	assert.Equal(t, []string{"C00", "C01", "C02", "C03", "C04"}, summary.Tickers(), "ties keep input order")
}

func TestDigestService_Run_PartialDelivery(t *testing.T) {
	p := newPipeline()
	p.withCandidates(2, func(i int) (float64, bool) { return 80, true })
	p.subscribers.emails = recipients(120)
	p.sender.failBatches = map[int]bool{2: true}

	summary, err := p.service().Run(context.Background(), dto.RunRequest{RunID: "run-1"})
	require.NoError(t, err)

	assert.Equal(t, dto.RunStatusPartial, summary.Status)
	assert.Equal(t, 120, summary.RecipientsAttempted)
	assert.Equal(t, 100, summary.RecipientsSucceeded)
	assert.Equal(t, 20, summary.RecipientsFailed)
	assert.Len(t, summary.FailedRecipients, 20)
	assert.Equal(t, []string(p.runs.runs["run-1"].FailedRecipients), summary.FailedRecipients)
}

func TestDigestService_Run_TotalDeliveryFailure(t *testing.T) {
	p := newPipeline()
	p.withCandidates(2, func(i int) (float64, bool) { return 80, true })
	p.subscribers.emails = recipients(60)
	p.sender.failBatches = map[int]bool{0: true, 1: true}

	summary, err := p.service().Run(context.Background(), dto.RunRequest{})

	assert.ErrorIs(t, err, ErrBatchDeliveryFailure)
	assert.Equal(t, dto.RunStatusFailed, summary.Status)
	assert.Equal(t, 60, summary.RecipientsFailed)
	assert.Equal(t, 2, summary.BatchesFailed)
}

func TestDigestService_Run_NoSubscribers(t *testing.T) {
	p := newPipeline()
	p.withCandidates(1, func(i int) (float64, bool) { return 80, true })

	summary, err := p.service().Run(context.Background(), dto.RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, dto.RunStatusCompleted, summary.Status)
	assert.Zero(t, summary.RecipientsAttempted)
}

func TestDigestService_Run_DryRunSkipsDispatch(t *testing.T) {
	p := newPipeline()
	p.withCandidates(2, func(i int) (float64, bool) { return 80, true })
	p.subscribers.emails = recipients(5)

	summary, err := p.service().Run(context.Background(), dto.RunRequest{DryRun: true})
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Empty(t, p.sender.batches)
	assert.Len(t, summary.Top, 2)
}

func TestDigestService_Run_SkipsMissingIdentity(t *testing.T) {
	p := newPipeline()
	p.withCandidates(2, func(i int) (float64, bool) { return 80, true })
	p.calendar.upcoming = append(p.calendar.upcoming, dto.RawCandidate{"Company Name": "No Ticker Co", "Price Low": "5"})

	summary, err := p.service().Run(context.Background(), dto.RunRequest{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.CandidatesBounded)
	assert.Equal(t, 1, summary.CandidatesSkipped)
	assert.Equal(t, 2, summary.CandidatesProcessed)
}

func TestDigestService_Run_UsesAuxiliaryPrices(t *testing.T) {
	p := newPipeline()
	p.calendar.upcoming = []dto.RawCandidate{{"Company": "Acme Corp", "Symbol": "ACME"}}
	p.calendar.tickers = []dto.RawCandidate{{"ticker": "acme", "price": 20}}
	p.deps.synthesis.scores["Acme Corp"] = 90

	summary, err := p.service().Run(context.Background(), dto.RunRequest{DryRun: true})
	require.NoError(t, err)
	require.Len(t, summary.Top, 1)
	assert.InDelta(t, 18, summary.Top[0].Candidate.PriceRange.Low, 1e-9)
	assert.InDelta(t, 22, summary.Top[0].Candidate.PriceRange.High, 1e-9)
}

func TestDigestService_Run_CalendarFailure(t *testing.T) {
	p := newPipeline()
	p.calendar.upcomingErr = fmt.Errorf("%w: calendar down", ErrProviderUnavailable)

	summary, err := p.service().Run(context.Background(), dto.RunRequest{})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, dto.RunStatusFailed, summary.Status)
	assert.True(t, strings.Contains(summary.Error, "upcoming"))
}

func TestDigestService_Run_LockHeld(t *testing.T) {
	p := newPipeline()
	p.cache.lockedBy = "other-run"

	summary, err := p.service().Run(context.Background(), dto.RunRequest{RunID: "run-2"})

	assert.ErrorIs(t, err, ErrRunInProgress)
	require.NotNil(t, summary)
	assert.Zero(t, p.calendar.calls)
	assert.Equal(t, "other-run", p.cache.lockedBy)
	assert.Empty(t, p.runs.runs)
}

func TestDigestService_History(t *testing.T) {
	p := newPipeline()
	p.withCandidates(1, func(i int) (float64, bool) { return 80, true })
	svc := p.service()
	ctx := context.Background()

	_, err := svc.Latest(ctx)
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = svc.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = svc.Run(ctx, dto.RunRequest{RunID: "run-1", DryRun: true})
	require.NoError(t, err)

	got, err := svc.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, dto.RunStatusCompleted, got.Status)
	assert.Equal(t, []string{"C00"}, got.Tickers())

	runs, err := svc.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", latest.RunID)
}
