package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/entity"
)

var errFakeProvider = errors.New("fake provider down")

type fakeTrend struct {
	mu     sync.Mutex
	calls  [][]string
	result map[string]dto.TrendSignal
	err    error
	block  bool
}

func (f *fakeTrend) FetchTrends(ctx context.Context, companies []string) (map[string]dto.TrendSignal, error) {
	f.mu.Lock()
	f.calls = append(f.calls, companies)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

func (f *fakeTrend) companies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		out = append(out, c...)
	}
	return out
}

type fakeNews struct {
	result map[string]dto.SentimentSignal
	err    error
}

func (f *fakeNews) FetchSentiment(_ context.Context, _ []string) (map[string]dto.SentimentSignal, error) {
	return f.result, f.err
}

type fakeQuote struct {
	result map[string]dto.QuoteSignal
	err    error
}

func (f *fakeQuote) FetchQuotes(_ context.Context, _ []string) (map[string]dto.QuoteSignal, error) {
	return f.result, f.err
}

type fakeFundamentals struct {
	result map[string]dto.FundamentalsSignal
	err    error
}

func (f *fakeFundamentals) FetchFundamentals(_ context.Context, _ []string) (map[string]dto.FundamentalsSignal, error) {
	return f.result, f.err
}

// fakeSynthesis scores companies from a fixed table; unknown companies fail.
type fakeSynthesis struct {
	mu       sync.Mutex
	scores   map[string]float64
	requests []dto.SynthesisRequest
}

func (f *fakeSynthesis) Synthesize(_ context.Context, req dto.SynthesisRequest) (*dto.SynthesisResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	score, ok := f.scores[req.CompanyName]
	if !ok {
		return nil, fmt.Errorf("%w: no score for %s", ErrSynthesisUnavailable, req.CompanyName)
	}
	return &dto.SynthesisResult{HypeScore: &score, Recommendation: "Buy", RiskLevel: "Medium", MarketOutlook: "Bullish"}, nil
}

type fakeComparables struct {
	result []dto.Comparable
	err    error
}

func (f *fakeComparables) FindSimilar(_ context.Context, _ dto.ComparableQuery) ([]dto.Comparable, error) {
	return f.result, f.err
}

// fakeSender fails the batches whose index is listed in failBatches.
type fakeSender struct {
	mu          sync.Mutex
	batches     [][]string
	failBatches map[int]bool
}

func (f *fakeSender) SendBatch(_ context.Context, to []string, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.batches)
	f.batches = append(f.batches, to)
	if f.failBatches[idx] {
		return "", fmt.Errorf("provider rejected batch %d", idx)
	}
	return fmt.Sprintf("msg-%d", idx), nil
}

type fakeCalendar struct {
	upcoming    []dto.RawCandidate
	upcomingErr error
	recent      []dto.RawCandidate
	tickers     []dto.RawCandidate
	auxErr      error
	calls       int
}

func (f *fakeCalendar) UpcomingIPOs(_ context.Context) ([]dto.RawCandidate, error) {
	f.calls++
	return f.upcoming, f.upcomingErr
}

func (f *fakeCalendar) RecentIPOPrices(_ context.Context) ([]dto.RawCandidate, error) {
	return f.recent, f.auxErr
}

func (f *fakeCalendar) TickerPrices(_ context.Context) ([]dto.RawCandidate, error) {
	return f.tickers, f.auxErr
}

type fakeSubscribers struct {
	emails []string
	err    error
}

func (f *fakeSubscribers) FindActiveEmails(_ context.Context) ([]string, error) {
	return f.emails, f.err
}

func (f *fakeSubscribers) Create(_ context.Context, s *entity.Subscriber) error {
	f.emails = append(f.emails, s.Email)
	return nil
}

type fakeRuns struct {
	runs map[string]*entity.DigestRun
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{runs: map[string]*entity.DigestRun{}}
}

func (f *fakeRuns) Create(_ context.Context, run *entity.DigestRun) error {
	copied := *run
	f.runs[run.RunID] = &copied
	return nil
}

func (f *fakeRuns) Update(_ context.Context, run *entity.DigestRun) error {
	copied := *run
	f.runs[run.RunID] = &copied
	return nil
}

func (f *fakeRuns) FindByRunID(_ context.Context, runID string) (*entity.DigestRun, error) {
	return f.runs[runID], nil
}

func (f *fakeRuns) FindRecent(_ context.Context, limit int) ([]entity.DigestRun, error) {
	var out []entity.DigestRun
	for _, r := range f.runs {
		out = append(out, *r)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCache struct {
	lockedBy string
	released int
	latest   *dto.RunSummary
}

func (f *fakeCache) AcquireRunLock(_ context.Context, runID string, _ time.Duration) (bool, error) {
	if f.lockedBy != "" {
		return false, nil
	}
	f.lockedBy = runID
	return true, nil
}

func (f *fakeCache) ReleaseRunLock(_ context.Context, runID string) error {
	if f.lockedBy == runID {
		f.lockedBy = ""
		f.released++
	}
	return nil
}

func (f *fakeCache) SaveLatest(_ context.Context, summary *dto.RunSummary, _ time.Duration) error {
	copied := *summary
	f.latest = &copied
	return nil
}

func (f *fakeCache) GetLatest(_ context.Context) (*dto.RunSummary, error) {
	return f.latest, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func ptr[T any](v T) *T { return &v }
