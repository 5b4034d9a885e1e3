package service

import (
	"context"
	"strings"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/digest/repository"
	"ipo-hype-tracker/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// EnricherOptions bounds each external call made during enrichment.
type EnricherOptions struct {
	ProviderTimeout  time.Duration
	SynthesisTimeout time.Duration
}

// Enricher gathers the four raw signals for a batch of candidates and asks the synthesis provider for a hype score.
type Enricher struct {
	trend        repository.TrendRepository
	news         repository.NewsRepository
	quote        repository.QuoteRepository
	fundamentals repository.FundamentalsRepository
	synthesis    repository.SynthesisRepository
	comparables  repository.ComparableRepository
	opts         EnricherOptions
	logger       *logger.Logger
}

// NewEnricher creates an Enricher. comparables may be nil to skip the historical lookup.
func NewEnricher(
	trend repository.TrendRepository,
	news repository.NewsRepository,
	quote repository.QuoteRepository,
	fundamentals repository.FundamentalsRepository,
	synthesis repository.SynthesisRepository,
	comparables repository.ComparableRepository,
	opts EnricherOptions,
	log *logger.Logger,
) *Enricher {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 15 * time.Second
	}
	if opts.SynthesisTimeout <= 0 {
		opts.SynthesisTimeout = 60 * time.Second
	}
	return &Enricher{
		trend:        trend,
		news:         news,
		quote:        quote,
		fundamentals: fundamentals,
		synthesis:    synthesis,
		comparables:  comparables,
		opts:         opts,
		logger:       log,
	}
}

// rawSignals holds whatever each provider returned for one batch.
type rawSignals struct {
	trends       map[string]dto.TrendSignal
	sentiments   map[string]dto.SentimentSignal
	quotes       map[string]dto.QuoteSignal
	fundamentals map[string]dto.FundamentalsSignal
}

// Enrich enriches a single candidate. It returns ErrSynthesisUnavailable when the candidate cannot be ranked.
func (e *Enricher) Enrich(ctx context.Context, c dto.Candidate) (*dto.RankedCandidate, error) {
	ranked, _ := e.EnrichBatch(ctx, []dto.Candidate{c})
	if len(ranked) == 0 {
		return nil, ErrSynthesisUnavailable
	}
	return &ranked[0], nil
}

// EnrichBatch enriches candidates in input order. Candidates without a hype score are excluded from the result.
func (e *Enricher) EnrichBatch(ctx context.Context, candidates []dto.Candidate) ([]dto.RankedCandidate, dto.EnrichStats) {
	var stats dto.EnrichStats
	if len(candidates) == 0 {
		return nil, stats
	}

	raw := e.fetchSignals(ctx, candidates)

	ranked := make([]dto.RankedCandidate, 0, len(candidates))
	for i, input := range candidates {
		stats.Processed++

		bundle, c := e.mergeSignals(ctx, input, raw)

		var comparables []dto.Comparable
		if e.comparables != nil {
			comparables = e.findComparables(ctx, c, &bundle)
		}

		result, err := e.synthesize(ctx, dto.NewSynthesisRequest(c, bundle, comparables))
		if err != nil {
			stats.Excluded++
			e.logger.WarnContext(ctx, "Excluding candidate without hype score",
				logger.StringField("company", c.Name),
				logger.StringField("ticker", c.Ticker),
				logger.ErrorField(err),
			)
			continue
		}
		bundle.ApplySynthesis(*result)
		e.logger.DebugContext(ctx, "Candidate scored",
			logger.StringField("ticker", c.Ticker),
			logger.Float64Field("hype_score", bundle.HypeScore),
		)

		ranked = append(ranked, dto.RankedCandidate{Candidate: c, Signals: bundle, InputIndex: i})
	}
	return ranked, stats
}

// fetchSignals calls the four providers concurrently. Every goroutine records its own outcome and returns nil,
// so a failing provider never cancels its siblings.
func (e *Enricher) fetchSignals(ctx context.Context, candidates []dto.Candidate) rawSignals {
	names := make([]string, 0, len(candidates))
	tickers := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
		tickers = append(tickers, c.Ticker)
	}

	var raw rawSignals
	var g errgroup.Group

	g.Go(func() error {
		pctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
		defer cancel()
		res, err := e.trend.FetchTrends(pctx, names)
		e.logProviderError(ctx, dto.ProviderTrend, err)
		raw.trends = res
		return nil
	})
	g.Go(func() error {
		pctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
		defer cancel()
		res, err := e.news.FetchSentiment(pctx, names)
		e.logProviderError(ctx, dto.ProviderNews, err)
		raw.sentiments = res
		return nil
	})
	g.Go(func() error {
		pctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
		defer cancel()
		res, err := e.quote.FetchQuotes(pctx, tickers)
		e.logProviderError(ctx, dto.ProviderQuote, err)
		raw.quotes = res
		return nil
	})
	g.Go(func() error {
		pctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
		defer cancel()
		res, err := e.fundamentals.FetchFundamentals(pctx, tickers)
		e.logProviderError(ctx, dto.ProviderFundamentals, err)
		raw.fundamentals = res
		return nil
	})

	_ = g.Wait()
	return raw
}

func (e *Enricher) logProviderError(ctx context.Context, provider string, err error) {
	if err == nil {
		return
	}
	e.logger.WarnContext(ctx, "Provider unavailable, falling back to defaults",
		logger.StringField("provider", provider),
		logger.ErrorField(err),
	)
}

// mergeSignals builds the candidate's bundle from defaults plus whatever each provider returned.
// Descriptive fields missing on the candidate are filled from fundamentals.
func (e *Enricher) mergeSignals(ctx context.Context, c dto.Candidate, raw rawSignals) (dto.SignalBundle, dto.Candidate) {
	bundle := dto.DefaultSignalBundle()
	degrade := func(provider string) {
		bundle.DegradedProviders = append(bundle.DegradedProviders, provider)
		e.logger.DebugContext(ctx, "Using default signal",
			logger.StringField("provider", provider),
			logger.StringField("company", c.Name),
			logger.StringField("ticker", c.Ticker),
		)
	}

	if s, ok := lookupSignal(raw.trends, c.Name); !ok || !bundle.ApplyTrend(s) {
		degrade(dto.ProviderTrend)
	}
	if s, ok := lookupSignal(raw.sentiments, c.Name); !ok || !bundle.ApplySentiment(s) {
		degrade(dto.ProviderNews)
	}
	if s, ok := lookupSignal(raw.quotes, c.Ticker); !ok || !bundle.ApplyQuote(s) {
		degrade(dto.ProviderQuote)
	}

	s, ok := lookupSignal(raw.fundamentals, c.Ticker)
	if !ok || !bundle.ApplyFundamentals(s) {
		degrade(dto.ProviderFundamentals)
		return bundle, c
	}
	if c.Sector == "" {
		c.Sector = s.Sector
	}
	if c.Industry == "" {
		c.Industry = s.Industry
	}
	if c.ImpliedMarketCap == 0 && s.ImpliedMarketCap != nil {
		c.ImpliedMarketCap = *s.ImpliedMarketCap
	}
	return bundle, c
}

func (e *Enricher) findComparables(ctx context.Context, c dto.Candidate, bundle *dto.SignalBundle) []dto.Comparable {
	marketCap := c.ImpliedMarketCap
	if marketCap == 0 {
		marketCap = bundle.MarketCap
	}
	if marketCap == 0 && c.PriceRange.Known() && bundle.SharesOutstanding > 0 {
		marketCap = c.PriceRange.Mid() * bundle.SharesOutstanding
	}

	pctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
	defer cancel()

	comparables, err := e.comparables.FindSimilar(pctx, dto.ComparableQuery{
		ImpliedMarketCap: marketCap,
		RevenueGrowthYoY: bundle.RevenueGrowthYoY,
		Sector:           c.Sector,
		Industry:         c.Industry,
	})
	if err != nil {
		bundle.DegradedProviders = append(bundle.DegradedProviders, dto.ProviderComparables)
		e.logProviderError(ctx, dto.ProviderComparables, err)
		return nil
	}
	return comparables
}

func (e *Enricher) synthesize(ctx context.Context, req dto.SynthesisRequest) (*dto.SynthesisResult, error) {
	sctx, cancel := context.WithTimeout(ctx, e.opts.SynthesisTimeout)
	defer cancel()

	result, err := e.synthesis.Synthesize(sctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil || result.HypeScore == nil {
		return nil, ErrSynthesisUnavailable
	}
	return result, nil
}

// lookupSignal matches a provider key exactly, then case-insensitively.
func lookupSignal[T any](signals map[string]T, key string) (T, bool) {
	if v, ok := signals[key]; ok {
		return v, true
	}
	for k, v := range signals {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
