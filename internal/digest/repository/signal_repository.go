package repository

import (
	"context"

	"ipo-hype-tracker/internal/digest/config"
	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"
)

// TrendRepository returns the search-interest signal keyed by company name.
type TrendRepository interface {
	FetchTrends(ctx context.Context, companies []string) (map[string]dto.TrendSignal, error)
}

// NewsRepository returns the news-sentiment signal keyed by company name.
type NewsRepository interface {
	FetchSentiment(ctx context.Context, companies []string) (map[string]dto.SentimentSignal, error)
}

// QuoteRepository returns the market-quote signal keyed by ticker.
type QuoteRepository interface {
	FetchQuotes(ctx context.Context, tickers []string) (map[string]dto.QuoteSignal, error)
}

// FundamentalsRepository returns financial fundamentals keyed by ticker.
type FundamentalsRepository interface {
	FetchFundamentals(ctx context.Context, tickers []string) (map[string]dto.FundamentalsSignal, error)
}

type trendRepository struct {
	client *providerClient
}

// NewTrendRepository creates the HTTP trend-index provider.
func NewTrendRepository(cfg *config.Config, log *logger.Logger) TrendRepository {
	return &trendRepository{client: newProviderClient(dto.ProviderTrend, cfg.Providers.Trend, cfg.Providers.CacheTTL, log)}
}

func (r *trendRepository) FetchTrends(ctx context.Context, companies []string) (map[string]dto.TrendSignal, error) {
	return fetchBatch[dto.TrendSignal](ctx, r.client, companies)
}

type newsRepository struct {
	client *providerClient
}

// NewNewsRepository creates the HTTP news-sentiment provider.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsRepository{client: newProviderClient(dto.ProviderNews, cfg.Providers.News, cfg.Providers.CacheTTL, log)}
}

func (r *newsRepository) FetchSentiment(ctx context.Context, companies []string) (map[string]dto.SentimentSignal, error) {
	return fetchBatch[dto.SentimentSignal](ctx, r.client, companies)
}

type quoteRepository struct {
	client *providerClient
}

// NewQuoteRepository creates the HTTP market-quote provider.
func NewQuoteRepository(cfg *config.Config, log *logger.Logger) QuoteRepository {
	return &quoteRepository{client: newProviderClient(dto.ProviderQuote, cfg.Providers.Quote, cfg.Providers.CacheTTL, log)}
}

func (r *quoteRepository) FetchQuotes(ctx context.Context, tickers []string) (map[string]dto.QuoteSignal, error) {
	return fetchBatch[dto.QuoteSignal](ctx, r.client, tickers)
}

type fundamentalsRepository struct {
	client *providerClient
}

// NewFundamentalsRepository creates the HTTP fundamentals provider.
func NewFundamentalsRepository(cfg *config.Config, log *logger.Logger) FundamentalsRepository {
	return &fundamentalsRepository{client: newProviderClient(dto.ProviderFundamentals, cfg.Providers.Fundamentals, cfg.Providers.CacheTTL, log)}
}

func (r *fundamentalsRepository) FetchFundamentals(ctx context.Context, tickers []string) (map[string]dto.FundamentalsSignal, error) {
	return fetchBatch[dto.FundamentalsSignal](ctx, r.client, tickers)
}
