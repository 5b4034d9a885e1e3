package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ipo-hype-tracker/internal/digest/config"
	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var (
	positiveKeywords = []string{"growth", "profit", "success", "positive", "increase", "gain", "up", "rise", "bullish", "strong", "excellent", "outstanding"}
	negativeKeywords = []string{"loss", "decline", "decrease", "down", "fall", "bearish", "weak", "poor", "negative", "crash", "drop", "trouble"}
)

const sentimentLabelThreshold = 0.1

type rssNewsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	parser         *gofeed.Parser
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	inmemoryCache  *cache.Cache
}

// NewRSSNewsRepository creates a NewsRepository that scores keyword sentiment over an RSS news search feed.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	timeout := cfg.Providers.News.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = "ipo-hype-digest/1.0"

	limit := rate.Inf
	if cfg.Providers.News.MaxRequestPerSecond > 0 {
		limit = rate.Limit(cfg.Providers.News.MaxRequestPerSecond)
	}

	var inmemoryCache *cache.Cache
	if cfg.Providers.CacheTTL > 0 {
		inmemoryCache = cache.New(cfg.Providers.CacheTTL, 2*cfg.Providers.CacheTTL)
	}

	return &rssNewsRepository{
		cfg:            cfg,
		log:            log,
		parser:         parser,
		httpClient:     httpClient,
		requestLimiter: rate.NewLimiter(limit, 1),
		inmemoryCache:  inmemoryCache,
	}
}

func (r *rssNewsRepository) FetchSentiment(ctx context.Context, companies []string) (map[string]dto.SentimentSignal, error) {
	result := make(map[string]dto.SentimentSignal, len(companies))
	var errs []error

	for _, company := range companies {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if r.inmemoryCache != nil {
			if v, ok := r.inmemoryCache.Get("rss:" + company); ok {
				result[company] = v.(dto.SentimentSignal)
				continue
			}
		}

		signal, err := r.fetchCompany(ctx, company)
		if err != nil {
			r.log.WarnContext(ctx, "Failed to read news feed", logger.StringField("company", company), logger.ErrorField(err))
			errs = append(errs, err)
			continue
		}
		result[company] = signal
		if r.inmemoryCache != nil && !signal.Failed() {
			r.inmemoryCache.Set("rss:"+company, signal, cache.DefaultExpiration)
		}
	}

	if len(result) == 0 && len(errs) > 0 {
		return result, fmt.Errorf("%w: news: %w", ErrProviderUnavailable, errors.Join(errs...))
	}
	return result, nil
}

func (r *rssNewsRepository) fetchCompany(ctx context.Context, company string) (dto.SentimentSignal, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return dto.SentimentSignal{}, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	query := url.QueryEscape(fmt.Sprintf("%q IPO", company))
	feedURL := fmt.Sprintf("%s/search?q=%s&hl=en-US&gl=US&ceid=US:en", strings.TrimRight(r.cfg.News.RSSBaseURL, "/"), query)

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return dto.SentimentSignal{}, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	items := feed.Items
	if len(items) == 0 {
		return dto.SentimentSignal{Error: "no articles found"}, nil
	}
	if limit := r.cfg.News.MaxArticles; limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		text := item.Title + " " + plainText(item.Description)
		if r.cfg.News.FetchArticleBody && item.Link != "" {
			body, err := r.articleText(ctx, item.Link)
			if err != nil {
				r.log.DebugContext(ctx, "Failed to fetch article body", logger.StringField("url", item.Link), logger.ErrorField(err))
			} else {
				text += " " + body
			}
		}
		texts = append(texts, text)
	}

	return ScoreSentiment(texts), nil
}

func (r *rssNewsRepository) articleText(ctx context.Context, link string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create article request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}
	return plainText(doc.Content()), nil
}

// plainText strips markup from an HTML fragment.
func plainText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// ScoreSentiment classifies each article by keyword counts and scores the set as
// (positive - negative) / total, clamped to [-1, 1].
func ScoreSentiment(articles []string) dto.SentimentSignal {
	var positive, negative, neutral int
	for _, article := range articles {
		text := strings.ToLower(article)
		pos := countKeywords(text, positiveKeywords)
		neg := countKeywords(text, negativeKeywords)
		switch {
		case pos > neg:
			positive++
		case neg > pos:
			negative++
		default:
			neutral++
		}
	}

	total := len(articles)
	score := 0.0
	if total > 0 {
		score = float64(positive-negative) / float64(total)
	}
	score = max(-1, min(1, score))

	label := "neutral"
	switch {
	case score > sentimentLabelThreshold:
		label = "positive"
	case score < -sentimentLabelThreshold:
		label = "negative"
	}

	return dto.SentimentSignal{
		SentimentScore: &score,
		SentimentLabel: label,
		TotalArticles:  &total,
		PositiveCount:  &positive,
		NegativeCount:  &negative,
		NeutralCount:   &neutral,
	}
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}
