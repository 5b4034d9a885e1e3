package config

import (
	"fmt"
	"time"

	"ipo-hype-tracker/pkg/config"
)

// Pipeline holds the enrichment and ranking bounds of a digest run.
type Pipeline struct {
	// MaxCandidates bounds how many raw candidates are enriched per run, in input order. 0 disables the bound.
	MaxCandidates    int           `mapstructure:"max_candidates"`
	TopN             int           `mapstructure:"top_n"`
	EnrichBatchSize  int           `mapstructure:"enrich_batch_size"`
	ProviderTimeout  time.Duration `mapstructure:"provider_timeout"`
	SynthesisTimeout time.Duration `mapstructure:"synthesis_timeout"`
	RunTimeout       time.Duration `mapstructure:"run_timeout"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
	LatestTTL        time.Duration `mapstructure:"latest_ttl"`
}

// Endpoint describes one HTTP JSON provider.
type Endpoint struct {
	BaseURL             string        `mapstructure:"base_url"`
	Path                string        `mapstructure:"path"`
	MaxRequestPerSecond float64       `mapstructure:"max_request_per_second"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// URL joins base URL and path.
func (e Endpoint) URL() string {
	return e.BaseURL + e.Path
}

// Providers holds the signal and synthesis provider endpoints.
type Providers struct {
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	Trend        Endpoint      `mapstructure:"trend"`
	News         Endpoint      `mapstructure:"news"`
	Quote        Endpoint      `mapstructure:"quote"`
	Fundamentals Endpoint      `mapstructure:"fundamentals"`
	Synthesis    Endpoint      `mapstructure:"synthesis"`
}

// Calendar holds the IPO calendar and auxiliary price dataset endpoints.
type Calendar struct {
	BaseURL          string        `mapstructure:"base_url"`
	UpcomingPath     string        `mapstructure:"upcoming_path"`
	RecentPricesPath string        `mapstructure:"recent_prices_path"`
	TickerPricesPath string        `mapstructure:"ticker_prices_path"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// News selects the news sentiment source.
type News struct {
	Source           string `mapstructure:"source"`
	RSSBaseURL       string `mapstructure:"rss_base_url"`
	MaxArticles      int    `mapstructure:"max_articles"`
	FetchArticleBody bool   `mapstructure:"fetch_article_body"`
}

// AI selects the synthesis provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Mailer holds the bulk email provider configuration.
type Mailer struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	From       string        `mapstructure:"from"`
	Subject    string        `mapstructure:"subject"`
	BatchSize  int           `mapstructure:"batch_size"`
	BatchDelay time.Duration `mapstructure:"batch_delay"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Schedule holds the cron trigger configuration.
type Schedule struct {
	Enabled  bool   `mapstructure:"enabled"`
	Cron     string `mapstructure:"cron"`
	Timezone string `mapstructure:"timezone"`
}

// Telegram holds configuration for the operator notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Comparables holds the historical IPO lookup settings.
type Comparables struct {
	Enabled       bool `mapstructure:"enabled"`
	Limit         int  `mapstructure:"limit"`
	LookbackYears int  `mapstructure:"lookback_years"`
}

// Config holds the full configuration for the digest service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	Database    config.Database `mapstructure:"database"`
	Redis       config.Redis    `mapstructure:"redis"`
	API         config.API      `mapstructure:"api"`
	Pipeline    Pipeline        `mapstructure:"pipeline"`
	Providers   Providers       `mapstructure:"providers"`
	Calendar    Calendar        `mapstructure:"calendar"`
	News        News            `mapstructure:"news"`
	AI          AI              `mapstructure:"ai"`
	Gemini      Gemini          `mapstructure:"gemini"`
	Mailer      Mailer          `mapstructure:"mailer"`
	Schedule    Schedule        `mapstructure:"schedule"`
	Telegram    Telegram        `mapstructure:"telegram"`
	Comparables Comparables     `mapstructure:"comparables"`
}

// Defaults registers every key viper must know about for env-only configuration.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.env":                                       "development",
		"app.name":                                      "ipo-hype-digest",
		"logger.encoding":                               "json",
		"logger.level":                                  "info",
		"database.host":                                 "localhost",
		"database.name":                                 "ipo_digest",
		"database.password":                             "",
		"database.port":                                 5432,
		"database.ssl_mode":                             "disable",
		"database.user":                                 "",
		"redis.db":                                      0,
		"redis.host":                                    "localhost",
		"redis.password":                                "",
		"redis.port":                                    6379,
		"api.port":                                      8080,
		"pipeline.enrich_batch_size":                    5,
		"pipeline.latest_ttl":                           "168h",
		"pipeline.lock_ttl":                             "30m",
		"pipeline.max_candidates":                       10,
		"pipeline.provider_timeout":                     "15s",
		"pipeline.run_timeout":                          "20m",
		"pipeline.synthesis_timeout":                    "60s",
		"pipeline.top_n":                                5,
		"providers.cache_ttl":                           "30m",
		"providers.fundamentals.base_url":               "",
		"providers.fundamentals.max_request_per_second": 10,
		"providers.fundamentals.path":                   "/api/yahoo/company-info",
		"providers.news.base_url":                       "",
		"providers.news.max_request_per_second":         5,
		"providers.news.path":                           "/api/news/sentiment-analysis",
		"providers.quote.base_url":                      "",
		"providers.quote.max_request_per_second":        10,
		"providers.quote.path":                          "/api/yahoo/stock-data",
		"providers.synthesis.base_url":                  "",
		"providers.synthesis.max_request_per_second":    2,
		"providers.synthesis.path":                      "/api/openai/hype-score",
		"providers.trend.base_url":                      "",
		"providers.trend.max_request_per_second":        10,
		"providers.trend.path":                          "/api/trends/search",
		"calendar.base_url":                             "",
		"calendar.recent_prices_path":                   "/api/pythonanywhere/recent-ipo-tickers-and-prices",
		"calendar.ticker_prices_path":                   "/api/pythonanywhere/tickers-and-prices",
		"calendar.upcoming_path":                        "/api/pythonanywhere/upcoming-ipos",
		"news.max_articles":                             20,
		"news.rss_base_url":                             "https://news.google.com/rss",
		"news.source":                                   "http",
		"ai.provider":                                   "http",
		"gemini.api_key":                                "",
		"gemini.max_request_per_minute":                 15,
		"gemini.max_token_per_minute":                   1000000,
		"gemini.model":                                  "gemini-2.0-flash",
		"mailer.api_key":                                "",
		"mailer.base_url":                               "",
		"mailer.batch_delay":                            "1s",
		"mailer.batch_size":                             50,
		"mailer.from":                                   "",
		"mailer.subject":                                "Top IPOs by hype score",
		"mailer.timeout":                                "30s",
		"schedule.cron":                                 "0 8 * * MON",
		"schedule.enabled":                              false,
		"schedule.timezone":                             "America/New_York",
		"telegram.bot_token":                            "",
		"telegram.chat_id":                              0,
		"comparables.enabled":                           false,
		"comparables.limit":                             10,
		"comparables.lookback_years":                    5,
	}
}

// Validate fills zero values that would make the pipeline misbehave and rejects unusable settings.
func (c *Config) Validate() error {
	if c.Pipeline.MaxCandidates < 0 {
		return fmt.Errorf("pipeline.max_candidates must not be negative, got %d", c.Pipeline.MaxCandidates)
	}
	if c.Pipeline.TopN <= 0 {
		c.Pipeline.TopN = 5
	}
	if c.Pipeline.EnrichBatchSize <= 0 {
		c.Pipeline.EnrichBatchSize = 5
	}
	if c.Pipeline.ProviderTimeout <= 0 {
		c.Pipeline.ProviderTimeout = 15 * time.Second
	}
	if c.Pipeline.SynthesisTimeout <= 0 {
		c.Pipeline.SynthesisTimeout = 60 * time.Second
	}
	if c.Pipeline.RunTimeout <= 0 {
		c.Pipeline.RunTimeout = 20 * time.Minute
	}
	if c.Pipeline.LockTTL <= 0 {
		c.Pipeline.LockTTL = 30 * time.Minute
	}
	if c.Mailer.BatchSize <= 0 {
		c.Mailer.BatchSize = 50
	}
	if c.Mailer.BatchDelay < 0 {
		c.Mailer.BatchDelay = 0
	}
	switch c.AI.Provider {
	case "", "http":
		c.AI.Provider = "http"
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.api_key is required when ai.provider is gemini")
		}
	default:
		return fmt.Errorf("unsupported ai.provider %q", c.AI.Provider)
	}
	switch c.News.Source {
	case "", "http":
		c.News.Source = "http"
	case "rss":
	default:
		return fmt.Errorf("unsupported news.source %q", c.News.Source)
	}
	return nil
}

// Load loads the digest configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
