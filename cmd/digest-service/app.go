package main

import (
	"context"
	"fmt"

	"ipo-hype-tracker/internal/digest/config"
	"ipo-hype-tracker/internal/digest/render"
	"ipo-hype-tracker/internal/digest/repository"
	"ipo-hype-tracker/internal/digest/service"
	"ipo-hype-tracker/pkg/logger"
	"ipo-hype-tracker/pkg/mailer"
	"ipo-hype-tracker/pkg/postgres"
	"ipo-hype-tracker/pkg/redis"
	"ipo-hype-tracker/pkg/telegram"

	"google.golang.org/genai"
)

// app holds the process-wide dependencies shared by serve and run.
type app struct {
	cfg           *config.Config
	logger        *logger.Logger
	digestService service.DigestService
	closers       []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	_ = a.logger.Sync()
}

func newApp(ctx context.Context, path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a := &app{cfg: cfg, logger: appLogger}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, redisClient.Close)

	var newsRepo repository.NewsRepository
	switch cfg.News.Source {
	case "rss":
		newsRepo = repository.NewRSSNewsRepository(cfg, appLogger)
	default:
		newsRepo = repository.NewNewsRepository(cfg, appLogger)
	}

	var synthesisRepo repository.SynthesisRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		synthesisRepo = repository.NewGeminiSynthesisRepository(cfg, appLogger, genAiClient)
	default:
		synthesisRepo = repository.NewHTTPSynthesisRepository(cfg, appLogger)
	}

	var comparableRepo repository.ComparableRepository
	if cfg.Comparables.Enabled {
		comparableRepo = repository.NewComparableRepository(db.DB, cfg.Comparables.Limit, cfg.Comparables.LookbackYears)
	}

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
	}

	enricher := service.NewEnricher(
		repository.NewTrendRepository(cfg, appLogger),
		newsRepo,
		repository.NewQuoteRepository(cfg, appLogger),
		repository.NewFundamentalsRepository(cfg, appLogger),
		synthesisRepo,
		comparableRepo,
		service.EnricherOptions{
			ProviderTimeout:  cfg.Pipeline.ProviderTimeout,
			SynthesisTimeout: cfg.Pipeline.SynthesisTimeout,
		},
		appLogger,
	)

	sender := mailer.NewClient(mailer.Config{
		BaseURL: cfg.Mailer.BaseURL,
		APIKey:  cfg.Mailer.APIKey,
		From:    cfg.Mailer.From,
		Timeout: cfg.Mailer.Timeout,
	})
	dispatcher := service.NewBatchDispatcher(sender, cfg.Mailer.BatchSize, cfg.Mailer.BatchDelay, appLogger)

	a.digestService = service.NewDigestService(
		repository.NewCalendarRepository(cfg, appLogger),
		repository.NewSubscriberRepository(db.DB),
		repository.NewDigestRunRepository(db.DB),
		repository.NewDigestCacheRepository(redisClient.Client),
		enricher,
		dispatcher,
		render.NewRenderer(cfg.Mailer.Subject),
		telegramNotifier,
		service.DigestOptions{
			MaxCandidates:   cfg.Pipeline.MaxCandidates,
			TopN:            cfg.Pipeline.TopN,
			EnrichBatchSize: cfg.Pipeline.EnrichBatchSize,
			MailBatchSize:   cfg.Mailer.BatchSize,
			LockTTL:         cfg.Pipeline.LockTTL,
			LatestTTL:       cfg.Pipeline.LatestTTL,
		},
		appLogger,
	)

	return a, nil
}
