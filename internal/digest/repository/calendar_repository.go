package repository

import (
	"context"

	"ipo-hype-tracker/internal/digest/config"
	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"
)

// CalendarRepository loads upcoming IPOs and the auxiliary price datasets.
type CalendarRepository interface {
	UpcomingIPOs(ctx context.Context) ([]dto.RawCandidate, error)
	RecentIPOPrices(ctx context.Context) ([]dto.RawCandidate, error)
	TickerPrices(ctx context.Context) ([]dto.RawCandidate, error)
}

type calendarRepository struct {
	upcoming     *providerClient
	recentPrices *providerClient
	tickerPrices *providerClient
}

// NewCalendarRepository creates a CalendarRepository over the calendar HTTP service.
func NewCalendarRepository(cfg *config.Config, log *logger.Logger) CalendarRepository {
	endpoint := func(path string) config.Endpoint {
		return config.Endpoint{BaseURL: cfg.Calendar.BaseURL, Path: path, Timeout: cfg.Calendar.Timeout}
	}
	return &calendarRepository{
		upcoming:     newProviderClient("calendar_upcoming", endpoint(cfg.Calendar.UpcomingPath), 0, log),
		recentPrices: newProviderClient("calendar_recent_prices", endpoint(cfg.Calendar.RecentPricesPath), 0, log),
		tickerPrices: newProviderClient("calendar_ticker_prices", endpoint(cfg.Calendar.TickerPricesPath), 0, log),
	}
}

func (r *calendarRepository) UpcomingIPOs(ctx context.Context) ([]dto.RawCandidate, error) {
	return fetchRows(ctx, r.upcoming)
}

func (r *calendarRepository) RecentIPOPrices(ctx context.Context) ([]dto.RawCandidate, error) {
	return fetchRows(ctx, r.recentPrices)
}

func (r *calendarRepository) TickerPrices(ctx context.Context) ([]dto.RawCandidate, error) {
	return fetchRows(ctx, r.tickerPrices)
}

func fetchRows(ctx context.Context, c *providerClient) ([]dto.RawCandidate, error) {
	var rows []dto.RawCandidate
	if err := c.getEnvelope(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
