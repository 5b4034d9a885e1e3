package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/entity"

	"gorm.io/gorm"
)

const (
	comparableCandidatePool = 50
	minSimilarityScore      = 0.3
)

// ComparableRepository finds historical IPOs similar to a candidate.
type ComparableRepository interface {
	FindSimilar(ctx context.Context, query dto.ComparableQuery) ([]dto.Comparable, error)
}

type comparableRepository struct {
	db            *gorm.DB
	limit         int
	lookbackYears int
	now           func() time.Time
}

// NewComparableRepository creates a new GORM-based comparable repository.
func NewComparableRepository(db *gorm.DB, limit, lookbackYears int) ComparableRepository {
	if limit <= 0 {
		limit = 10
	}
	if lookbackYears <= 0 {
		lookbackYears = 5
	}
	return &comparableRepository{db: db, limit: limit, lookbackYears: lookbackYears, now: time.Now}
}

func (r *comparableRepository) FindSimilar(ctx context.Context, query dto.ComparableQuery) ([]dto.Comparable, error) {
	category := MarketCapCategory(query.ImpliedMarketCap)
	since := r.now().AddDate(-r.lookbackYears, 0, 0)

	tx := r.db.WithContext(ctx).Where("ipo_date >= ?", since)
	switch {
	case category != "" && query.Sector != "":
		tx = tx.Where("(market_cap_category = ? OR market_cap_category IS NULL OR sector = ? OR sector IS NULL)", category, query.Sector)
	case category != "":
		tx = tx.Where("(market_cap_category = ? OR market_cap_category IS NULL)", category)
	case query.Sector != "":
		tx = tx.Where("(sector = ? OR sector IS NULL)", query.Sector)
	}

	var rows []entity.HistoricalIPO
	err := tx.
		Order("ipo_date desc").
		Limit(comparableCandidatePool).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query historical ipos: %w", err)
	}

	comparables := make([]dto.Comparable, 0, len(rows))
	for _, row := range rows {
		c, ok := ScoreComparable(query, row)
		if !ok {
			continue
		}
		comparables = append(comparables, c)
	}

	sort.SliceStable(comparables, func(i, j int) bool {
		return comparables[i].SimilarityScore > comparables[j].SimilarityScore
	})
	if len(comparables) > r.limit {
		comparables = comparables[:r.limit]
	}
	return comparables, nil
}

// ScoreComparable rates a historical IPO against the query. It reports false below the similarity threshold.
func ScoreComparable(query dto.ComparableQuery, row entity.HistoricalIPO) (dto.Comparable, bool) {
	var score float64
	var factors []string

	if category := MarketCapCategory(query.ImpliedMarketCap); category != "" && row.MarketCapCategory != nil && *row.MarketCapCategory == category {
		score += 0.3
		factors = append(factors, fmt.Sprintf("Similar market cap (%s)", *row.MarketCapCategory))
	}
	if query.Sector != "" && row.Sector != nil && strings.EqualFold(*row.Sector, query.Sector) {
		score += 0.2
		factors = append(factors, fmt.Sprintf("Same sector (%s)", *row.Sector))
	}
	if query.Industry != "" && row.Industry != nil && strings.EqualFold(*row.Industry, query.Industry) {
		score += 0.2
		factors = append(factors, fmt.Sprintf("Same industry (%s)", *row.Industry))
	}
	if query.RevenueGrowthYoY != 0 && row.RevenueGrowthYoY != nil {
		diff := math.Abs(*row.RevenueGrowthYoY-query.RevenueGrowthYoY) / math.Max(math.Abs(query.RevenueGrowthYoY), 1)
		if diff < 0.2 {
			score += 0.3
			factors = append(factors, "Similar revenue growth")
		}
	}

	if score < minSimilarityScore {
		return dto.Comparable{}, false
	}

	return dto.Comparable{
		Ticker:           row.Ticker,
		Name:             row.Name,
		SimilarityScore:  math.Round(score*100) / 100,
		MatchingFactors:  factors,
		RevenueGrowthYoY: row.RevenueGrowthYoY,
		GrossMargin:      row.GrossMargin,
		FirstDayReturn:   row.FirstDayReturn,
		FirstWeekReturn:  row.FirstWeekReturn,
		FirstMonthReturn: row.FirstMonthReturn,
	}, true
}

// MarketCapCategory buckets a market cap in dollars. An unknown (non-positive) cap has no category.
func MarketCapCategory(marketCap float64) string {
	if marketCap <= 0 {
		return ""
	}
	billions := marketCap / 1e9
	switch {
	case billions < 0.3:
		return "micro"
	case billions < 2:
		return "small"
	case billions < 10:
		return "mid"
	case billions < 200:
		return "large"
	default:
		return "mega"
	}
}
