package dto

// ComparableQuery describes the candidate when searching historical IPOs.
type ComparableQuery struct {
	ImpliedMarketCap float64
	RevenueGrowthYoY float64
	Sector           string
	Industry         string
}

// Comparable is a historical IPO similar to the candidate.
type Comparable struct {
	Ticker           string   `json:"ticker"`
	Name             string   `json:"name"`
	SimilarityScore  float64  `json:"similarity_score"`
	MatchingFactors  []string `json:"matching_factors"`
	RevenueGrowthYoY *float64 `json:"revenue_growth_yoy,omitempty"`
	GrossMargin      *float64 `json:"gross_margin,omitempty"`
	FirstDayReturn   *float64 `json:"first_day_return,omitempty"`
	FirstWeekReturn  *float64 `json:"first_week_return,omitempty"`
	FirstMonthReturn *float64 `json:"first_month_return,omitempty"`
}
