package dto

// SynthesisRequest is the payload sent to the hype-score synthesis provider.
type SynthesisRequest struct {
	CompanyName string       `json:"company_name"`
	Ticker      string       `json:"ticker"`
	SearchData  SearchData   `json:"search_data"`
	NewsData    NewsData     `json:"news_data"`
	StockData   StockData    `json:"stock_data"`
	IPOData     IPOData      `json:"ipo_data"`
	Comparables []Comparable `json:"historical_comparables,omitempty"`
}

type SearchData struct {
	TrendScore float64 `json:"trend_score"`
}

type NewsData struct {
	SentimentScore float64 `json:"sentiment_score"`
	TotalArticles  int     `json:"total_articles"`
	PositiveCount  int     `json:"positive_count"`
	NegativeCount  int     `json:"negative_count"`
	NeutralCount   int     `json:"neutral_count"`
}

type StockData struct {
	ChangePercent     float64 `json:"change_percent"`
	Volume            float64 `json:"volume"`
	MarketCap         float64 `json:"market_cap"`
	PERatio           float64 `json:"pe_ratio"`
	Revenue           float64 `json:"revenue"`
	RevenueGrowthYoY  float64 `json:"revenue_growth_yoy"`
	NetIncome         float64 `json:"net_income"`
	GrossMargin       float64 `json:"gross_margin"`
	OperatingMargin   float64 `json:"operating_margin"`
	FreeCashFlow      float64 `json:"free_cash_flow"`
	CashBurn          float64 `json:"cash_burn"`
	EnterpriseValue   float64 `json:"enterprise_value"`
	SharesOutstanding float64 `json:"shares_outstanding"`
}

type IPOData struct {
	PriceLow     float64 `json:"price_low"`
	PriceHigh    float64 `json:"price_high"`
	ExpectedDate string  `json:"expected_date,omitempty"`
	Exchange     string  `json:"exchange,omitempty"`
	DealSize     float64 `json:"deal_size,omitempty"`
}

// SynthesisResult is the provider's answer. HypeScore is nil when no score was produced.
type SynthesisResult struct {
	HypeScore      *float64 `json:"hype_score"`
	Analysis       string   `json:"analysis"`
	KeyFactors     []string `json:"key_factors"`
	Recommendation string   `json:"recommendation"`
	RiskLevel      string   `json:"risk_level"`
	MarketOutlook  string   `json:"market_outlook"`
}

// NewSynthesisRequest builds the synthesis payload from a candidate and its merged signals.
func NewSynthesisRequest(c Candidate, b SignalBundle, comparables []Comparable) SynthesisRequest {
	return SynthesisRequest{
		CompanyName: c.Name,
		Ticker:      c.Ticker,
		SearchData:  SearchData{TrendScore: b.TrendScore},
		NewsData: NewsData{
			SentimentScore: b.SentimentScore,
			TotalArticles:  b.TotalArticles,
			PositiveCount:  b.PositiveCount,
			NegativeCount:  b.NegativeCount,
			NeutralCount:   b.NeutralCount,
		},
		StockData: StockData{
			ChangePercent:     b.StockChangePercent,
			Volume:            b.Volume,
			MarketCap:         b.MarketCap,
			PERatio:           b.PERatio,
			Revenue:           b.Revenue,
			RevenueGrowthYoY:  b.RevenueGrowthYoY,
			NetIncome:         b.NetIncome,
			GrossMargin:       b.GrossMargin,
			OperatingMargin:   b.OperatingMargin,
			FreeCashFlow:      b.FreeCashFlow,
			CashBurn:          b.CashBurn,
			EnterpriseValue:   b.EnterpriseValue,
			SharesOutstanding: b.SharesOutstanding,
		},
		IPOData: IPOData{
			PriceLow:     c.PriceRange.Low,
			PriceHigh:    c.PriceRange.High,
			ExpectedDate: c.ExpectedDate,
			Exchange:     c.Exchange,
			DealSize:     c.DealSize,
		},
		Comparables: comparables,
	}
}
