package dto

const (
	DefaultTrendScore = 50
	DefaultRiskLevel  = "Medium"
	DefaultOutlook    = "Neutral"

	ProviderTrend        = "trend"
	ProviderNews         = "news"
	ProviderQuote        = "quote"
	ProviderFundamentals = "fundamentals"
	ProviderComparables  = "comparables"
)

// TrendSignal is the trend-index provider payload for one company.
type TrendSignal struct {
	TrendScore      *float64 `json:"trend_score"`
	AverageInterest *float64 `json:"average_interest,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// SentimentSignal is the news-sentiment provider payload for one company.
type SentimentSignal struct {
	SentimentScore *float64 `json:"sentiment_score"`
	SentimentLabel string   `json:"sentiment_label,omitempty"`
	TotalArticles  *int     `json:"total_articles"`
	PositiveCount  *int     `json:"positive_count"`
	NegativeCount  *int     `json:"negative_count"`
	NeutralCount   *int     `json:"neutral_count"`
	Error          string   `json:"error,omitempty"`
}

// QuoteSignal is the market-quote provider payload for one ticker.
type QuoteSignal struct {
	CurrentPrice  *float64 `json:"current_price,omitempty"`
	ChangePercent *float64 `json:"change_percent"`
	Volume        *float64 `json:"volume"`
	MarketCap     *float64 `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	Error         string   `json:"error,omitempty"`
}

// FundamentalsSignal is the fundamentals provider payload for one ticker.
type FundamentalsSignal struct {
	Sector            string   `json:"sector,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	Revenue           *float64 `json:"revenue"`
	RevenueGrowthYoY  *float64 `json:"revenue_growth_yoy"`
	NetIncome         *float64 `json:"net_income"`
	GrossMargin       *float64 `json:"gross_margin"`
	OperatingMargin   *float64 `json:"operating_margin"`
	FreeCashFlow      *float64 `json:"free_cash_flow"`
	CashBurn          *float64 `json:"cash_burn"`
	EnterpriseValue   *float64 `json:"enterprise_value"`
	SharesOutstanding *float64 `json:"shares_outstanding"`
	ImpliedMarketCap  *float64 `json:"implied_market_cap,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// SignalBundle is the fully populated enrichment result for one candidate.
type SignalBundle struct {
	TrendScore         float64 `json:"trend_score"`
	SentimentScore     float64 `json:"sentiment_score"`
	TotalArticles      int     `json:"total_articles"`
	PositiveCount      int     `json:"positive_count"`
	NegativeCount      int     `json:"negative_count"`
	NeutralCount       int     `json:"neutral_count"`
	StockChangePercent float64 `json:"stock_change_percent"`
	Volume             float64 `json:"volume"`
	MarketCap          float64 `json:"market_cap"`
	PERatio            float64 `json:"pe_ratio"`
	Revenue            float64 `json:"revenue"`
	RevenueGrowthYoY   float64 `json:"revenue_growth_yoy"`
	NetIncome          float64 `json:"net_income"`
	GrossMargin        float64 `json:"gross_margin"`
	OperatingMargin    float64 `json:"operating_margin"`
	FreeCashFlow       float64 `json:"free_cash_flow"`
	CashBurn           float64 `json:"cash_burn"`
	EnterpriseValue    float64 `json:"enterprise_value"`
	SharesOutstanding  float64 `json:"shares_outstanding"`

	HypeScore      float64  `json:"hype_score"`
	AIAnalysis     string   `json:"ai_analysis"`
	KeyFactors     []string `json:"key_factors,omitempty"`
	Recommendation string   `json:"recommendation"`
	RiskLevel      string   `json:"risk_level"`
	MarketOutlook  string   `json:"market_outlook"`

	DegradedProviders []string `json:"degraded_providers,omitempty"`
}

// DefaultSignalBundle returns the bundle every candidate starts from before any provider answers.
func DefaultSignalBundle() SignalBundle {
	return SignalBundle{
		TrendScore:    DefaultTrendScore,
		RiskLevel:     DefaultRiskLevel,
		MarketOutlook: DefaultOutlook,
	}
}

// ApplyTrend merges a trend payload. It returns false when the payload carries no usable value.
func (b *SignalBundle) ApplyTrend(s TrendSignal) bool {
	if s.Error != "" || s.TrendScore == nil {
		return false
	}
	b.TrendScore = *s.TrendScore
	return true
}

func (b *SignalBundle) ApplySentiment(s SentimentSignal) bool {
	if s.Error != "" || s.SentimentScore == nil {
		return false
	}
	b.SentimentScore = *s.SentimentScore
	setInt(&b.TotalArticles, s.TotalArticles)
	setInt(&b.PositiveCount, s.PositiveCount)
	setInt(&b.NegativeCount, s.NegativeCount)
	setInt(&b.NeutralCount, s.NeutralCount)
	return true
}

func (b *SignalBundle) ApplyQuote(s QuoteSignal) bool {
	if s.Error != "" {
		return false
	}
	setFloat(&b.StockChangePercent, s.ChangePercent)
	setFloat(&b.Volume, s.Volume)
	setFloat(&b.MarketCap, s.MarketCap)
	setFloat(&b.PERatio, s.PERatio)
	return true
}

func (b *SignalBundle) ApplyFundamentals(s FundamentalsSignal) bool {
	if s.Error != "" {
		return false
	}
	setFloat(&b.Revenue, s.Revenue)
	setFloat(&b.RevenueGrowthYoY, s.RevenueGrowthYoY)
	setFloat(&b.NetIncome, s.NetIncome)
	setFloat(&b.GrossMargin, s.GrossMargin)
	setFloat(&b.OperatingMargin, s.OperatingMargin)
	setFloat(&b.FreeCashFlow, s.FreeCashFlow)
	setFloat(&b.CashBurn, s.CashBurn)
	setFloat(&b.EnterpriseValue, s.EnterpriseValue)
	setFloat(&b.SharesOutstanding, s.SharesOutstanding)
	if s.CashBurn == nil && b.FreeCashFlow < 0 {
		b.CashBurn = -b.FreeCashFlow
	}
	return true
}

// ApplySynthesis copies the synthesized qualitative fields onto the bundle.
func (b *SignalBundle) ApplySynthesis(r SynthesisResult) {
	if r.HypeScore != nil {
		b.HypeScore = *r.HypeScore
	}
	b.AIAnalysis = r.Analysis
	b.KeyFactors = r.KeyFactors
	if r.Recommendation != "" {
		b.Recommendation = r.Recommendation
	}
	if r.RiskLevel != "" {
		b.RiskLevel = r.RiskLevel
	}
	if r.MarketOutlook != "" {
		b.MarketOutlook = r.MarketOutlook
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func (s TrendSignal) Failed() bool        { return s.Error != "" }
func (s SentimentSignal) Failed() bool    { return s.Error != "" }
func (s QuoteSignal) Failed() bool        { return s.Error != "" }
func (s FundamentalsSignal) Failed() bool { return s.Error != "" }
