package repository

import (
	"fmt"
	"strings"

	"ipo-hype-tracker/internal/digest/dto"
)

// BuildHypeScorePrompt renders the synthesis request as a single prompt asking for a JSON answer.
func BuildHypeScorePrompt(req dto.SynthesisRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are an expert financial analyst specializing in IPO market analysis.\n"+
		"Calculate a hype score (0-100) for %s (%s) that represents your cumulative confidence that this IPO "+
		"will move in a positive direction, then explain the score. Use ALL the data below.\n\n", req.CompanyName, req.Ticker))

	sb.WriteString("SEARCH TRENDS:\n")
	sb.WriteString(fmt.Sprintf("- Trend score: %.1f/100 (50 means no signal)\n\n", req.SearchData.TrendScore))

	sb.WriteString("NEWS SENTIMENT:\n")
	sb.WriteString(fmt.Sprintf("- Sentiment score: %.2f (-1 to 1)\n", req.NewsData.SentimentScore))
	sb.WriteString(fmt.Sprintf("- Articles: %d total, %d positive, %d negative, %d neutral\n\n",
		req.NewsData.TotalArticles, req.NewsData.PositiveCount, req.NewsData.NegativeCount, req.NewsData.NeutralCount))

	s := req.StockData
	sb.WriteString("MARKET AND FINANCIAL DATA (0 means unavailable):\n")
	sb.WriteString(fmt.Sprintf("- Change: %.2f%%, Volume: %.0f, Market cap: %.0f, P/E: %.2f\n", s.ChangePercent, s.Volume, s.MarketCap, s.PERatio))
	sb.WriteString(fmt.Sprintf("- Revenue: %.0f, Revenue growth YoY: %.2f, Net income: %.0f\n", s.Revenue, s.RevenueGrowthYoY, s.NetIncome))
	sb.WriteString(fmt.Sprintf("- Gross margin: %.2f, Operating margin: %.2f\n", s.GrossMargin, s.OperatingMargin))
	sb.WriteString(fmt.Sprintf("- Free cash flow: %.0f, Cash burn: %.0f, Enterprise value: %.0f, Shares outstanding: %.0f\n\n",
		s.FreeCashFlow, s.CashBurn, s.EnterpriseValue, s.SharesOutstanding))

	ipo := req.IPOData
	sb.WriteString("IPO DETAILS:\n")
	sb.WriteString(fmt.Sprintf("- Proposed price range: $%.2f - $%.2f\n", ipo.PriceLow, ipo.PriceHigh))
	if ipo.ExpectedDate != "" {
		sb.WriteString(fmt.Sprintf("- Expected date: %s\n", ipo.ExpectedDate))
	}
	if ipo.Exchange != "" {
		sb.WriteString(fmt.Sprintf("- Exchange: %s\n", ipo.Exchange))
	}
	sb.WriteString("\n")

	if len(req.Comparables) > 0 {
		sb.WriteString("HISTORICAL COMPARABLE IPOS:\n")
		for _, c := range req.Comparables {
			sb.WriteString(fmt.Sprintf("- %s (%s), similarity %.1f, matched on %s", c.Name, c.Ticker, c.SimilarityScore, strings.Join(c.MatchingFactors, ", ")))
			if c.FirstDayReturn != nil {
				sb.WriteString(fmt.Sprintf(", first day return %.2f%%", *c.FirstDayReturn))
			}
			if c.FirstMonthReturn != nil {
				sb.WriteString(fmt.Sprintf(", first month return %.2f%%", *c.FirstMonthReturn))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`Respond ONLY with a JSON object in this exact format:
{
  "hype_score": <number 0-100>,
  "analysis": "<3-5 sentences referencing the data above>",
  "key_factors": ["<factor>", "<factor>", "<factor>"],
  "recommendation": "<Strong Buy|Buy|Hold|Sell>",
  "risk_level": "<Low|Medium|High>",
  "market_outlook": "<Bullish|Neutral|Bearish>"
}`)

	return sb.String()
}
