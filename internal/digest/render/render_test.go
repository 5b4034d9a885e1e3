package render

import (
	"testing"
	"time"

	"ipo-hype-tracker/internal/digest/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	ranked := []dto.RankedCandidate{
		{
			Rank:      1,
			Candidate: dto.Candidate{Name: "Acme <Corp>", Ticker: "ACME", Exchange: "NASDAQ", ExpectedDate: "2026-10-20", DealSize: 250e6, PriceRange: dto.PriceRange{Low: 10, High: 12}},
			Signals:   dto.SignalBundle{HypeScore: 87.5, Recommendation: "Strong Buy", RiskLevel: "Medium", MarketOutlook: "Bullish", AIAnalysis: "Heavy retail interest.", KeyFactors: []string{"growth", "brand"}},
		},
		{
			Rank:      2,
			Candidate: dto.Candidate{Name: "Beta Inc", Ticker: "BETA"},
			Signals:   dto.SignalBundle{HypeScore: 61, Recommendation: "Hold", RiskLevel: "High", MarketOutlook: "Neutral"},
		},
	}

	msg, err := NewRenderer("").Render(ranked, time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "Top IPOs by hype score: Oct 14, 2026", msg.Subject)
	assert.Contains(t, msg.HTML, "1st Acme &lt;Corp&gt; (ACME)")
	assert.Contains(t, msg.HTML, "hype 87.5")
	assert.Contains(t, msg.HTML, "$10.00 - $12.00")
	assert.Contains(t, msg.HTML, "Deal size $250M")
	assert.Contains(t, msg.HTML, "Key factors: growth, brand")
	assert.Contains(t, msg.HTML, "2nd Beta Inc (BETA)")
	assert.Contains(t, msg.HTML, "Price range: TBD")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$4.25B", Money(4.25e9))
	assert.Equal(t, "$312.5M", Money(312.5e6))
	assert.Equal(t, "$12,500.5", Money(12500.5))
}
