package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"
	"ipo-hype-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSynthesisRepository_Synthesize(t *testing.T) {
	tests := []struct {
		name           string
		payload        string
		wantScore      float64
		wantRec        string
		wantRisk       string
		wantOutlook    string
		wantAnalysis   string
		wantKeyFactors []string
	}{
		{
			name:         "hype_score envelope clamps and derives defaults",
			payload:      `{"success":true,"hype_score":{"hype_score":104.37,"analysis":" strong demand "}}`,
			wantScore:    100,
			wantRec:      "Strong Buy",
			wantRisk:     dto.DefaultRiskLevel,
			wantOutlook:  dto.DefaultOutlook,
			wantAnalysis: "strong demand",
		},
		{
			name:           "data envelope with string score",
			payload:        `{"success":true,"data":{"hype_score":"72.46","recommendation":"Buy","risk_level":"High","market_outlook":"Bullish","key_factors":["growth"]}}`,
			wantScore:      72.5,
			wantRec:        "Buy",
			wantRisk:       "High",
			wantOutlook:    "Bullish",
			wantKeyFactors: []string{"growth"},
		},
		{
			name:        "negative score floors at zero",
			payload:     `{"success":true,"hype_score":{"hype_score":-3}}`,
			wantScore:   0,
			wantRec:     "Sell",
			wantRisk:    dto.DefaultRiskLevel,
			wantOutlook: dto.DefaultOutlook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dto.SynthesisRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/openai/hype-score", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			repo := NewHTTPSynthesisRepository(newTestConfig(server.URL, 0), logger.NewNop())
			res, err := repo.Synthesize(context.Background(), dto.SynthesisRequest{CompanyName: "Acme Corp", Ticker: "ACME"})
			require.NoError(t, err)

			assert.Equal(t, "Acme Corp", got.CompanyName)
			require.NotNil(t, res.HypeScore)
			assert.Equal(t, tt.wantScore, *res.HypeScore)
			assert.Equal(t, tt.wantRec, res.Recommendation)
			assert.Equal(t, tt.wantRisk, res.RiskLevel)
			assert.Equal(t, tt.wantOutlook, res.MarketOutlook)
			assert.Equal(t, tt.wantAnalysis, res.Analysis)
			assert.Equal(t, tt.wantKeyFactors, res.KeyFactors)
		})
	}
}

func TestHTTPSynthesisRepository_Unavailable(t *testing.T) {
	payloads := map[string]string{
		"no score":      `{"success":true,"hype_score":{"analysis":"n/a"}}`,
		"success false": `{"success":false,"error":"model overloaded"}`,
		"null score":    `{"success":true,"hype_score":{"hype_score":null}}`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			}))
			defer server.Close()

			repo := NewHTTPSynthesisRepository(newTestConfig(server.URL, 0), logger.NewNop())
			_, err := repo.Synthesize(context.Background(), dto.SynthesisRequest{CompanyName: "Acme Corp"})
			assert.ErrorIs(t, err, ErrSynthesisUnavailable)
		})
	}
}

func TestParseSynthesisText(t *testing.T) {
	res, err := ParseSynthesisText("Sure, here is the analysis:\n```json\n{\"hype_score\": 55.56, \"analysis\": \"ok {fine}\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, 55.6, *res.HypeScore)
	assert.Equal(t, "ok {fine}", res.Analysis)
	assert.Equal(t, "Hold", res.Recommendation)

	_, err = ParseSynthesisText("I cannot help with that.")
	assert.ErrorIs(t, err, ErrSynthesisUnavailable)

	_, err = ParseSynthesisText("{not json}")
	assert.ErrorIs(t, err, ErrSynthesisUnavailable)
}

func TestRecommendationFromScore(t *testing.T) {
	cases := map[float64]string{
		100:  "Strong Buy",
		85:   "Strong Buy",
		84.9: "Buy",
		70:   "Buy",
		50:   "Hold",
		49.9: "Sell",
		0:    "Sell",
	}
	for score, want := range cases {
		assert.Equal(t, want, RecommendationFromScore(score), "score %v", score)
	}
}

func TestBuildHypeScorePrompt(t *testing.T) {
	req := dto.SynthesisRequest{
		CompanyName: "Acme Corp",
		Ticker:      "ACME",
		SearchData:  dto.SearchData{TrendScore: 64},
		IPOData:     dto.IPOData{PriceLow: 10, PriceHigh: 12, Exchange: "NASDAQ"},
		Comparables: []dto.Comparable{{
			Ticker:          "RDDT",
			Name:            "Reddit",
			SimilarityScore: 0.7,
			MatchingFactors: []string{"Same sector (Technology)"},
			FirstDayReturn:  utils.ToPointer(48.0),
		}},
	}

	prompt := BuildHypeScorePrompt(req)
	assert.Contains(t, prompt, "Acme Corp (ACME)")
	assert.Contains(t, prompt, "Trend score: 64.0/100")
	assert.Contains(t, prompt, "$10.00 - $12.00")
	assert.Contains(t, prompt, "Exchange: NASDAQ")
	assert.Contains(t, prompt, "Reddit (RDDT)")
	assert.Contains(t, prompt, "first day return 48.00%")
	assert.True(t, strings.HasSuffix(prompt, "}"))
}
