package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"ipo-hype-tracker/internal/digest/candidate"
	"ipo-hype-tracker/internal/digest/config"
	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"
)

// SynthesisRepository turns merged signals into a hype score and commentary.
type SynthesisRepository interface {
	Synthesize(ctx context.Context, req dto.SynthesisRequest) (*dto.SynthesisResult, error)
}

// rawSynthesis tolerates hype scores sent as numbers or strings.
type rawSynthesis struct {
	HypeScore      interface{} `json:"hype_score"`
	Analysis       string      `json:"analysis"`
	KeyFactors     []string    `json:"key_factors"`
	Recommendation string      `json:"recommendation"`
	RiskLevel      string      `json:"risk_level"`
	MarketOutlook  string      `json:"market_outlook"`
}

type httpSynthesisRepository struct {
	client *providerClient
}

// NewHTTPSynthesisRepository creates a SynthesisRepository backed by the hype-score HTTP endpoint.
func NewHTTPSynthesisRepository(cfg *config.Config, log *logger.Logger) SynthesisRepository {
	return &httpSynthesisRepository{client: newProviderClient("synthesis", cfg.Providers.Synthesis, 0, log)}
}

func (r *httpSynthesisRepository) Synthesize(ctx context.Context, req dto.SynthesisRequest) (*dto.SynthesisResult, error) {
	var raw rawSynthesis
	if err := r.client.postEnvelope(ctx, req, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesisUnavailable, err)
	}
	return normalizeSynthesis(raw)
}

// ParseSynthesisText extracts the JSON object between the first '{' and the last '}' of an LLM answer.
func ParseSynthesisText(text string) (*dto.SynthesisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in answer", ErrSynthesisUnavailable)
	}

	var raw rawSynthesis
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal answer: %w", ErrSynthesisUnavailable, err)
	}
	return normalizeSynthesis(raw)
}

func normalizeSynthesis(raw rawSynthesis) (*dto.SynthesisResult, error) {
	score, ok := toFloat(raw.HypeScore)
	if !ok {
		return nil, fmt.Errorf("%w: answer has no hype score", ErrSynthesisUnavailable)
	}
	score = math.Round(math.Max(0, math.Min(100, score))*10) / 10

	result := &dto.SynthesisResult{
		HypeScore:      &score,
		Analysis:       strings.TrimSpace(raw.Analysis),
		KeyFactors:     raw.KeyFactors,
		Recommendation: strings.TrimSpace(raw.Recommendation),
		RiskLevel:      strings.TrimSpace(raw.RiskLevel),
		MarketOutlook:  strings.TrimSpace(raw.MarketOutlook),
	}
	if result.Recommendation == "" {
		result.Recommendation = RecommendationFromScore(score)
	}
	if result.RiskLevel == "" {
		result.RiskLevel = dto.DefaultRiskLevel
	}
	if result.MarketOutlook == "" {
		result.MarketOutlook = dto.DefaultOutlook
	}
	return result, nil
}

// RecommendationFromScore maps a hype score onto the digest's recommendation scale.
func RecommendationFromScore(score float64) string {
	switch {
	case score >= 85:
		return "Strong Buy"
	case score >= 70:
		return "Buy"
	case score >= 50:
		return "Hold"
	default:
		return "Sell"
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case string:
		return candidate.ParseNumber(t)
	default:
		return 0, false
	}
}
