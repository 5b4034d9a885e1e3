package repository

import (
	"context"
	"fmt"
	"time"

	"ipo-hype-tracker/internal/digest/config"
	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"
	"ipo-hype-tracker/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiSynthesisRepository is a SynthesisRepository that asks the Google Gemini API for the hype score.
type geminiSynthesisRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiSynthesisRepository creates a new instance of geminiSynthesisRepository.
func NewGeminiSynthesisRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) SynthesisRepository {
	limit := rate.Inf
	if cfg.Gemini.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute))
	}

	return &geminiSynthesisRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(limit, 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		genAiClient:    genAiClient,
	}
}

func (r *geminiSynthesisRepository) Synthesize(ctx context.Context, req dto.SynthesisRequest) (*dto.SynthesisResult, error) {
	prompt := BuildHypeScorePrompt(req)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count tokens: %w", ErrSynthesisUnavailable, err)
	}

	r.logger.DebugContext(ctx, "Gemini token count",
		logger.StringField("company", req.CompanyName),
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("%w: failed to wait for token limit: %w", ErrSynthesisUnavailable, err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to wait for request limit: %w", ErrSynthesisUnavailable, err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to generate hype score with Gemini", logger.StringField("company", req.CompanyName), logger.ErrorField(err))
		return nil, fmt.Errorf("%w: gemini: %w", ErrSynthesisUnavailable, err)
	}

	return ParseSynthesisText(resp.Text())
}
