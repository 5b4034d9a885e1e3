package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ipo-hype-tracker/internal/digest/config"
	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/logger"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultProviderTimeout = 10 * time.Second

// providerClient talks to one HTTP JSON provider answering with a {success, data, error} envelope.
type providerClient struct {
	name           string
	url            string
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	cache          *cache.Cache
}

func newProviderClient(name string, endpoint config.Endpoint, cacheTTL time.Duration, log *logger.Logger) *providerClient {
	timeout := endpoint.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	limit := rate.Inf
	if endpoint.MaxRequestPerSecond > 0 {
		limit = rate.Limit(endpoint.MaxRequestPerSecond)
	}

	var inmemoryCache *cache.Cache
	if cacheTTL > 0 {
		inmemoryCache = cache.New(cacheTTL, 2*cacheTTL)
	}

	return &providerClient{
		name:           name,
		url:            endpoint.URL(),
		log:            log,
		httpClient:     &http.Client{Timeout: timeout},
		requestLimiter: rate.NewLimiter(limit, 1),
		cache:          inmemoryCache,
	}
}

// failer is implemented by provider payloads that can report a per-entry error.
type failer interface {
	Failed() bool
}

// fetchBatch requests keys not already cached and merges them with cached entries.
// On error the cached part is still returned.
func fetchBatch[T any](ctx context.Context, c *providerClient, keys []string) (map[string]T, error) {
	result := make(map[string]T, len(keys))
	missing := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))

	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		if c.cache != nil {
			if v, ok := c.cache.Get(c.cacheKey(k)); ok {
				if cached, ok := v.(T); ok {
					result[k] = cached
					continue
				}
			}
		}
		missing = append(missing, k)
	}

	if len(missing) == 0 {
		c.log.DebugContext(ctx, "Provider answered from cache", logger.StringField("provider", c.name), logger.IntField("keys", len(result)))
		return result, nil
	}

	var fetched map[string]T
	if err := c.postEnvelope(ctx, dto.CompaniesRequest{Companies: missing}, &fetched); err != nil {
		return result, err
	}

	for k, v := range fetched {
		result[k] = v
		if c.cache == nil {
			continue
		}
		if f, ok := any(v).(failer); ok && f.Failed() {
			continue
		}
		c.cache.Set(c.cacheKey(k), v, cache.DefaultExpiration)
	}
	return result, nil
}

func (c *providerClient) cacheKey(key string) string {
	return c.name + ":" + key
}

// postEnvelope POSTs payload and decodes the envelope payload into out.
func (c *providerClient) postEnvelope(ctx context.Context, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", c.name, err)
	}
	respBody, err := c.sendRequest(ctx, http.MethodPost, body)
	if err != nil {
		return err
	}
	return c.decodeEnvelope(respBody, out)
}

// getEnvelope GETs the endpoint and decodes the envelope payload into out.
func (c *providerClient) getEnvelope(ctx context.Context, out interface{}) error {
	respBody, err := c.sendRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return err
	}
	return c.decodeEnvelope(respBody, out)
}

func (c *providerClient) decodeEnvelope(body []byte, out interface{}) error {
	var envelope dto.ProviderEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %s: failed to decode envelope: %w", ErrProviderUnavailable, c.name, err)
	}
	if !envelope.Success {
		return fmt.Errorf("%w: %s: %s", ErrProviderUnavailable, c.name, envelope.Error)
	}
	payload := envelope.Payload()
	if len(payload) == 0 {
		return fmt.Errorf("%w: %s: empty payload", ErrProviderUnavailable, c.name)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %s: failed to decode payload: %w", ErrProviderUnavailable, c.name, err)
	}
	return nil
}

func (c *providerClient) sendRequest(ctx context.Context, method string, body []byte) ([]byte, error) {
	fields := []zap.Field{
		zap.String("provider", c.name),
		zap.String("url", c.url),
		zap.String("method", method),
	}

	if err := c.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		c.log.WarnContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, c.name, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url, reader)
	if err != nil {
		fields = append(fields, zap.Error(err))
		c.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, c.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ipo-hype-digest/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		c.log.WarnContext(ctx, "Failed to send request to provider", fields...)
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, c.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		c.log.WarnContext(ctx, "Failed to read provider response body", fields...)
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, c.name, err)
	}

	fields = append(fields, zap.Int("status_code", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WarnContext(ctx, "Received non-OK response from provider", fields...)
		return nil, fmt.Errorf("%w: %s: status %d", ErrProviderUnavailable, c.name, resp.StatusCode)
	}

	c.log.DebugContext(ctx, "Provider responded", fields...)
	return respBody, nil
}
