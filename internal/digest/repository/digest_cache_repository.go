package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/common"

	"github.com/redis/go-redis/v9"
)

// DigestCacheRepository holds the cross-process run lock and the latest digest summary.
type DigestCacheRepository interface {
	AcquireRunLock(ctx context.Context, runID string, ttl time.Duration) (bool, error)
	ReleaseRunLock(ctx context.Context, runID string) error
	SaveLatest(ctx context.Context, summary *dto.RunSummary, ttl time.Duration) error
	GetLatest(ctx context.Context) (*dto.RunSummary, error)
}

type digestCacheRepository struct {
	redisClient *redis.Client
}

// NewDigestCacheRepository creates a redis-backed DigestCacheRepository.
func NewDigestCacheRepository(redisClient *redis.Client) DigestCacheRepository {
	return &digestCacheRepository{redisClient: redisClient}
}

// releaseLockScript deletes the lock only when it still belongs to the caller.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *digestCacheRepository) AcquireRunLock(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, common.RedisKeyDigestRunLock, runID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

func (r *digestCacheRepository) ReleaseRunLock(ctx context.Context, runID string) error {
	if err := releaseLockScript.Run(ctx, r.redisClient, []string{common.RedisKeyDigestRunLock}, runID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

func (r *digestCacheRepository) SaveLatest(ctx context.Context, summary *dto.RunSummary, ttl time.Duration) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal latest digest: %w", err)
	}
	if err := r.redisClient.Set(ctx, common.RedisKeyLatestDigest, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save latest digest: %w", err)
	}
	return nil
}

// GetLatest returns nil, nil when no digest has been stored.
func (r *digestCacheRepository) GetLatest(ctx context.Context) (*dto.RunSummary, error) {
	payload, err := r.redisClient.Get(ctx, common.RedisKeyLatestDigest).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read latest digest: %w", err)
	}

	var summary dto.RunSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal latest digest: %w", err)
	}
	return &summary, nil
}
