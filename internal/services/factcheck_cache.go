package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// VerdictCache remembers fact-check results for repeated identical claims.
type VerdictCache interface {
	Get(ctx context.Context, claim string, contentType models.ContentType) (*models.FactCheckResult, bool)
	Set(ctx context.Context, claim string, contentType models.ContentType, result models.FactCheckResult)
}

type RedisVerdictCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisVerdictCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisVerdictCache {
	return &RedisVerdictCache{redis: client, ttl: ttl, logger: logger}
}

func (c *RedisVerdictCache) Get(ctx context.Context, claim string, contentType models.ContentType) (*models.FactCheckResult, bool) {
	data, err := c.redis.Get(ctx, verdictCacheKey(claim, contentType)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("fact-check cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var result models.FactCheckResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisVerdictCache) Set(ctx context.Context, claim string, contentType models.ContentType, result models.FactCheckResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, verdictCacheKey(claim, contentType), data, c.ttl).Err(); err != nil {
		c.logger.Warn("fact-check cache write failed", zap.Error(err))
	}
}

// verdictCacheKey ignores case and whitespace differences between claims.
func verdictCacheKey(claim string, contentType models.ContentType) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(claim)), " ")
	sum := sha256.Sum256([]byte(string(contentType) + "\x00" + normalized))
	return "factcheck:" + hex.EncodeToString(sum[:])
}
