// Package cache keeps the published student view of course days in Redis
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dayKeyPattern = "learn:day:%d"

// redisStore is the subset of *redis.Client the cache uses
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type contentCache struct {
	store  redisStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewContentCache creates a Redis backed day content cache.
// Cache failures are logged and treated as misses.
func NewContentCache(store redisStore, ttl time.Duration, logger *zap.Logger) *contentCache {
	return &contentCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func dayKey(day int) string {
	return fmt.Sprintf(dayKeyPattern, day)
}

// Get returns the cached view of a day
func (c *contentCache) Get(ctx context.Context, day int) (*models.DayContentResponse, bool) {
	raw, err := c.store.Get(ctx, dayKey(day)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("content cache read failed", zap.Int("day", day), zap.Error(err))
		}
		return nil, false
	}

	var resp models.DayContentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Warn("discarding undecodable cache entry", zap.Int("day", day), zap.Error(err))
		c.Invalidate(ctx, day)
		return nil, false
	}
	return &resp, true
}

// Set stores the view of a day for the configured TTL
func (c *contentCache) Set(ctx context.Context, day int, resp *models.DayContentResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", zap.Int("day", day), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, dayKey(day), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("content cache write failed", zap.Int("day", day), zap.Error(err))
	}
}

// Invalidate drops the cached view of a day
func (c *contentCache) Invalidate(ctx context.Context, day int) {
	if err := c.store.Del(ctx, dayKey(day)).Err(); err != nil {
		c.logger.Warn("content cache invalidation failed", zap.Int("day", day), zap.Error(err))
	}
}
