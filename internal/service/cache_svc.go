package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/analytubeapp-coder/analytube/internal/metrics"
	"github.com/analytubeapp-coder/analytube/internal/model"
	"github.com/analytubeapp-coder/analytube/pkg/hash"
)

const (
	ResolveCacheTTL   = 24 * time.Hour
	AnalyticsCacheTTL = 10 * time.Minute
)

// CacheService provides a Redis cache-aside layer for resolved channel inputs
// and analytics responses. A nil client turns every operation into a no-op.
type CacheService struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

// NewCacheService connects to Redis. If redisURL is empty or the connection
// fails, it returns a CacheService with caching disabled.
func NewCacheService(redisURL string, logger zerolog.Logger) *CacheService {
	logger = logger.With().Str("component", "cache").Logger()
	if redisURL == "" {
		logger.Info().Msg("no REDIS_URL configured, caching disabled")
		return &CacheService{logger: logger}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid REDIS_URL, caching disabled")
		return &CacheService{logger: logger}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, caching disabled")
		_ = rdb.Close()
		return &CacheService{logger: logger}
	}

	logger.Info().Msg("redis connected, caching enabled")
	return &CacheService{rdb: rdb, logger: logger}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

func (c *CacheService) enabled() bool {
	return c != nil && c.rdb != nil
}

// ResolvedChannelID returns the channel ID previously resolved for input.
func (c *CacheService) ResolvedChannelID(ctx context.Context, input string) (string, bool) {
	if !c.enabled() {
		return "", false
	}
	id, err := c.rdb.Get(ctx, resolveKey(input)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("resolve cache get failed")
		}
		metrics.CacheResult("resolve", false)
		return "", false
	}
	metrics.CacheResult("resolve", true)
	return id, true
}

// StoreResolved remembers which channel an input resolved to.
func (c *CacheService) StoreResolved(ctx context.Context, input, channelID string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Set(ctx, resolveKey(input), channelID, ResolveCacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("resolve cache set failed")
	}
}

// Analytics returns a cached analytics response for the channel.
func (c *CacheService) Analytics(ctx context.Context, channelID string) (*model.AnalyticsResponse, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, analyticsKey(channelID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("channel_id", channelID).Msg("analytics cache get failed")
		}
		metrics.CacheResult("analytics", false)
		return nil, false
	}

	var resp model.AnalyticsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		metrics.CacheResult("analytics", false)
		return nil, false
	}
	metrics.CacheResult("analytics", true)
	return &resp, true
}

// StoreAnalytics caches an analytics response.
func (c *CacheService) StoreAnalytics(ctx context.Context, channelID string, resp *model.AnalyticsResponse) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, analyticsKey(channelID), b, AnalyticsCacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("channel_id", channelID).Msg("analytics cache set failed")
	}
}

// InvalidateAnalytics drops the cached analytics for a channel (called after
// a snapshot is stored).
func (c *CacheService) InvalidateAnalytics(ctx context.Context, channelID string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, analyticsKey(channelID)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("channel_id", channelID).Msg("analytics cache invalidate failed")
	}
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Close()
}

func resolveKey(input string) string {
	return hash.CacheKey("resolve", input)
}

func analyticsKey(channelID string) string {
	return fmt.Sprintf("analytics:%s", channelID)
}
