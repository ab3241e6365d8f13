package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// CacheService provides a Redis cache-aside layer for normalized analytics
// results, keyed by (scope, channel set, date range).
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetResult retrieves a cached aggregate result by scope key. Returns nil
// when not cached or the cache is disabled.
func (c *CacheService) GetResult(ctx context.Context, key string) (*model.AggregateResult, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var res model.AggregateResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetResult stores an aggregate result under its scope key.
func (c *CacheService) SetResult(ctx context.Context, key string, res *model.AggregateResult, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// TrackChannelKey remembers that key holds data derived from channelID, so a
// stats change for the channel can invalidate every affected view.
func (c *CacheService) TrackChannelKey(ctx context.Context, channelID, key string, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	idx := channelIndexKey(channelID)
	if err := c.rdb.SAdd(ctx, idx, key).Err(); err != nil {
		return err
	}
	return c.rdb.Expire(ctx, idx, ttl).Err()
}

// InvalidateChannel drops every cached result derived from the channel.
func (c *CacheService) InvalidateChannel(ctx context.Context, channelID string) error {
	if c.rdb == nil {
		return nil
	}
	idx := channelIndexKey(channelID)
	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return c.rdb.Del(ctx, idx).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func channelIndexKey(channelID string) string {
	return "channel-keys:" + channelID
}
