package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chat-wordmap/backend/internal/constants"
	"chat-wordmap/backend/internal/extract"
	apperrors "chat-wordmap/backend/pkg/errors"
)

// RedisCache stores extraction results in Redis
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "wordmap:"
	TTL      time.Duration // Expiration for results, 0 keeps them until evicted
}

// NewRedisCache creates a new Redis-backed result cache
func NewRedisCache(opts RedisOptions) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = constants.CacheKeyPrefix
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (c *RedisCache) resultKey(key string) string {
	return fmt.Sprintf("%sresult:%s", c.prefix, key)
}

// Ping checks that Redis is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return apperrors.NewCacheFailed("ping", err)
	}
	return nil
}

// Get loads a cached result. A missing key is reported as a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) (*extract.Result, bool, error) {
	data, err := c.client.Get(ctx, c.resultKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheFailed(key, err)
	}

	var result extract.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, apperrors.NewCacheFailed(key, fmt.Errorf("failed to unmarshal result: %w", err))
	}
	if result.Words == nil {
		result.Words = []extract.WordEntry{}
	}
	return &result, true, nil
}

// Set stores a result under key
func (c *RedisCache) Set(ctx context.Context, key string, result *extract.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.NewCacheFailed(key, fmt.Errorf("failed to marshal result: %w", err))
	}
	if err := c.client.Set(ctx, c.resultKey(key), data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheFailed(key, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
