package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ VerificationCache = &RedisVerificationCache{}

// RedisVerificationCache keeps positive verification results for a bounded
// TTL. Tokens are stored hashed; the raw bearer token never reaches redis.
type RedisVerificationCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger Logger
}

// RedisCacheOption customizes cache construction.
type RedisCacheOption func(*RedisVerificationCache)

// WithRedisCacheTTL overrides how long a positive result is trusted.
func WithRedisCacheTTL(ttl time.Duration) RedisCacheOption {
	return func(c *RedisVerificationCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisCachePrefix namespaces the cache keys.
func WithRedisCachePrefix(prefix string) RedisCacheOption {
	return func(c *RedisVerificationCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithRedisCacheLogger overrides the logger.
func WithRedisCacheLogger(logger Logger) RedisCacheOption {
	return func(c *RedisVerificationCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewRedisVerificationCache(client *redis.Client, opts ...RedisCacheOption) *RedisVerificationCache {
	c := &RedisVerificationCache{
		client: client,
		prefix: "session:verified",
		ttl:    5 * time.Minute,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

func (c *RedisVerificationCache) IsValid(ctx context.Context, token string) bool {
	n, err := c.client.Exists(ctx, c.key(token)).Result()
	if err != nil {
		// cache miss on error: callers fall through to the round-trip
		c.logger.Debug("verification cache lookup failed: %v", err)
		return false
	}
	return n > 0
}

func (c *RedisVerificationCache) MarkValid(ctx context.Context, token string) {
	if err := c.client.Set(ctx, c.key(token), 1, c.ttl).Err(); err != nil {
		c.logger.Debug("verification cache write failed: %v", err)
	}
}

func (c *RedisVerificationCache) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return c.prefix + ":" + hex.EncodeToString(sum[:])
}
