package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "talehub:cache:"

// RedisCache shares the query cache between api-server replicas.
// Every redis error is logged and treated as a miss.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// RedisOptions builds client options from either a bare host:port or a
// redis:// / rediss:// URL. A password in the URL wins over password.
func RedisOptions(rawURL, password string) (*redis.Options, error) {
	opts := &redis.Options{Addr: rawURL}
	if strings.Contains(rawURL, "://") {
		parsed, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}
	if opts.Password == "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return opts, nil
}

// NewRedisCache dials redis and verifies the connection.
func NewRedisCache(opts *redis.Options, ttl time.Duration, logger *slog.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheFromClient(rdb, ttl, logger), nil
}

// NewRedisCacheFromClient wraps an existing client. A nil client yields a cache that never hits.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.client == nil {
		return nil, false
	}
	payload, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache_get_failed", "key", key, "error", err)
		}
		return nil, false
	}
	return payload, true
}

func (r *RedisCache) Set(ctx context.Context, key string, payload []byte) {
	if r == nil || r.client == nil {
		return
	}
	// redis enforces the TTL, so no timestamp is stored next to the payload
	if err := r.client.Set(ctx, redisKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("cache_set_failed", "key", key, "error", err)
	}
}

func (r *RedisCache) InvalidateAll(ctx context.Context) {
	if r == nil || r.client == nil {
		return
	}
	var cursor uint64
	for {
		// SCAN returns keys in batches without blocking
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			r.logger.Warn("cache_invalidate_scan_failed", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.logger.Warn("cache_invalidate_del_failed", "count", len(keys), "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// Close releases the underlying connection pool.
func (r *RedisCache) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

var _ QueryCache = (*RedisCache)(nil)
