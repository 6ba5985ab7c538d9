// internal/cache/redis.go
//
// Redis-backed Cache. Connection setup follows the usual ParseURL + ping at
// startup so a bad REDIS_URL fails fast instead of on the first request.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to redisURL and returns a Cache that namespaces keys
// under prefix. The returned close func releases the connection pool.
func NewRedis(ctx context.Context, redisURL, prefix string) (Cache, func() error, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: invalid redis url: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = readTimeout
	opts.WriteTimeout = writeTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}
	log.Info().Str("addr", opts.Addr).Msg("redis cache connected")

	return &redisCache{client: client, prefix: prefix}, client.Close, nil
}

// Get reads key; misses and errors both report false.
func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("redis get")
		}
		return nil, false
	}
	return b, true
}

// Set writes key with ttl (0 = no expiry).
func (r *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, r.prefix+key, val, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set")
	}
}
