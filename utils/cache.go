// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"astrodesk/config"

	"github.com/go-redis/redis/v8"
)

// NewCacheClient connects the Redis client used for the product listing cache.
// It returns nil, nil when REDIS_ADDR is empty.
func NewCacheClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	return client, nil
}

type cachePinger struct {
	client *redis.Client
}

func (p cachePinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// CachePinger adapts a Redis client to the health monitor.
func CachePinger(client *redis.Client) Pinger {
	return cachePinger{client: client}
}
