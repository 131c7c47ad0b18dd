package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"astrodesk/models"

	"github.com/go-redis/redis/v8"
)

const productListKey = "catalog:products:v1"

// ListingCache holds the public product listing between writes.
type ListingCache interface {
	Get(ctx context.Context) ([]models.ProductView, bool, error)
	Set(ctx context.Context, products []models.ProductView) error
	Invalidate(ctx context.Context) error
}

// RedisListingCache stores the listing as one JSON value with a TTL.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

func (c *RedisListingCache) Get(ctx context.Context) ([]models.ProductView, bool, error) {
	raw, err := c.client.Get(ctx, productListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var products []models.ProductView
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, products []models.ProductView) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productListKey, raw, c.ttl).Err()
}

func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, productListKey).Err()
}

// NoopListingCache is used when no Redis address is configured.
type NoopListingCache struct{}

func (NoopListingCache) Get(context.Context) ([]models.ProductView, bool, error) { return nil, false, nil }
func (NoopListingCache) Set(context.Context, []models.ProductView) error         { return nil }
func (NoopListingCache) Invalidate(context.Context) error                        { return nil }
