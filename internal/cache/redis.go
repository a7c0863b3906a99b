package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tastefinder/discovery-service/internal/domain"
)

const defaultTTL = 5 * time.Minute

// Cache stores listing envelopes for requests the database path serves.
// Manual-path results (open-now, distance, relevance) are time- and
// location-dependent and are never cached.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// GetListing returns a cached envelope and whether the key was present.
func (c *Cache) GetListing(ctx context.Context, key string) (*domain.ListResult, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var res domain.ListResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached listing %s: %w", key, err)
	}
	return &res, true, nil
}

// SetListing stores an envelope with the configured TTL.
func (c *Cache) SetListing(ctx context.Context, key string, res *domain.ListResult) error {
	val, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
