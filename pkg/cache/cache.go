package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs per content type
const (
	TTLSurface  = 1 * time.Minute  // breaking/pinned surfaces (scores age quickly)
	TTLArticle  = 5 * time.Minute  // single article projections
	TTLCategory = 10 * time.Minute // category metadata (rarely changes)
	TTLDefault  = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixSurface  = "surface:"
	PrefixArticle  = "article:"
	PrefixCategory = "category:"
)

// Service Redis cache interface. All operations are nil-safe: the server
// keeps working without Redis, reads just miss and writes become no-ops.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Surface caches (breaking/pinned)
	GetSurface(ctx context.Context, surface string, page, limit int, filter string) ([]byte, error)
	SetSurface(ctx context.Context, surface string, page, limit int, filter string, data interface{}) error
	InvalidateSurfaces(ctx context.Context) error

	// Article cache
	InvalidateArticle(ctx context.Context, newsID int64) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service backed by the given Redis client
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) surfaceKey(surface string, page, limit int, filter string) string {
	if filter == "" {
		filter = "all"
	}
	return fmt.Sprintf("%s%s:%s:%d:%d", PrefixSurface, surface, filter, page, limit)
}

func (c *redisCache) GetSurface(ctx context.Context, surface string, page, limit int, filter string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.surfaceKey(surface, page, limit, filter)).Bytes()
}

func (c *redisCache) SetSurface(ctx context.Context, surface string, page, limit int, filter string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.surfaceKey(surface, page, limit, filter), jsonData, TTLSurface).Err()
}

// InvalidateSurfaces drops every cached surface page. Called on any article
// write since counters and eligibility feed both surfaces.
func (c *redisCache) InvalidateSurfaces(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixSurface+"*")
}

func (c *redisCache) InvalidateArticle(ctx context.Context, newsID int64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, fmt.Sprintf("%s%d", PrefixArticle, newsID)).Err()
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
