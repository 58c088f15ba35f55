package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache is a Redis-backed Cache for multi-process deployments where an
// in-process cache would let every instance hit the directory separately.
// Cache misses on Redis errors fall back to the directory, so a flaky Redis
// degrades latency but never correctness.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Cache backed by the given Redis client.
// The prefix namespaces cache keys; it defaults to "tenant:".
func NewRedisCache(client *redis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = "tenant:"
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		// A corrupt entry is dropped so the next request repopulates it.
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {
	data, err := json.Marshal(tenant)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	_ = c.client.Del(ctx, c.prefix+key).Err()
}

func (c *redisCache) Close() error {
	// The client is shared infrastructure owned by the caller.
	return nil
}
