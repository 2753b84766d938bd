package maps

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/islaride/islaride-shared/database"
)

// RouteCache keeps routing and geocoding responses in the shared pricing
// cache, under the platform key layout. Routes change with road work, not
// per request, so entries live for days.
type RouteCache struct {
	client *database.RedisClient
	keys   database.RedisKeyPatterns
	ttls   database.RedisTTLs
}

// NewRouteCache wraps the shared Redis client.
func NewRouteCache(client *database.RedisClient) *RouteCache {
	return &RouteCache{
		client: client,
		keys:   database.DefaultKeyPatterns(),
		ttls:   database.DefaultTTLs(),
	}
}

// Get returns the cached payload, or nil on a miss.
func (c *RouteCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf(c.keys.RouteCache, key))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("route cache get: %w", err)
	}
	return []byte(val), nil
}

// Set stores a payload. A non-positive TTL falls back to the platform route
// retention limit.
func (c *RouteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttls.RouteCache
	}
	if err := c.client.Set(ctx, fmt.Sprintf(c.keys.RouteCache, key), string(value), ttl); err != nil {
		return fmt.Errorf("route cache set: %w", err)
	}
	return nil
}

// admitScript is a sliding-window admission check in one round trip: drop
// entries older than the window, admit and record the call when under the
// limit, otherwise return the oldest entry's score so the caller knows when
// a slot frees up.
var admitScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '0', ARGV[2])
if redis.call('ZCARD', KEYS[1]) < tonumber(ARGV[1]) then
	redis.call('ZADD', KEYS[1], ARGV[3], ARGV[3])
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
	return 0
end
local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
if #oldest >= 2 then
	return oldest[2]
end
return -1
`)

// RouteRateLimiter paces Google API calls across every service instance
// sharing the cache, inside the platform ratelimit key family.
type RouteRateLimiter struct {
	client *database.RedisClient
	keys   database.RedisKeyPatterns
	limit  int
	window time.Duration
}

// NewRouteRateLimiter creates a limiter admitting limit calls per window.
// Non-positive arguments fall back to the routing defaults.
func NewRouteRateLimiter(client *database.RedisClient, limit int, window time.Duration) *RouteRateLimiter {
	if limit <= 0 {
		limit = defaultRateLimitPerSec
	}
	if window <= 0 {
		window = time.Second
	}
	return &RouteRateLimiter{
		client: client,
		keys:   database.DefaultKeyPatterns(),
		limit:  limit,
		window: window,
	}
}

// Wait blocks until the call is admitted or the context ends. Each operation
// name ("compute_routes", "reverse_geocode") gets its own window.
func (r *RouteRateLimiter) Wait(ctx context.Context, operation string) error {
	key := fmt.Sprintf(r.keys.RateLimit, "maps", operation)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := time.Now()
		res, err := admitScript.Run(ctx, r.client.Client(), []string{key},
			r.limit,
			now.Add(-r.window).UnixMicro(),
			now.UnixMicro(),
			r.window.Milliseconds(),
		).Int64()
		if err != nil {
			return fmt.Errorf("route rate limiter: %w", err)
		}

		var backoff time.Duration
		switch {
		case res == 0:
			return nil
		case res < 0:
			// Window full but no oldest score; spread retries evenly.
			backoff = r.window / time.Duration(r.limit)
		default:
			backoff = time.Until(time.UnixMicro(res).Add(r.window))
		}

		if backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
}

// InMemoryCache is a process-local Cache for tests and single-instance
// deployments without a shared Redis.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string]memoryEntry),
	}
}

// Get returns the cached payload, or nil on a miss. Expired entries read as
// misses and are dropped.
func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.data, key)
		return nil, nil
	}
	return entry.payload, nil
}

// Set stores a payload with a TTL.
func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = memoryEntry{
		payload:   value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// NoopRateLimiter never blocks. Used in tests and when no shared cache is
// configured.
type NoopRateLimiter struct{}

// NewNoopRateLimiter creates a limiter that admits everything.
func NewNoopRateLimiter() *NoopRateLimiter {
	return &NoopRateLimiter{}
}

// Wait returns immediately.
func (NoopRateLimiter) Wait(ctx context.Context, operation string) error {
	return nil
}
