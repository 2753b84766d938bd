package database

import (
	"context"
	"fmt"
	"time"

	"github.com/islaride/islaride-shared/pricing"
	"github.com/islaride/islaride-shared/zones"
)

// RedisKeyPatterns defines the key layout for the pricing cache.
type RedisKeyPatterns struct {
	// Quote stores one issued quote: quote:{quote_id}
	Quote string
	// QuoteCountByDay is a per-day hash of quote counts keyed by category:
	// quotes:daily:{yyyy-mm-dd}
	QuoteCountByDay string
	// ZoneConfig stores the active zone configuration document.
	ZoneConfig string
	// ZoneConfigVersion stores the version string of the cached document.
	ZoneConfigVersion string
	// ZoneConfigLock guards configuration refreshes across instances.
	ZoneConfigLock string
	// FeeSchedule stores the active fee schedule document.
	FeeSchedule string
	// RouteCache stores routing and geocoding responses keyed by geohash:
	// routes:{key}
	RouteCache string
	// RateLimit tracks per-client request windows: ratelimit:{scope}:{client}
	RateLimit string
}

// DefaultKeyPatterns returns the standard key patterns.
func DefaultKeyPatterns() RedisKeyPatterns {
	return RedisKeyPatterns{
		Quote:             "quote:%s",
		QuoteCountByDay:   "quotes:daily:%s",
		ZoneConfig:        "zones:config",
		ZoneConfigVersion: "zones:config:version",
		ZoneConfigLock:    "zones:config:lock",
		FeeSchedule:       "pricing:schedule",
		RouteCache:        "routes:%s",
		RateLimit:         "ratelimit:%s:%s",
	}
}

// RedisTTLs defines expiration times for cached data.
type RedisTTLs struct {
	// Quote is how long an issued quote stays retrievable. Riders confirm
	// within minutes; a stale quote should re-price rather than resurface.
	Quote time.Duration
	// ZoneConfig bounds how stale a cached zone document may get before the
	// blob loader is consulted again.
	ZoneConfig time.Duration
	// FeeSchedule matches ZoneConfig; the two refresh together.
	FeeSchedule time.Duration
	// ConfigLock caps how long a crashed refresher can block others.
	ConfigLock time.Duration
	// RouteCache caps routing response retention. Google's terms allow up
	// to 30 days.
	RouteCache time.Duration
	// QuoteCounters keeps daily counters long enough for reporting.
	QuoteCounters time.Duration
}

// DefaultTTLs returns the standard TTLs.
func DefaultTTLs() RedisTTLs {
	return RedisTTLs{
		Quote:         15 * time.Minute,
		ZoneConfig:    1 * time.Hour,
		FeeSchedule:   1 * time.Hour,
		ConfigLock:    30 * time.Second,
		RouteCache:    30 * 24 * time.Hour,
		QuoteCounters: 40 * 24 * time.Hour,
	}
}

// RedisInitializer verifies the cache is reachable at service start.
type RedisInitializer struct {
	client *RedisClient
	keys   RedisKeyPatterns
	ttls   RedisTTLs
}

// NewRedisInitializer creates an initializer with default patterns and TTLs.
func NewRedisInitializer(client *RedisClient) *RedisInitializer {
	return &RedisInitializer{
		client: client,
		keys:   DefaultKeyPatterns(),
		ttls:   DefaultTTLs(),
	}
}

// Initialize pings the cache and records the boot timestamp.
func (ri *RedisInitializer) Initialize(ctx context.Context) error {
	if err := ri.client.PingWithRetry(ctx); err != nil {
		return fmt.Errorf("redis initialization failed: %w", err)
	}
	return ri.client.HSet(ctx, "islaride:boot",
		"last_init", time.Now().UTC().Format(time.RFC3339),
	)
}

// KeyPatterns returns the key patterns in use.
func (ri *RedisInitializer) KeyPatterns() RedisKeyPatterns { return ri.keys }

// TTLs returns the TTLs in use.
func (ri *RedisInitializer) TTLs() RedisTTLs { return ri.ttls }

// QuoteStore caches issued quotes so a rider's confirmation can be checked
// against the exact quote they were shown.
type QuoteStore struct {
	client *RedisClient
	keys   RedisKeyPatterns
	ttls   RedisTTLs
}

// NewQuoteStore creates a quote store with default patterns and TTLs.
func NewQuoteStore(client *RedisClient) *QuoteStore {
	return &QuoteStore{
		client: client,
		keys:   DefaultKeyPatterns(),
		ttls:   DefaultTTLs(),
	}
}

func (s *QuoteStore) quoteKey(quoteID string) string {
	return fmt.Sprintf(s.keys.Quote, quoteID)
}

// SaveQuote stores a quote and bumps the daily counter for its category.
func (s *QuoteStore) SaveQuote(ctx context.Context, quote *pricing.PricingResult) error {
	if quote == nil || quote.QuoteID == "" {
		return fmt.Errorf("quote must have an ID")
	}
	if err := s.client.SetJSONWithRetry(ctx, s.quoteKey(quote.QuoteID), quote, s.ttls.Quote); err != nil {
		return fmt.Errorf("save quote %s: %w", quote.QuoteID, err)
	}

	day := quote.CalculatedAt.UTC().Format("2006-01-02")
	counterKey := fmt.Sprintf(s.keys.QuoteCountByDay, day)
	if _, err := s.client.HIncrBy(ctx, counterKey, string(quote.Category), 1); err != nil {
		// Counters are best-effort; the quote itself is already stored.
		return nil
	}
	_ = s.client.Expire(ctx, counterKey, s.ttls.QuoteCounters)
	return nil
}

// GetQuote retrieves a quote by ID. Returns ErrKeyNotFound if it has expired
// or was never issued.
func (s *QuoteStore) GetQuote(ctx context.Context, quoteID string) (*pricing.PricingResult, error) {
	var quote pricing.PricingResult
	if err := s.client.GetJSONWithRetry(ctx, s.quoteKey(quoteID), &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// DeleteQuote removes a quote, typically after it is consumed by a booking.
func (s *QuoteStore) DeleteQuote(ctx context.Context, quoteID string) error {
	return s.client.DeleteWithRetry(ctx, s.quoteKey(quoteID))
}

// DailyCounts returns the per-category quote counts for a day (UTC).
func (s *QuoteStore) DailyCounts(ctx context.Context, day time.Time) (map[string]string, error) {
	key := fmt.Sprintf(s.keys.QuoteCountByDay, day.UTC().Format("2006-01-02"))
	return s.client.HGetAllWithRetry(ctx, key)
}

// ZoneConfigStore caches the zone configuration document between blob reads.
type ZoneConfigStore struct {
	client *RedisClient
	keys   RedisKeyPatterns
	ttls   RedisTTLs
}

// NewZoneConfigStore creates a zone config store with default patterns and TTLs.
func NewZoneConfigStore(client *RedisClient) *ZoneConfigStore {
	return &ZoneConfigStore{
		client: client,
		keys:   DefaultKeyPatterns(),
		ttls:   DefaultTTLs(),
	}
}

// SaveConfig caches a configuration document and its version marker.
func (s *ZoneConfigStore) SaveConfig(ctx context.Context, cfg *zones.Config) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	if err := s.client.SetJSONWithRetry(ctx, s.keys.ZoneConfig, cfg, s.ttls.ZoneConfig); err != nil {
		return fmt.Errorf("save zone config: %w", err)
	}
	return s.client.SetWithRetry(ctx, s.keys.ZoneConfigVersion, cfg.Version, s.ttls.ZoneConfig)
}

// GetConfig retrieves the cached configuration document. Returns
// ErrKeyNotFound when the cache is cold.
func (s *ZoneConfigStore) GetConfig(ctx context.Context) (*zones.Config, error) {
	var cfg zones.Config
	if err := s.client.GetJSONWithRetry(ctx, s.keys.ZoneConfig, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Version returns the version of the cached document, or ErrKeyNotFound.
func (s *ZoneConfigStore) Version(ctx context.Context) (string, error) {
	return s.client.GetWithRetry(ctx, s.keys.ZoneConfigVersion)
}

// LockRefresh acquires the refresh lock so only one instance re-reads the
// blob when the cache expires.
func (s *ZoneConfigStore) LockRefresh(ctx context.Context) (*Lock, error) {
	return s.client.AcquireLock(ctx, s.keys.ZoneConfigLock, s.ttls.ConfigLock)
}
