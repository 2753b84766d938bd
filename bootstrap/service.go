// Package bootstrap assembles a pricing service from its parts: config,
// logging, telemetry, the Redis cache layer, the routing client, the zone
// registry, and the pricing engine.
package bootstrap

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/islaride/islaride-shared/config"
	"github.com/islaride/islaride-shared/database"
	"github.com/islaride/islaride-shared/geo"
	"github.com/islaride/islaride-shared/health"
	"github.com/islaride/islaride-shared/logging"
	"github.com/islaride/islaride-shared/maps"
	"github.com/islaride/islaride-shared/pricing"
	"github.com/islaride/islaride-shared/telemetry"
	"github.com/islaride/islaride-shared/zones"
)

// Service holds all initialized components for a pricing service.
type Service struct {
	Config      *config.Config
	Logger      *logging.Logger
	AppInsights *logging.AppInsightsClient
	Tracing     *telemetry.TracingProvider
	Metrics     *telemetry.MetricsProvider

	Redis       *database.RedisClient
	Quotes      *database.QuoteStore
	ZoneConfigs *database.ZoneConfigStore

	Registry *zones.Registry
	Maps     *maps.Client
	Engine   *pricing.Engine
	Health   *health.Checker
}

// Options configures which components to wire up.
type Options struct {
	// UseRedis enables the quote and zone-config stores.
	UseRedis bool

	// UseMaps enables the routing client. Without it cross-zone and
	// long-distance quotes fail for lack of route metrics.
	UseMaps bool

	// UseH3Index routes zone detection through the H3 cell index instead
	// of scanning polygons.
	UseH3Index bool
}

// DefaultOptions returns options that enable everything.
func DefaultOptions() Options {
	return Options{
		UseRedis:   true,
		UseMaps:    true,
		UseH3Index: true,
	}
}

// Initialize sets up a service with configuration from Key Vault (production)
// or environment variables (development).
func Initialize(ctx context.Context, serviceName string, opts Options) (*Service, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel).WithService(serviceName)
	logger.Info("starting service",
		"environment", cfg.Environment,
		"version", cfg.Version,
		"key_vault", cfg.KeyVaultName,
	)

	svc := &Service{
		Config:      cfg,
		Logger:      logger,
		AppInsights: logging.NewAppInsightsClient(cfg.AppInsightsKey),
		Health:      health.NewChecker(cfg.Version),
	}

	if err := svc.initTelemetry(ctx); err != nil {
		return nil, err
	}

	if opts.UseRedis && cfg.RedisHost != "" {
		if err := svc.initRedis(ctx); err != nil {
			return nil, err
		}
	}

	if err := svc.initRegistry(ctx); err != nil {
		return nil, err
	}

	if opts.UseMaps && cfg.MapsAPIKey != "" {
		svc.initMaps()
	}

	if err := svc.initEngine(opts); err != nil {
		return nil, err
	}

	svc.Health.AddCheck("zone-registry", health.ZoneRegistryCheck(svc.Registry), true)

	return svc, nil
}

// MustInitialize initializes the service and panics on error.
func MustInitialize(ctx context.Context, serviceName string, opts Options) *Service {
	svc, err := Initialize(ctx, serviceName, opts)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize service: %v", err))
	}
	return svc
}

func (s *Service) initTelemetry(ctx context.Context) error {
	cfg := s.Config

	// Metrics are always on; without an OTLP endpoint the provider keeps
	// instruments in-process and nothing is exported.
	metrics, err := telemetry.NewMetricsProvider(ctx, telemetry.MetricsConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	s.Metrics = metrics

	if cfg.OTLPEndpoint == "" {
		return nil
	}

	tracing, err := telemetry.NewTracingProvider(ctx, telemetry.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
		SampleRate:     1.0,
		Insecure:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	s.Tracing = tracing

	return nil
}

func (s *Service) initRedis(ctx context.Context) error {
	cfg := s.Config

	rc := database.DefaultRedisConfig()
	rc.TLSEnabled = cfg.RedisTLS
	rc.Password = cfg.RedisPassword
	if !cfg.RedisTLS {
		rc.Port = 6379
	}

	host, portStr, err := net.SplitHostPort(cfg.RedisHost)
	if err != nil {
		rc.Host = cfg.RedisHost
	} else {
		rc.Host = host
		if port, err := strconv.Atoi(portStr); err == nil {
			rc.Port = port
		}
	}

	client, err := database.NewRedisClient(ctx, rc)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	if err := database.NewRedisInitializer(client).Initialize(ctx); err != nil {
		client.Close()
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	s.Redis = client
	s.Quotes = database.NewQuoteStore(client)
	s.ZoneConfigs = database.NewZoneConfigStore(client)

	s.Health.AddCheck("redis", health.RedisCheck(client, 2*time.Second), true)
	s.Logger.Info("redis connected", "host", rc.Host)
	return nil
}

// initRegistry loads the zone layout, preferring the Blob Storage document
// and falling back to the compiled-in default. A stale layout still quotes;
// no layout does not.
func (s *Service) initRegistry(ctx context.Context) error {
	cfg := s.Config

	if !cfg.HasZoneConfigBlob() {
		s.Registry = zones.DefaultIslandRegistry()
		s.Logger.Info("using built-in zone layout", "zones", s.Registry.Len())
		return nil
	}

	loader, err := config.NewZoneConfigLoader(cfg)
	if err != nil {
		return fmt.Errorf("failed to create zone config loader: %w", err)
	}

	registry, zoneCfg, err := loader.LoadRegistry(ctx)
	if err != nil {
		s.Logger.Warn("zone config load failed, using built-in layout", "error", err)
		s.Registry = zones.DefaultIslandRegistry()
		return nil
	}

	s.Registry = registry
	s.Logger.Info("zone layout loaded", "version", zoneCfg.Version, "zones", registry.Len())

	if s.ZoneConfigs != nil {
		if err := s.ZoneConfigs.SaveConfig(ctx, zoneCfg); err != nil {
			s.Logger.Warn("failed to cache zone config", "error", err)
		}
	}

	s.Health.AddCheck("zone-config", health.ZoneConfigCheck(loader, 5*time.Second), false)
	return nil
}

func (s *Service) initMaps() {
	mapsConfig := maps.DefaultConfig(s.Config.MapsAPIKey)

	var cache maps.Cache
	var limiter maps.RateLimiter
	if s.Redis != nil {
		cache = maps.NewRouteCache(s.Redis)
		limiter = maps.NewRouteRateLimiter(s.Redis, mapsConfig.RateLimitPerSecond, time.Second)
	} else {
		cache = maps.NewInMemoryCache()
		limiter = maps.NewNoopRateLimiter()
	}

	s.Maps = maps.NewClient(
		mapsConfig,
		s.Logger,
		maps.NewTracer(s.tracer("islaride.maps")),
		cache,
		limiter,
	)
}

func (s *Service) initEngine(opts Options) error {
	var detector pricing.Detector = s.Registry
	if opts.UseH3Index {
		detector = zones.NewIndex(s.Registry)
	}

	meter := s.Metrics.Meter()

	zoneMetrics, err := telemetry.NewZoneMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create zone metrics: %w", err)
	}
	detector = &meteredDetector{inner: detector, metrics: zoneMetrics}

	quoteMetrics, err := pricing.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create quote metrics: %w", err)
	}

	engine, err := pricing.NewEngine(s.Registry, pricing.DefaultFeeSchedule(),
		pricing.WithDetector(detector),
		pricing.WithLogger(s.Logger.Logger),
		pricing.WithMetrics(quoteMetrics),
	)
	if err != nil {
		return fmt.Errorf("failed to build pricing engine: %w", err)
	}

	s.Engine = engine
	return nil
}

func (s *Service) tracer(name string) trace.Tracer {
	if s.Tracing != nil {
		return s.Tracing.Tracer()
	}
	return otel.Tracer(name)
}

// Close cleans up all resources.
func (s *Service) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.AppInsights != nil {
		s.AppInsights.Close()
	}
	if s.Tracing != nil {
		if err := s.Tracing.Shutdown(ctx); err != nil {
			s.Logger.Warn("tracing shutdown failed", "error", err)
		}
	}
	if s.Metrics != nil {
		if err := s.Metrics.Shutdown(ctx); err != nil {
			s.Logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn("redis close failed", "error", err)
		}
	}
}

// meteredDetector wraps a detector with zone-detection metrics.
type meteredDetector struct {
	inner   pricing.Detector
	metrics *telemetry.ZoneMetrics
}

func (d *meteredDetector) Detect(p geo.Point) *zones.Zone {
	start := time.Now()
	z := d.inner.Detect(p)
	elapsed := time.Since(start)

	ctx := context.Background()
	if z != nil {
		d.metrics.RecordDetection(ctx, z.ID, elapsed)
	} else {
		d.metrics.RecordOutOfServiceArea(ctx, elapsed)
	}
	return z
}
