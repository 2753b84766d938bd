package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string // OTLP endpoint (empty keeps metrics in-process)
	Insecure       bool   // Use insecure connection
}

// MetricsProvider provides metrics functionality.
type MetricsProvider struct {
	provider *sdkmetric.MeterProvider
	meter    metric.Meter
	config   MetricsConfig
}

// NewMetricsProvider creates a new metrics provider. When an OTLP endpoint
// is configured, metrics are exported over HTTP on a periodic reader.
func NewMetricsProvider(ctx context.Context, config MetricsConfig) (*MetricsProvider, error) {
	// Create resource
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providerOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}

	if config.Endpoint != "" {
		expOpts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(config.Endpoint),
		}
		if config.Insecure {
			expOpts = append(expOpts, otlpmetrichttp.WithInsecure())
		}

		exporter, err := otlpmetrichttp.New(ctx, expOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	provider := sdkmetric.NewMeterProvider(providerOpts...)

	// Set global provider
	otel.SetMeterProvider(provider)

	// Get meter
	meter := provider.Meter(config.ServiceName)

	return &MetricsProvider{
		provider: provider,
		meter:    meter,
		config:   config,
	}, nil
}

// Meter returns the meter for creating instruments.
func (m *MetricsProvider) Meter() metric.Meter {
	return m.meter
}

// Shutdown shuts down the metrics provider.
func (m *MetricsProvider) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// DatabaseMetrics provides cache/database-related metrics.
type DatabaseMetrics struct {
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorsTotal       metric.Int64Counter
}

// NewDatabaseMetrics creates database metrics.
func NewDatabaseMetrics(meter metric.Meter, dbType string) (*DatabaseMetrics, error) {
	prefix := fmt.Sprintf("db_%s", dbType)

	operationsTotal, err := meter.Int64Counter(
		prefix+"_operations_total",
		metric.WithDescription("Total database operations"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram(
		prefix+"_operation_duration_seconds",
		metric.WithDescription("Database operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter(
		prefix+"_errors_total",
		metric.WithDescription("Total database errors"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, err
	}

	return &DatabaseMetrics{
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
		errorsTotal:       errorsTotal,
	}, nil
}

// RecordOperation records a database operation.
func (m *DatabaseMetrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
	}

	m.operationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if err != nil {
		m.errorsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// ZoneMetrics provides zone-detection metrics. Detection volume per zone is
// the main capacity signal for redrawing zone boundaries.
type ZoneMetrics struct {
	detectionsTotal   metric.Int64Counter
	outOfAreaTotal    metric.Int64Counter
	detectionDuration metric.Float64Histogram
}

// NewZoneMetrics creates zone detection metrics.
func NewZoneMetrics(meter metric.Meter) (*ZoneMetrics, error) {
	detectionsTotal, err := meter.Int64Counter(
		"zone_detections_total",
		metric.WithDescription("Total zone detections by resolved zone"),
		metric.WithUnit("{detections}"),
	)
	if err != nil {
		return nil, err
	}

	outOfAreaTotal, err := meter.Int64Counter(
		"zone_out_of_service_area_total",
		metric.WithDescription("Points that resolved to no zone"),
		metric.WithUnit("{detections}"),
	)
	if err != nil {
		return nil, err
	}

	detectionDuration, err := meter.Float64Histogram(
		"zone_detection_duration_seconds",
		metric.WithDescription("Zone detection duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005),
	)
	if err != nil {
		return nil, err
	}

	return &ZoneMetrics{
		detectionsTotal:   detectionsTotal,
		outOfAreaTotal:    outOfAreaTotal,
		detectionDuration: detectionDuration,
	}, nil
}

// RecordDetection records a resolved zone detection.
func (m *ZoneMetrics) RecordDetection(ctx context.Context, zoneID string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("zone_id", zoneID),
	}
	m.detectionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.detectionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOutOfServiceArea records a point that matched no zone.
func (m *ZoneMetrics) RecordOutOfServiceArea(ctx context.Context, duration time.Duration) {
	m.outOfAreaTotal.Add(ctx, 1)
	m.detectionDuration.Record(ctx, duration.Seconds())
}

// RouteMetrics provides routing-provider metrics.
type RouteMetrics struct {
	lookupsTotal   metric.Int64Counter
	cacheHitsTotal metric.Int64Counter
	lookupDuration metric.Float64Histogram
}

// NewRouteMetrics creates route lookup metrics.
func NewRouteMetrics(meter metric.Meter) (*RouteMetrics, error) {
	lookupsTotal, err := meter.Int64Counter(
		"route_lookups_total",
		metric.WithDescription("Total route lookups against the routing provider"),
		metric.WithUnit("{lookups}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitsTotal, err := meter.Int64Counter(
		"route_cache_hits_total",
		metric.WithDescription("Route lookups served from cache"),
		metric.WithUnit("{lookups}"),
	)
	if err != nil {
		return nil, err
	}

	lookupDuration, err := meter.Float64Histogram(
		"route_lookup_duration_seconds",
		metric.WithDescription("Route lookup duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, err
	}

	return &RouteMetrics{
		lookupsTotal:   lookupsTotal,
		cacheHitsTotal: cacheHitsTotal,
		lookupDuration: lookupDuration,
	}, nil
}

// RecordLookup records a route lookup.
func (m *RouteMetrics) RecordLookup(ctx context.Context, cached bool, duration time.Duration) {
	m.lookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cached", cached)))
	if cached {
		m.cacheHitsTotal.Add(ctx, 1)
	}
	m.lookupDuration.Record(ctx, duration.Seconds())
}
