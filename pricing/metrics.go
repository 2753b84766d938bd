package pricing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the engine's quote instruments.
type Metrics struct {
	quotesTotal     metric.Int64Counter
	quoteAmount     metric.Float64Histogram
	outOfAreaTotal  metric.Int64Counter
	invalidTotal    metric.Int64Counter
}

// NewMetrics creates the pricing instruments on a meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	quotesTotal, err := meter.Int64Counter(
		"pricing_quotes_total",
		metric.WithDescription("Total quotes produced"),
		metric.WithUnit("{quotes}"),
	)
	if err != nil {
		return nil, err
	}

	quoteAmount, err := meter.Float64Histogram(
		"pricing_quote_amount",
		metric.WithDescription("Suggested contribution per quote"),
		metric.WithUnit("USD"),
		metric.WithExplicitBucketBoundaries(5, 8, 10, 13, 15, 20, 25, 35, 50),
	)
	if err != nil {
		return nil, err
	}

	outOfAreaTotal, err := meter.Int64Counter(
		"pricing_out_of_service_area_total",
		metric.WithDescription("Quote requests with an endpoint outside the service area"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, err
	}

	invalidTotal, err := meter.Int64Counter(
		"pricing_invalid_trip_total",
		metric.WithDescription("Quote requests rejected by trip validation"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotesTotal:    quotesTotal,
		quoteAmount:    quoteAmount,
		outOfAreaTotal: outOfAreaTotal,
		invalidTotal:   invalidTotal,
	}, nil
}

// RecordQuote records one successful quote.
func (m *Metrics) RecordQuote(ctx context.Context, category, multiplier string, suggested float64) {
	attrs := metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("multiplier", multiplier),
	)
	m.quotesTotal.Add(ctx, 1, attrs)
	m.quoteAmount.Record(ctx, suggested, attrs)
}

// RecordOutOfServiceArea records a rejected endpoint.
func (m *Metrics) RecordOutOfServiceArea(ctx context.Context, endpoint string) {
	m.outOfAreaTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

// RecordInvalidTrip records a validation rejection.
func (m *Metrics) RecordInvalidTrip(ctx context.Context) {
	m.invalidTotal.Add(ctx, 1)
}
