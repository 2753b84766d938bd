package pricing

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/islaride/islaride-shared/errors"
	"github.com/islaride/islaride-shared/geo"
	"github.com/islaride/islaride-shared/zones"
)

// Detector resolves a coordinate to its pricing zone. *zones.Registry and
// *zones.Index both satisfy it; the engine does not care which one it gets.
type Detector interface {
	Detect(p geo.Point) *zones.Zone
}

// Engine produces contribution quotes. It is pure given its inputs: the same
// trip against the same registry and schedule always yields the same amounts,
// and with a fixed clock and ID generator the whole result is reproducible.
// Safe for concurrent use.
type Engine struct {
	registry *zones.Registry
	detector Detector
	schedule FeeSchedule
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDetector swaps the zone resolver, typically for the H3-indexed
// detector on hot paths.
func WithDetector(d Detector) Option {
	return func(e *Engine) { e.detector = d }
}

// WithClock fixes the engine's notion of now. Used by tests and by replay
// tooling that needs byte-identical quotes.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the quote ID source.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics attaches quote instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine builds an engine over a zone registry and fee schedule. The
// schedule is validated against the registry up front so a cluster or
// premium list naming a missing zone fails at startup, not mid-quote.
func NewEngine(registry *zones.Registry, schedule FeeSchedule, opts ...Option) (*Engine, error) {
	if err := schedule.Validate(registry); err != nil {
		return nil, err
	}

	e := &Engine{
		registry: registry,
		detector: registry,
		schedule: schedule,
		logger:   slog.Default(),
		tracer:   otel.Tracer("islaride.pricing"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Schedule returns the engine's fee schedule.
func (e *Engine) Schedule() FeeSchedule {
	return e.schedule
}

// Quote classifies the trip and computes the suggested contribution.
//
// Category precedence, first match wins:
//  1. long-distance: endpoints in opposite west/east clusters
//  2. airport: either endpoint in the airport zone
//  3. within-zone: both endpoints in the same zone
//  4. sub-zone: different zones in the same zone family
//  5. cross-zone: everything else
//
// An endpoint that resolves to no zone is an OUT_OF_SERVICE_AREA error;
// the engine never invents a price for an unknown location.
func (e *Engine) Quote(ctx context.Context, trip TripDetails) (*PricingResult, error) {
	ctx, span := e.tracer.Start(ctx, "pricing.Quote")
	defer span.End()

	if err := trip.Validate(); err != nil {
		span.RecordError(err)
		if e.metrics != nil {
			e.metrics.RecordInvalidTrip(ctx)
		}
		return nil, err
	}

	pickupZone := e.detector.Detect(trip.Pickup())
	if pickupZone == nil {
		err := errors.OutOfServiceArea("pickup", trip.PickupLat, trip.PickupLng)
		span.RecordError(err)
		if e.metrics != nil {
			e.metrics.RecordOutOfServiceArea(ctx, "pickup")
		}
		return nil, err
	}
	dropoffZone := e.detector.Detect(trip.Dropoff())
	if dropoffZone == nil {
		err := errors.OutOfServiceArea("dropoff", trip.DropoffLat, trip.DropoffLng)
		span.RecordError(err)
		if e.metrics != nil {
			e.metrics.RecordOutOfServiceArea(ctx, "dropoff")
		}
		return nil, err
	}

	category := e.classify(pickupZone.ID, dropoffZone.ID)
	breakdown := e.breakdown(category, pickupZone.ID, dropoffZone.ID, trip)

	mult, multName := e.schedule.MultiplierFor(trip.RequestedAt)
	breakdown.Multiplier = mult
	breakdown.MultiplierName = multName

	// One multiplication, then round to the whole currency unit. Riders see
	// round numbers; the breakdown keeps the exact subtotal.
	suggested := math.Round(breakdown.Subtotal * mult)

	var minC, maxC float64
	switch category {
	case CategoryLongDistance:
		minC, maxC = suggested, suggested
	case CategoryWithinZone, CategorySubZone:
		minC = math.Round(suggested * (1 - e.schedule.NarrowBandPct))
		maxC = math.Round(suggested * (1 + e.schedule.NarrowBandPct))
	default:
		minC = math.Round(suggested * (1 - e.schedule.WideBandPct))
		maxC = math.Round(suggested * (1 + e.schedule.WideBandPct))
	}

	result := &PricingResult{
		QuoteID:      e.newID(),
		Category:     category,
		PickupZone:   e.zoneRef(pickupZone),
		DropoffZone:  e.zoneRef(dropoffZone),
		Breakdown:    breakdown,
		Suggested:    suggested,
		Minimum:      minC,
		Maximum:      maxC,
		Currency:     e.schedule.Currency,
		RouteDisplay: routeDisplay(e.zoneRef(pickupZone), e.zoneRef(dropoffZone)),
		CalculatedAt: e.now().UTC(),
	}

	span.SetAttributes(
		attribute.String("pricing.category", string(category)),
		attribute.String("pricing.pickup_zone", pickupZone.ID),
		attribute.String("pricing.dropoff_zone", dropoffZone.ID),
		attribute.Float64("pricing.suggested", suggested),
		attribute.String("pricing.multiplier", multName),
	)
	e.logger.DebugContext(ctx, "quote computed",
		"quote_id", result.QuoteID,
		"category", category,
		"pickup_zone", pickupZone.ID,
		"dropoff_zone", dropoffZone.ID,
		"suggested", suggested,
		"multiplier", multName,
	)
	if e.metrics != nil {
		e.metrics.RecordQuote(ctx, string(category), multName, suggested)
	}

	return result, nil
}

// classify applies the category precedence to a resolved zone pair.
func (e *Engine) classify(pickupID, dropoffID string) Category {
	if e.isLongDistance(pickupID, dropoffID) {
		return CategoryLongDistance
	}
	airportID := e.registry.AirportZoneID()
	if pickupID == airportID || dropoffID == airportID {
		return CategoryAirport
	}
	if pickupID == dropoffID {
		return CategoryWithinZone
	}
	if e.registry.Related(pickupID, dropoffID) {
		return CategorySubZone
	}
	return CategoryCrossZone
}

// isLongDistance reports whether the endpoints sit in opposite long-distance
// clusters, in either direction.
func (e *Engine) isLongDistance(pickupID, dropoffID string) bool {
	s := e.schedule
	return (contains(s.WesternClusterZoneIDs, pickupID) && contains(s.EasternClusterZoneIDs, dropoffID)) ||
		(contains(s.EasternClusterZoneIDs, pickupID) && contains(s.WesternClusterZoneIDs, dropoffID))
}

// breakdown computes the pre-multiplier fee components for one category.
func (e *Engine) breakdown(category Category, pickupID, dropoffID string, trip TripDetails) Breakdown {
	s := e.schedule

	switch category {
	case CategoryWithinZone:
		// Four-way table. The with-stop fee is flat for short trips; longer
		// trips with a stop also pay the extra-stop fee.
		short := trip.DurationMinutes <= s.ShortTripMaxMinutes
		switch {
		case !trip.ExtraStop:
			return Breakdown{BaseFee: s.WithinZoneShortFee, Subtotal: s.WithinZoneShortFee}
		case short:
			return Breakdown{BaseFee: s.WithinZoneWithStopFee, Subtotal: s.WithinZoneWithStopFee}
		default:
			return Breakdown{
				BaseFee:      s.WithinZoneWithStopFee,
				ExtraStopFee: s.ExtraStopFee,
				Subtotal:     s.WithinZoneWithStopFee + s.ExtraStopFee,
			}
		}

	case CategorySubZone:
		return Breakdown{
			BaseFee:    s.SubZoneBaseFee,
			SubZoneFee: s.SubZoneFee,
			Subtotal:   s.SubZoneBaseFee + s.SubZoneFee,
		}

	case CategoryAirport:
		rate := s.AirportPerMile
		other := dropoffID
		if dropoffID == e.registry.AirportZoneID() {
			other = pickupID
		}
		if contains(s.AirportPremiumZoneIDs, other) {
			rate = s.AirportPremiumPerMile
		}
		charge := trip.DistanceMiles * rate
		return Breakdown{
			BaseFee:        s.AirportBaseFee,
			DistanceMiles:  trip.DistanceMiles,
			PerMileRate:    rate,
			DistanceCharge: charge,
			Subtotal:       s.AirportBaseFee + charge,
		}

	case CategoryLongDistance:
		return Breakdown{BaseFee: s.LongDistanceFlatFee, Subtotal: s.LongDistanceFlatFee}

	default: // cross-zone
		distanceCharge := trip.DistanceMiles * s.CrossZonePerMile
		timeCharge := trip.DurationMinutes * s.CrossZonePerMinute
		return Breakdown{
			BaseFee:        s.CrossZoneBaseFee,
			DistanceMiles:  trip.DistanceMiles,
			PerMileRate:    s.CrossZonePerMile,
			DistanceCharge: distanceCharge,
			PerMinuteRate:  s.CrossZonePerMinute,
			TimeCharge:     timeCharge,
			Subtotal:       s.CrossZoneBaseFee + distanceCharge + timeCharge,
		}
	}
}

// zoneRef builds the quote's zone reference. The airport zone is always
// labeled "Airport" on quotes regardless of its configured display name.
func (e *Engine) zoneRef(z *zones.Zone) ZoneRef {
	name := z.DisplayName
	if z.ID == e.registry.AirportZoneID() {
		name = "Airport"
	}
	return ZoneRef{
		ID:          z.ID,
		DisplayName: name,
		ParentID:    z.ParentZoneID,
	}
}
