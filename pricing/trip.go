package pricing

import (
	"math"
	"time"

	"github.com/islaride/islaride-shared/errors"
	"github.com/islaride/islaride-shared/geo"
	"github.com/islaride/islaride-shared/validation"
)

// TripDetails is the engine's input: the trip endpoints plus the route
// metrics the routing layer already computed. RequestedAt is the local trip
// time used for time-of-day multipliers; nil quotes at the standard 1.0
// multiplier. ExtraStop marks a single intermediate stop on the route.
type TripDetails struct {
	PickupLat       float64    `json:"pickup_lat" validate:"latitude"`
	PickupLng       float64    `json:"pickup_lng" validate:"longitude"`
	DropoffLat      float64    `json:"dropoff_lat" validate:"latitude"`
	DropoffLng      float64    `json:"dropoff_lng" validate:"longitude"`
	DistanceMiles   float64    `json:"distance_miles" validate:"gte=0"`
	DurationMinutes float64    `json:"duration_minutes" validate:"gte=0"`
	RequestedAt     *time.Time `json:"requested_at,omitempty"`
	ExtraStop       bool       `json:"extra_stop"`
}

// Pickup returns the pickup coordinate.
func (t TripDetails) Pickup() geo.Point {
	return geo.Point{Lat: t.PickupLat, Lng: t.PickupLng}
}

// Dropoff returns the dropoff coordinate.
func (t TripDetails) Dropoff() geo.Point {
	return geo.Point{Lat: t.DropoffLat, Lng: t.DropoffLng}
}

// Validate rejects trip details that cannot be priced. The validator tags
// cover ranges; NaN and infinity need explicit checks because they slip
// through numeric comparisons.
func (t TripDetails) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"pickup_lat", t.PickupLat},
		{"pickup_lng", t.PickupLng},
		{"dropoff_lat", t.DropoffLat},
		{"dropoff_lng", t.DropoffLng},
		{"distance_miles", t.DistanceMiles},
		{"duration_minutes", t.DurationMinutes},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return errors.InvalidTrip(v.name + " must be a finite number")
		}
	}

	if err := validation.Validate(t); err != nil {
		ve := validation.ParseValidationErrors(err)
		details := make(map[string]string, len(ve))
		for _, e := range ve {
			details[e.Field] = e.Message
		}
		return errors.InvalidTrip("trip details failed validation").WithDetails(details)
	}

	return nil
}
