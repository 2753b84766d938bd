package pricing

import (
	"fmt"
	"time"
)

// Category is the trip pricing category. Exactly one applies per quote.
type Category string

const (
	CategoryWithinZone   Category = "within_zone"
	CategorySubZone      Category = "sub_zone"
	CategoryCrossZone    Category = "cross_zone"
	CategoryAirport      Category = "airport"
	CategoryLongDistance Category = "long_distance"
)

// ZoneRef identifies a resolved zone on the quote without embedding the
// boundary geometry.
type ZoneRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ParentID    string `json:"parent_id,omitempty"`
}

// Breakdown itemizes the quote. Only the components that applied to the
// chosen category are populated; a sub-zone quote never shows a per-mile
// charge, a flat long-distance quote shows only its base fee.
type Breakdown struct {
	BaseFee        float64 `json:"base_fee"`
	SubZoneFee     float64 `json:"sub_zone_fee,omitempty"`
	DistanceMiles  float64 `json:"distance_miles,omitempty"`
	PerMileRate    float64 `json:"per_mile_rate,omitempty"`
	DistanceCharge float64 `json:"distance_charge,omitempty"`
	PerMinuteRate  float64 `json:"per_minute_rate,omitempty"`
	TimeCharge     float64 `json:"time_charge,omitempty"`
	ExtraStopFee   float64 `json:"extra_stop_fee,omitempty"`
	Subtotal       float64 `json:"subtotal"`
	Multiplier     float64 `json:"multiplier"`
	MultiplierName string  `json:"multiplier_name"`
}

// PricingResult is one complete quote.
type PricingResult struct {
	QuoteID      string    `json:"quote_id"`
	Category     Category  `json:"category"`
	PickupZone   ZoneRef   `json:"pickup_zone"`
	DropoffZone  ZoneRef   `json:"dropoff_zone"`
	Breakdown    Breakdown `json:"breakdown"`
	Suggested    float64   `json:"suggested_contribution"`
	Minimum      float64   `json:"minimum_contribution"`
	Maximum      float64   `json:"maximum_contribution"`
	Currency     string    `json:"currency"`
	RouteDisplay string    `json:"route_display"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// routeDisplay renders the human-readable route label shown in the booking
// flow, e.g. "West Bay → Airport".
func routeDisplay(pickup, dropoff ZoneRef) string {
	return fmt.Sprintf("%s → %s", pickup.DisplayName, dropoff.DisplayName)
}
