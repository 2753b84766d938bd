// Package pricing classifies trips by their pickup/dropoff zones and computes
// the suggested cost-sharing contribution. The engine is a pure function of
// the trip details, the zone registry, and the fee schedule; it performs no
// I/O and is safe for concurrent use.
package pricing

import (
	"fmt"

	"github.com/islaride/islaride-shared/zones"
)

// FeeSchedule is the versionable pricing policy: every tunable constant the
// engine uses lives here, so rates can change without touching the
// classification logic.
type FeeSchedule struct {
	Currency string `json:"currency"`

	// Within-zone trips: a four-way flat-fee table over two conditions,
	// short trip (duration at or under ShortTripMaxMinutes) and extra stop.
	// A short trip with a stop costs exactly WithinZoneWithStopFee; only
	// longer trips with a stop also pay ExtraStopFee on top.
	ShortTripMaxMinutes   float64 `json:"short_trip_max_minutes"`
	WithinZoneShortFee    float64 `json:"within_zone_short_fee"`
	WithinZoneWithStopFee float64 `json:"within_zone_with_stop_fee"`
	ExtraStopFee          float64 `json:"extra_stop_fee"`

	// Sub-zone trips: flat, no distance component.
	SubZoneBaseFee float64 `json:"sub_zone_base_fee"`
	SubZoneFee     float64 `json:"sub_zone_fee"`

	// Cross-zone trips. The per-minute rate is zero in the current policy
	// and kept only so older stored schedules still parse.
	CrossZoneBaseFee   float64 `json:"cross_zone_base_fee"`
	CrossZonePerMile   float64 `json:"cross_zone_per_mile"`
	CrossZonePerMinute float64 `json:"cross_zone_per_minute"`

	// Airport trips: two-tier per-mile rate. The premium rate applies when
	// the non-airport endpoint is in AirportPremiumZoneIDs.
	AirportBaseFee        float64  `json:"airport_base_fee"`
	AirportPerMile        float64  `json:"airport_per_mile"`
	AirportPremiumPerMile float64  `json:"airport_premium_per_mile"`
	AirportPremiumZoneIDs []string `json:"airport_premium_zone_ids"`

	// Long-distance trips between the far west and far east of the island:
	// one flat price, checked before every other category. Cluster
	// membership is by explicit zone ID enumeration.
	LongDistanceFlatFee   float64  `json:"long_distance_flat_fee"`
	WesternClusterZoneIDs []string `json:"western_cluster_zone_ids"`
	EasternClusterZoneIDs []string `json:"eastern_cluster_zone_ids"`

	// Time-of-day multipliers, by local hour. The late-night window wraps
	// midnight: [start, 24) ∪ [0, end). The early-morning window does not
	// wrap: [start, end).
	LateNightStartHour     int     `json:"late_night_start_hour"`
	LateNightEndHour       int     `json:"late_night_end_hour"`
	LateNightMultiplier    float64 `json:"late_night_multiplier"`
	EarlyMorningStartHour  int     `json:"early_morning_start_hour"`
	EarlyMorningEndHour    int     `json:"early_morning_end_hour"`
	EarlyMorningMultiplier float64 `json:"early_morning_multiplier"`

	// Suggested-contribution bands. Within-zone and sub-zone quotes get the
	// narrow band, cross-zone and airport the wide one; long-distance is a
	// fixed price with no band at all.
	NarrowBandPct float64 `json:"narrow_band_pct"`
	WideBandPct   float64 `json:"wide_band_pct"`
}

// DefaultFeeSchedule returns the current production pricing policy for the
// default island layout. Amounts are in US dollars.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		Currency: "USD",

		ShortTripMaxMinutes:   3,
		WithinZoneShortFee:    6,
		WithinZoneWithStopFee: 10,
		ExtraStopFee:          3,

		SubZoneBaseFee: 6,
		SubZoneFee:     2,

		CrossZoneBaseFee:   8,
		CrossZonePerMile:   1.50,
		CrossZonePerMinute: 0,

		AirportBaseFee:        10,
		AirportPerMile:        2.00,
		AirportPremiumPerMile: 2.75,
		AirportPremiumZoneIDs: []string{
			zones.CoxenHoleID,
			zones.FrenchHbrID,
			"zone_5a",
		},

		LongDistanceFlatFee: 35,
		WesternClusterZoneIDs: []string{
			zones.WestBayZoneID,
			"zone_1a",
			zones.WestEndZoneID,
		},
		EasternClusterZoneIDs: []string{
			zones.OakRidgeID,
			zones.EastEndZoneID,
		},

		LateNightStartHour:     22,
		LateNightEndHour:       6,
		LateNightMultiplier:    1.25,
		EarlyMorningStartHour:  6,
		EarlyMorningEndHour:    8,
		EarlyMorningMultiplier: 1.10,

		NarrowBandPct: 0.05,
		WideBandPct:   0.08,
	}
}

// Validate checks the schedule's internal consistency and that every zone ID
// it references exists in the registry. Cluster and premium lists are
// maintained by hand in parallel with the zone layout; this is the guard
// against the two drifting apart.
func (s FeeSchedule) Validate(r *zones.Registry) error {
	if s.Currency == "" {
		return fmt.Errorf("pricing: schedule currency is empty")
	}
	if s.WithinZoneWithStopFee <= s.WithinZoneShortFee {
		return fmt.Errorf("pricing: with-stop fee %.2f must exceed short-trip fee %.2f",
			s.WithinZoneWithStopFee, s.WithinZoneShortFee)
	}
	if s.AirportPremiumPerMile < s.AirportPerMile {
		return fmt.Errorf("pricing: airport premium per-mile %.2f below standard %.2f",
			s.AirportPremiumPerMile, s.AirportPerMile)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"short_trip_max_minutes", s.ShortTripMaxMinutes},
		{"within_zone_short_fee", s.WithinZoneShortFee},
		{"extra_stop_fee", s.ExtraStopFee},
		{"sub_zone_base_fee", s.SubZoneBaseFee},
		{"sub_zone_fee", s.SubZoneFee},
		{"cross_zone_base_fee", s.CrossZoneBaseFee},
		{"cross_zone_per_mile", s.CrossZonePerMile},
		{"cross_zone_per_minute", s.CrossZonePerMinute},
		{"airport_base_fee", s.AirportBaseFee},
		{"long_distance_flat_fee", s.LongDistanceFlatFee},
		{"narrow_band_pct", s.NarrowBandPct},
		{"wide_band_pct", s.WideBandPct},
	} {
		if v.val < 0 {
			return fmt.Errorf("pricing: %s must be non-negative, got %f", v.name, v.val)
		}
	}
	for _, m := range []struct {
		name string
		val  float64
	}{
		{"late_night_multiplier", s.LateNightMultiplier},
		{"early_morning_multiplier", s.EarlyMorningMultiplier},
	} {
		if m.val < 1 {
			return fmt.Errorf("pricing: %s must be at least 1.0, got %f", m.name, m.val)
		}
	}
	for _, h := range []struct {
		name string
		val  int
	}{
		{"late_night_start_hour", s.LateNightStartHour},
		{"late_night_end_hour", s.LateNightEndHour},
		{"early_morning_start_hour", s.EarlyMorningStartHour},
		{"early_morning_end_hour", s.EarlyMorningEndHour},
	} {
		if h.val < 0 || h.val > 23 {
			return fmt.Errorf("pricing: %s out of range: %d", h.name, h.val)
		}
	}
	if s.EarlyMorningStartHour > s.EarlyMorningEndHour {
		return fmt.Errorf("pricing: early-morning window must not wrap midnight")
	}

	if r != nil {
		for _, list := range []struct {
			name string
			ids  []string
		}{
			{"airport_premium_zone_ids", s.AirportPremiumZoneIDs},
			{"western_cluster_zone_ids", s.WesternClusterZoneIDs},
			{"eastern_cluster_zone_ids", s.EasternClusterZoneIDs},
		} {
			for _, id := range list.ids {
				if _, ok := r.Zone(id); !ok {
					return fmt.Errorf("pricing: %s references unknown zone %q", list.name, id)
				}
			}
		}
		for _, id := range s.WesternClusterZoneIDs {
			for _, other := range s.EasternClusterZoneIDs {
				if id == other {
					return fmt.Errorf("pricing: zone %q in both long-distance clusters", id)
				}
			}
		}
	}

	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
