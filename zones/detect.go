package zones

import (
	"github.com/islaride/islaride-shared/geo"
)

// Detection stages, in the order they run.
const (
	StageAirport  = "airport"
	StageSubZones = "sub_zones"
	StageMain     = "main_zones"
	StageFallback = "fallback"
)

// TraceFunc observes zone detection without participating in it. It is
// called once per stage with the zone that matched, or nil when the stage
// produced no match. Detection logic never depends on the hook.
type TraceFunc func(stage string, matched *Zone, point geo.Point)

// Detect resolves a coordinate to the most specific enclosing zone, or nil
// when the point is outside the service area entirely.
//
// Priority order, stopping at the first match:
//  1. the airport zone
//  2. sub-zones, in registry order
//  3. main zones (excluding the fallback), in registry order
//  4. the island-wide fallback zone
func (r *Registry) Detect(p geo.Point) *Zone {
	return r.DetectWithTrace(p, nil)
}

// DetectWithTrace is Detect with an optional observability hook.
func (r *Registry) DetectWithTrace(p geo.Point, trace TraceFunc) *Zone {
	if !r.serviceArea.Contains(p) {
		if trace != nil {
			trace(StageFallback, nil, p)
		}
		return nil
	}

	// Airport first: trips touching the airport always get specialized
	// pricing, regardless of which other zones also contain the point.
	airport := r.byID[r.airportID]
	if airport.Contains(p) {
		if trace != nil {
			trace(StageAirport, airport, p)
		}
		return airport
	}
	if trace != nil {
		trace(StageAirport, nil, p)
	}

	// Sub-zones before their parents: smaller, more specific regions win.
	if z := r.detectAmong(p, true); z != nil {
		if trace != nil {
			trace(StageSubZones, z, p)
		}
		return z
	}
	if trace != nil {
		trace(StageSubZones, nil, p)
	}

	if z := r.detectAmong(p, false); z != nil {
		if trace != nil {
			trace(StageMain, z, p)
		}
		return z
	}
	if trace != nil {
		trace(StageMain, nil, p)
	}

	// Catch-all: anything inside the island boundary resolves to the
	// fallback zone rather than nil.
	fallback := r.byID[r.fallbackID]
	if fallback.Contains(p) {
		if trace != nil {
			trace(StageFallback, fallback, p)
		}
		return fallback
	}
	if trace != nil {
		trace(StageFallback, nil, p)
	}
	return nil
}

// detectAmong scans zones in registry order, restricted to sub-zones or main
// zones. The airport and fallback zones are never part of either scan.
func (r *Registry) detectAmong(p geo.Point, subZones bool) *Zone {
	for _, z := range r.zones {
		if z.ID == r.airportID || z.ID == r.fallbackID {
			continue
		}
		if z.IsSubZone() != subZones {
			continue
		}
		if z.Contains(p) {
			return z
		}
	}
	return nil
}
