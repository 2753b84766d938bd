package zones

import (
	"github.com/uber/h3-go/v4"

	"github.com/islaride/islaride-shared/geo"
)

// IndexResolution is the H3 resolution used for the candidate index.
// Resolution 8 hexagons (~0.46 km edge) are small enough that most cells map
// to one or two candidate zones on an island this size.
const IndexResolution = 8

// Index is an H3-backed prefilter over a registry. Lookups resolve the
// point's hexagon to a candidate zone set before running the polygon tests,
// skipping zones that cannot contain the point. Results are always identical
// to Registry.Detect: candidate sets are built with a one-ring buffer, and a
// cell miss falls back to the full registry scan.
type Index struct {
	registry   *Registry
	resolution int
	candidates map[h3.Cell]map[string]bool
}

// NewIndex builds the candidate index for a registry.
func NewIndex(r *Registry) *Index {
	ix := &Index{
		registry:   r,
		resolution: IndexResolution,
		candidates: make(map[h3.Cell]map[string]bool),
	}

	for _, z := range r.zones {
		loop := make(h3.GeoLoop, len(z.Boundary.Points))
		for i, pt := range z.Boundary.Points {
			loop[i] = h3.LatLng{Lat: pt.Lat, Lng: pt.Lng}
		}
		cells := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, ix.resolution)

		// Buffer by one ring: PolygonToCells keeps cells whose center is
		// inside the loop, so boundary-straddling cells need the ring to
		// avoid false negatives.
		seen := make(map[h3.Cell]bool)
		for _, c := range cells {
			for _, n := range h3.GridDisk(c, 1) {
				seen[n] = true
			}
		}
		for c := range seen {
			set, ok := ix.candidates[c]
			if !ok {
				set = make(map[string]bool)
				ix.candidates[c] = set
			}
			set[z.ID] = true
		}
	}

	return ix
}

// Detect resolves a coordinate to a zone using the candidate prefilter.
// Same contract as Registry.Detect.
func (ix *Index) Detect(p geo.Point) *Zone {
	if !ix.registry.serviceArea.Contains(p) {
		return nil
	}

	cell := h3.LatLngToCell(h3.LatLng{Lat: p.Lat, Lng: p.Lng}, ix.resolution)
	set, ok := ix.candidates[cell]
	if !ok {
		// Unindexed cell inside the service box. Rare; defer to the
		// authoritative scan.
		return ix.registry.Detect(p)
	}

	r := ix.registry

	if set[r.airportID] {
		airport := r.byID[r.airportID]
		if airport.Contains(p) {
			return airport
		}
	}

	for _, subZones := range []bool{true, false} {
		for _, z := range r.zones {
			if z.ID == r.airportID || z.ID == r.fallbackID {
				continue
			}
			if z.IsSubZone() != subZones || !set[z.ID] {
				continue
			}
			if z.Contains(p) {
				return z
			}
		}
	}

	if set[r.fallbackID] {
		fallback := r.byID[r.fallbackID]
		if fallback.Contains(p) {
			return fallback
		}
	}
	return nil
}
