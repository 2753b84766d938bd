// Package zones holds the island's pricing-zone registry and resolves
// coordinates to zones. The registry is immutable static configuration built
// once at startup; detection is pure and safe for concurrent use.
package zones

import (
	"encoding/json"
	"fmt"

	"github.com/islaride/islaride-shared/geo"
)

// Zone is a named polygonal region used to classify trip pricing.
type Zone struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	Boundary     *geo.Polygon `json:"boundary"`
	ParentZoneID string       `json:"parent_zone_id,omitempty"`
}

// IsSubZone reports whether the zone belongs to a parent zone's family.
func (z *Zone) IsSubZone() bool {
	return z.ParentZoneID != ""
}

// Contains checks if a point is within the zone boundary.
func (z *Zone) Contains(p geo.Point) bool {
	if z.Boundary == nil {
		return false
	}
	return z.Boundary.Contains(p)
}

// Center returns the zone's label point for map display.
func (z *Zone) Center() geo.Point {
	if z.Boundary == nil {
		return geo.Point{}
	}
	return z.Boundary.Centroid()
}

// Registry is the immutable set of zones for one service area, with the
// airport and island-wide fallback designations. Zone order is preserved:
// detection checks sub-zones and main zones in registry order.
type Registry struct {
	zones       []*Zone
	byID        map[string]*Zone
	airportID   string
	fallbackID  string
	serviceArea geo.BoundingBox
}

// NewRegistry builds and validates a registry. The airport and fallback IDs
// must name zones in the list; sub-zone parents must reference main zones.
func NewRegistry(zones []*Zone, airportID, fallbackID string) (*Registry, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("zones: registry needs at least one zone")
	}

	byID := make(map[string]*Zone, len(zones))
	for _, z := range zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zones: zone with empty id")
		}
		if _, dup := byID[z.ID]; dup {
			return nil, fmt.Errorf("zones: duplicate zone id %q", z.ID)
		}
		if z.Boundary == nil {
			return nil, fmt.Errorf("zones: zone %q has no boundary", z.ID)
		}
		if err := z.Boundary.Validate(); err != nil {
			return nil, fmt.Errorf("zones: zone %q boundary: %w", z.ID, err)
		}
		byID[z.ID] = z
	}

	for _, z := range zones {
		if z.ParentZoneID == "" {
			continue
		}
		parent, ok := byID[z.ParentZoneID]
		if !ok {
			return nil, fmt.Errorf("zones: zone %q references unknown parent %q", z.ID, z.ParentZoneID)
		}
		// Parent chains are kept flat: a sub-zone's parent must be a main zone.
		if parent.IsSubZone() {
			return nil, fmt.Errorf("zones: zone %q parent %q is itself a sub-zone", z.ID, z.ParentZoneID)
		}
	}

	_, ok := byID[airportID]
	if !ok {
		return nil, fmt.Errorf("zones: airport zone %q not in registry", airportID)
	}
	fallback, ok := byID[fallbackID]
	if !ok {
		return nil, fmt.Errorf("zones: fallback zone %q not in registry", fallbackID)
	}
	if fallback.IsSubZone() {
		return nil, fmt.Errorf("zones: fallback zone %q must be a main zone", fallbackID)
	}
	if airportID == fallbackID {
		return nil, fmt.Errorf("zones: airport and fallback cannot both be %q", airportID)
	}

	area := zones[0].Boundary.BoundingBox()
	for _, z := range zones[1:] {
		bb := z.Boundary.BoundingBox()
		if bb.MinLat < area.MinLat {
			area.MinLat = bb.MinLat
		}
		if bb.MaxLat > area.MaxLat {
			area.MaxLat = bb.MaxLat
		}
		if bb.MinLng < area.MinLng {
			area.MinLng = bb.MinLng
		}
		if bb.MaxLng > area.MaxLng {
			area.MaxLng = bb.MaxLng
		}
	}

	return &Registry{
		zones:       zones,
		byID:        byID,
		airportID:   airportID,
		fallbackID:  fallbackID,
		serviceArea: area,
	}, nil
}

// Zone looks up a zone by ID.
func (r *Registry) Zone(id string) (*Zone, bool) {
	z, ok := r.byID[id]
	return z, ok
}

// Zones returns the zones in registry order.
func (r *Registry) Zones() []*Zone {
	out := make([]*Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Len returns the number of registered zones.
func (r *Registry) Len() int {
	return len(r.zones)
}

// AirportZoneID returns the designated airport zone ID.
func (r *Registry) AirportZoneID() string {
	return r.airportID
}

// FallbackZoneID returns the island-wide fallback zone ID.
func (r *Registry) FallbackZoneID() string {
	return r.fallbackID
}

// ServiceArea returns the bounding box of all zone boundaries, used for a
// cheap reject before any polygon test.
func (r *Registry) ServiceArea() geo.BoundingBox {
	return r.serviceArea
}

// InServiceArea reports whether the point is within the overall service
// bounding box. A true result does not guarantee zone membership.
func (r *Registry) InServiceArea(p geo.Point) bool {
	return r.serviceArea.Contains(p)
}

// ParentID resolves a zone's family root: the parent for sub-zones, the zone
// itself for main zones. Resolution is idempotent. Unknown IDs resolve to
// themselves.
func (r *Registry) ParentID(zoneID string) string {
	z, ok := r.byID[zoneID]
	if !ok || z.ParentZoneID == "" {
		return zoneID
	}
	return z.ParentZoneID
}

// Related reports whether two zones belong to the same zone family: their
// resolved parents match, or one zone's resolved parent is the other zone
// itself (a main zone and its own sub-zone).
func (r *Registry) Related(aID, bID string) bool {
	pa := r.ParentID(aID)
	pb := r.ParentID(bID)
	return pa == pb || pa == bID || pb == aID
}

// Config is the versionable zone configuration document. Boundaries are
// GIS-convention rings of [longitude, latitude] pairs.
type Config struct {
	Version        string       `json:"version"`
	AirportZoneID  string       `json:"airport_zone_id"`
	FallbackZoneID string       `json:"fallback_zone_id"`
	Zones          []ZoneConfig `json:"zones"`
}

// ZoneConfig is one zone entry in the configuration document.
type ZoneConfig struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	ParentZoneID string       `json:"parent_zone_id,omitempty"`
	Boundary     [][2]float64 `json:"boundary"`
}

// ParseConfig decodes a zone configuration document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("zones: parse config: %w", err)
	}
	return &cfg, nil
}

// FromConfig builds a registry from a configuration document.
func FromConfig(cfg *Config) (*Registry, error) {
	zs := make([]*Zone, len(cfg.Zones))
	for i, zc := range cfg.Zones {
		zs[i] = &Zone{
			ID:           zc.ID,
			DisplayName:  zc.DisplayName,
			Boundary:     geo.PolygonFromRing(zc.Boundary),
			ParentZoneID: zc.ParentZoneID,
		}
	}
	return NewRegistry(zs, cfg.AirportZoneID, cfg.FallbackZoneID)
}
