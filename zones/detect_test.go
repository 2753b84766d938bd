package zones

import (
	"testing"

	"github.com/islaride/islaride-shared/geo"
)

// Interior points for each default zone, kept away from boundary edges
// (point-on-edge classification under ray casting is precision-sensitive and
// deliberately untested).
var islandPoints = []struct {
	name   string
	point  geo.Point
	zoneID string
}{
	{"airport terminal", geo.Point{Lat: 16.317, Lng: -86.522}, AirportZoneID},
	{"west bay hillside", geo.Point{Lat: 16.285, Lng: -86.600}, WestBayZoneID},
	{"west bay beach", geo.Point{Lat: 16.273, Lng: -86.605}, "zone_1a"},
	{"west end village", geo.Point{Lat: 16.300, Lng: -86.599}, WestEndZoneID},
	{"sandy bay", geo.Point{Lat: 16.320, Lng: -86.570}, SandyBayZoneID},
	{"lawson rock", geo.Point{Lat: 16.310, Lng: -86.562}, "zone_3a"},
	{"coxen hole dock", geo.Point{Lat: 16.305, Lng: -86.540}, CoxenHoleID},
	{"french harbour", geo.Point{Lat: 16.350, Lng: -86.440}, FrenchHbrID},
	{"parrot tree", geo.Point{Lat: 16.340, Lng: -86.422}, "zone_5a"},
	{"oak ridge", geo.Point{Lat: 16.400, Lng: -86.350}, OakRidgeID},
	{"camp bay", geo.Point{Lat: 16.410, Lng: -86.300}, EastEndZoneID},
	{"brick bay gap", geo.Point{Lat: 16.340, Lng: -86.490}, IslandZoneID},
}

func TestDetect_DefaultIsland(t *testing.T) {
	r := DefaultIslandRegistry()

	for _, tt := range islandPoints {
		t.Run(tt.name, func(t *testing.T) {
			z := r.Detect(tt.point)
			if z == nil {
				t.Fatalf("Detect(%v) = nil, want %s", tt.point, tt.zoneID)
			}
			if z.ID != tt.zoneID {
				t.Errorf("Detect(%v) = %s, want %s", tt.point, z.ID, tt.zoneID)
			}
		})
	}
}

func TestDetect_AirportBeatsOverlap(t *testing.T) {
	r := DefaultIslandRegistry()

	// The airfield ring sits inside the Coxen Hole ring; the airport must
	// win regardless.
	p := geo.Point{Lat: 16.316, Lng: -86.525}
	coxen, _ := r.Zone(CoxenHoleID)
	if !coxen.Contains(p) {
		t.Fatal("fixture point should be inside the Coxen Hole ring too")
	}

	z := r.Detect(p)
	if z == nil || z.ID != AirportZoneID {
		t.Errorf("Detect() = %v, want airport despite overlap", z)
	}
}

func TestDetect_SubZoneBeatsParent(t *testing.T) {
	r := DefaultIslandRegistry()

	p := geo.Point{Lat: 16.273, Lng: -86.605}
	parent, _ := r.Zone(WestBayZoneID)
	if !parent.Contains(p) {
		t.Fatal("fixture point should be inside the parent zone too")
	}

	z := r.Detect(p)
	if z == nil || z.ID != "zone_1a" {
		t.Errorf("Detect() = %v, want sub-zone zone_1a over its parent", z)
	}
}

func TestDetect_OutsideServiceArea(t *testing.T) {
	r := DefaultIslandRegistry()

	for _, p := range []geo.Point{
		{Lat: 16.10, Lng: -86.50}, // south of the island
		{Lat: 20.0, Lng: -80.0},   // mid ocean
		{Lat: -33.9, Lng: 151.2},  // wrong hemisphere
	} {
		if z := r.Detect(p); z != nil {
			t.Errorf("Detect(%v) = %s, want nil", p, z.ID)
		}
	}
}

func TestDetect_FallbackCoverage(t *testing.T) {
	r := DefaultIslandRegistry()
	fallback, _ := r.Zone(IslandZoneID)

	// Every point inside the island ring resolves to some zone, never nil.
	bb := fallback.Boundary.BoundingBox()
	latStep := (bb.MaxLat - bb.MinLat) / 20
	lngStep := (bb.MaxLng - bb.MinLng) / 20

	for lat := bb.MinLat + latStep/3; lat < bb.MaxLat; lat += latStep {
		for lng := bb.MinLng + lngStep/3; lng < bb.MaxLng; lng += lngStep {
			p := geo.Point{Lat: lat, Lng: lng}
			if !fallback.Contains(p) {
				continue
			}
			if z := r.Detect(p); z == nil {
				t.Errorf("Detect(%v) = nil inside island boundary", p)
			}
		}
	}
}

func TestDetect_Deterministic(t *testing.T) {
	r := DefaultIslandRegistry()

	for _, tt := range islandPoints {
		first := r.Detect(tt.point)
		for i := 0; i < 3; i++ {
			if again := r.Detect(tt.point); again != first {
				t.Errorf("%s: Detect not deterministic: %v then %v", tt.name, first, again)
			}
		}
	}
}

func TestDetectWithTrace(t *testing.T) {
	r := DefaultIslandRegistry()

	var stages []string
	var matchedID string
	trace := func(stage string, matched *Zone, _ geo.Point) {
		stages = append(stages, stage)
		if matched != nil {
			matchedID = matched.ID
		}
	}

	// Main-zone match: the hook must have seen airport and sub-zone stages
	// pass first, in order.
	z := r.DetectWithTrace(geo.Point{Lat: 16.305, Lng: -86.540}, trace)
	if z == nil || z.ID != CoxenHoleID {
		t.Fatalf("DetectWithTrace() = %v, want %s", z, CoxenHoleID)
	}
	want := []string{StageAirport, StageSubZones, StageMain}
	if len(stages) != len(want) {
		t.Fatalf("trace stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage[%d] = %s, want %s", i, stages[i], want[i])
		}
	}
	if matchedID != CoxenHoleID {
		t.Errorf("trace matched %s, want %s", matchedID, CoxenHoleID)
	}

	// The hook must not change the result.
	if plain := r.Detect(geo.Point{Lat: 16.305, Lng: -86.540}); plain.ID != z.ID {
		t.Errorf("trace hook changed the result: %s vs %s", plain.ID, z.ID)
	}
}

func TestInServiceArea(t *testing.T) {
	r := DefaultIslandRegistry()

	if !r.InServiceArea(geo.Point{Lat: 16.317, Lng: -86.522}) {
		t.Error("airport should be in the service area box")
	}
	if r.InServiceArea(geo.Point{Lat: 20.0, Lng: -80.0}) {
		t.Error("mid ocean should not be in the service area box")
	}
}
