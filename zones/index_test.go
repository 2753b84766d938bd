package zones

import (
	"testing"

	"github.com/islaride/islaride-shared/geo"
)

func TestIndex_AgreesWithDetect(t *testing.T) {
	r := DefaultIslandRegistry()
	ix := NewIndex(r)

	for _, tt := range islandPoints {
		t.Run(tt.name, func(t *testing.T) {
			want := r.Detect(tt.point)
			got := ix.Detect(tt.point)

			if (got == nil) != (want == nil) {
				t.Fatalf("Index.Detect(%v) = %v, Registry.Detect = %v", tt.point, got, want)
			}
			if got != nil && got.ID != want.ID {
				t.Errorf("Index.Detect(%v) = %s, Registry.Detect = %s", tt.point, got.ID, want.ID)
			}
		})
	}
}

func TestIndex_AgreesOnGridSample(t *testing.T) {
	r := DefaultIslandRegistry()
	ix := NewIndex(r)

	bb := r.ServiceArea().Expand(0.02)
	latStep := (bb.MaxLat - bb.MinLat) / 40
	lngStep := (bb.MaxLng - bb.MinLng) / 40

	for lat := bb.MinLat; lat < bb.MaxLat; lat += latStep {
		for lng := bb.MinLng; lng < bb.MaxLng; lng += lngStep {
			p := geo.Point{Lat: lat, Lng: lng}
			want := r.Detect(p)
			got := ix.Detect(p)

			wantID, gotID := "", ""
			if want != nil {
				wantID = want.ID
			}
			if got != nil {
				gotID = got.ID
			}
			if wantID != gotID {
				t.Errorf("disagreement at %v: index %q, registry %q", p, gotID, wantID)
			}
		}
	}
}

func TestIndex_OutsideServiceArea(t *testing.T) {
	ix := NewIndex(DefaultIslandRegistry())

	if z := ix.Detect(geo.Point{Lat: 20.0, Lng: -80.0}); z != nil {
		t.Errorf("Detect(mid ocean) = %s, want nil", z.ID)
	}
}
