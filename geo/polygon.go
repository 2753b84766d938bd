package geo

import (
	"encoding/json"
	"fmt"
)

// Polygon represents a geographic polygon. The vertex list is treated as an
// implicitly closed loop: the last vertex connects back to the first whether
// or not it is repeated.
type Polygon struct {
	Points []Point `json:"points"`
}

// NewPolygon creates a new polygon from points.
func NewPolygon(points []Point) *Polygon {
	return &Polygon{Points: points}
}

// PolygonFromRing creates a polygon from a GIS-convention ring of
// [longitude, latitude] pairs, the shape zone boundaries use in
// configuration documents. A repeated closing vertex is dropped.
func PolygonFromRing(ring [][2]float64) *Polygon {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	points := make([]Point, len(ring))
	for i, v := range ring {
		points[i] = Point{Lat: v[1], Lng: v[0]}
	}
	return &Polygon{Points: points}
}

// Contains checks if a point is inside the polygon using the ray casting
// algorithm: count crossings of a horizontal ray from the test point; an odd
// count means inside.
//
// Points lying exactly on an edge may classify either way due to
// floating-point comparison. This is a known precision limitation of ray
// casting and is intentionally not special-cased; zone boundaries are drawn
// over water or uninhabited terrain where it does not matter in practice.
func (p *Polygon) Contains(point Point) bool {
	if len(p.Points) < 3 {
		return false
	}

	inside := false
	n := len(p.Points)

	j := n - 1
	for i := 0; i < n; i++ {
		pi := p.Points[i]
		pj := p.Points[j]

		if ((pi.Lat > point.Lat) != (pj.Lat > point.Lat)) &&
			(point.Lng < (pj.Lng-pi.Lng)*(point.Lat-pi.Lat)/(pj.Lat-pi.Lat)+pi.Lng) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// BoundingBox returns the bounding box of the polygon.
func (p *Polygon) BoundingBox() BoundingBox {
	if len(p.Points) == 0 {
		return BoundingBox{}
	}

	minLat, maxLat := p.Points[0].Lat, p.Points[0].Lat
	minLng, maxLng := p.Points[0].Lng, p.Points[0].Lng

	for _, pt := range p.Points[1:] {
		if pt.Lat < minLat {
			minLat = pt.Lat
		}
		if pt.Lat > maxLat {
			maxLat = pt.Lat
		}
		if pt.Lng < minLng {
			minLng = pt.Lng
		}
		if pt.Lng > maxLng {
			maxLng = pt.Lng
		}
	}

	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLng: minLng,
		MaxLng: maxLng,
	}
}

// Centroid calculates the arithmetic mean of the vertices. Suitable for
// placing zone labels on the map; not used in any pricing decision.
func (p *Polygon) Centroid() Point {
	if len(p.Points) == 0 {
		return Point{}
	}

	var sumLat, sumLng float64
	for _, pt := range p.Points {
		sumLat += pt.Lat
		sumLng += pt.Lng
	}

	n := float64(len(p.Points))
	return Point{
		Lat: sumLat / n,
		Lng: sumLng / n,
	}
}

// Validate checks that the polygon has at least 3 vertices, all with finite,
// in-range coordinates.
func (p *Polygon) Validate() error {
	if len(p.Points) < 3 {
		return fmt.Errorf("polygon needs at least 3 vertices, got %d", len(p.Points))
	}
	for i, pt := range p.Points {
		if !pt.IsValid() {
			return fmt.Errorf("polygon vertex %d is invalid: (%f, %f)", i, pt.Lat, pt.Lng)
		}
	}
	return nil
}

// Ring returns the polygon as a closed GIS-convention ring of
// [longitude, latitude] pairs, the inverse of PolygonFromRing.
func (p *Polygon) Ring() [][2]float64 {
	ring := make([][2]float64, 0, len(p.Points)+1)
	for _, pt := range p.Points {
		ring = append(ring, [2]float64{pt.Lng, pt.Lat})
	}
	if len(p.Points) > 0 {
		ring = append(ring, [2]float64{p.Points[0].Lng, p.Points[0].Lat})
	}
	return ring
}

// ToJSON serializes the polygon to JSON.
func (p *Polygon) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}

// PolygonFromJSON deserializes a polygon from JSON.
func PolygonFromJSON(data []byte) (*Polygon, error) {
	var p Polygon
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
