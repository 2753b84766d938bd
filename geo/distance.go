// Package geo provides the geospatial primitives used by zone detection and
// trip pricing: coordinates, great-circle distances, bounding boxes, and
// polygons.
package geo

import (
	"math"
)

const (
	// EarthRadiusKm is the Earth's radius in kilometers.
	EarthRadiusKm = 6371.0
	// EarthRadiusMiles is the Earth's radius in miles.
	EarthRadiusMiles = 3958.8
	// MetersPerKm converts kilometers to meters.
	MetersPerKm = 1000.0
	// KmToMiles converts kilometers to miles.
	KmToMiles = 0.621371
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewPoint creates a new Point.
func NewPoint(lat, lng float64) Point {
	return Point{Lat: lat, Lng: lng}
}

// IsValid checks that the point has finite, in-range coordinates.
func (p Point) IsValid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// HaversineDistance calculates the great-circle distance between two points
// using the Haversine formula. Returns distance in kilometers.
func HaversineDistance(p1, p2 Point) float64 {
	lat1 := degreesToRadians(p1.Lat)
	lat2 := degreesToRadians(p2.Lat)
	deltaLat := degreesToRadians(p2.Lat - p1.Lat)
	deltaLng := degreesToRadians(p2.Lng - p1.Lng)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// HaversineDistanceMeters returns distance in meters.
func HaversineDistanceMeters(p1, p2 Point) float64 {
	return HaversineDistance(p1, p2) * MetersPerKm
}

// HaversineDistanceMiles returns distance in miles.
func HaversineDistanceMiles(p1, p2 Point) float64 {
	return HaversineDistance(p1, p2) * KmToMiles
}

// TripDistanceMiles returns the great-circle distance in miles rounded to one
// decimal, the granularity the pricing engine works in. Routed road distance
// from the maps adapter is preferred when available; this is the fallback for
// straight-line estimates.
func TripDistanceMiles(p1, p2 Point) float64 {
	return math.Round(HaversineDistanceMiles(p1, p2)*10) / 10
}

// Midpoint calculates the geographic midpoint between two points. Used for
// centering route previews on the map, never for pricing decisions.
func Midpoint(p1, p2 Point) Point {
	lat1 := degreesToRadians(p1.Lat)
	lat2 := degreesToRadians(p2.Lat)
	lng1 := degreesToRadians(p1.Lng)
	deltaLng := degreesToRadians(p2.Lng - p1.Lng)

	bx := math.Cos(lat2) * math.Cos(deltaLng)
	by := math.Cos(lat2) * math.Sin(deltaLng)

	lat3 := math.Atan2(
		math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by),
	)
	lng3 := lng1 + math.Atan2(by, math.Cos(lat1)+bx)

	return Point{
		Lat: radiansToDegrees(lat3),
		Lng: radiansToDegrees(lng3),
	}
}

// BoundingBox is an axis-aligned lat/lng box.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Contains checks if a point is within the bounding box.
func (bb BoundingBox) Contains(p Point) bool {
	return p.Lat >= bb.MinLat && p.Lat <= bb.MaxLat &&
		p.Lng >= bb.MinLng && p.Lng <= bb.MaxLng
}

// Center returns the center point of the bounding box.
func (bb BoundingBox) Center() Point {
	return Point{
		Lat: (bb.MinLat + bb.MaxLat) / 2,
		Lng: (bb.MinLng + bb.MaxLng) / 2,
	}
}

// Expand grows the box by the given margin in degrees on every side.
func (bb BoundingBox) Expand(margin float64) BoundingBox {
	return BoundingBox{
		MinLat: bb.MinLat - margin,
		MaxLat: bb.MaxLat + margin,
		MinLng: bb.MinLng - margin,
		MaxLng: bb.MaxLng + margin,
	}
}

// BoundingBoxFromPoint creates a bounding box around a point with a given
// radius in kilometers.
func BoundingBoxFromPoint(center Point, radiusKm float64) BoundingBox {
	// Approximate degrees per km at different latitudes
	latDelta := radiusKm / 111.0 // ~111 km per degree of latitude
	lngDelta := radiusKm / (111.0 * math.Cos(degreesToRadians(center.Lat)))

	return BoundingBox{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLng: center.Lng - lngDelta,
		MaxLng: center.Lng + lngDelta,
	}
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func radiansToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
