package geo

import (
	"strings"
)

const (
	base32              = "0123456789bcdefghjkmnpqrstuvwxyz"
	maxGeohashPrecision = 12
	bitsPerChar         = 5
)

// Geohash precision to approximate cell dimensions:
// Precision 5: ~4.9km x 4.9km
// Precision 6: ~1.2km x 0.6km
// Precision 7: ~153m x 153m
// Precision 8: ~38m x 19m
//
// The maps adapter keys route-cache entries on precision-7 geohash pairs, so
// pickup points within the same ~150m cell share a cached route.

// CacheKeyPrecision is the geohash precision used for route cache keys.
const CacheKeyPrecision = 7

// Encode encodes a point to a geohash with the specified precision.
func Encode(p Point, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > maxGeohashPrecision {
		precision = maxGeohashPrecision
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	var hash strings.Builder
	hash.Grow(precision)

	bit := 0
	ch := 0
	isLng := true

	for hash.Len() < precision {
		if isLng {
			mid := (minLng + maxLng) / 2
			if p.Lng >= mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if p.Lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}

		isLng = !isLng
		bit++

		if bit == bitsPerChar {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String()
}

// Decode decodes a geohash to a point (center of the cell).
func Decode(hash string) Point {
	return DecodeBounds(hash).Center()
}

// DecodeBounds decodes a geohash to its bounding box.
func DecodeBounds(hash string) BoundingBox {
	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	isLng := true

	for _, c := range strings.ToLower(hash) {
		idx := strings.IndexRune(base32, c)
		if idx == -1 {
			continue
		}

		for bit := 4; bit >= 0; bit-- {
			if isLng {
				mid := (minLng + maxLng) / 2
				if (idx>>bit)&1 == 1 {
					minLng = mid
				} else {
					maxLng = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if (idx>>bit)&1 == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isLng = !isLng
		}
	}

	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLng: minLng,
		MaxLng: maxLng,
	}
}
