package testing

import (
	"github.com/islaride/islaride-shared/geo"
)

// Well-known island locations for tests. Each point falls inside the named
// zone of the default layout and outside any of its sub-zones unless the
// name says otherwise.
var (
	// WestBay is in zone_1, outside the West Bay Beach sub-zone.
	WestBay = geo.Point{Lat: 16.286, Lng: -86.615}

	// WestBayBeach is in the zone_1a sub-zone.
	WestBayBeach = geo.Point{Lat: 16.274, Lng: -86.605}

	// WestEnd is in zone_2.
	WestEnd = geo.Point{Lat: 16.300, Lng: -86.600}

	// SandyBay is in zone_3, outside the Lawson Rock sub-zone.
	SandyBay = geo.Point{Lat: 16.322, Lng: -86.572}

	// LawsonRock is in the zone_3a sub-zone.
	LawsonRock = geo.Point{Lat: 16.310, Lng: -86.562}

	// CoxenHole is in zone_4.
	CoxenHole = geo.Point{Lat: 16.305, Lng: -86.538}

	// Airport is in zone_airport.
	Airport = geo.Point{Lat: 16.317, Lng: -86.522}

	// FrenchHarbour is in zone_5, outside the Parrot Tree sub-zone.
	FrenchHarbour = geo.Point{Lat: 16.355, Lng: -86.450}

	// ParrotTree is in the zone_5a sub-zone.
	ParrotTree = geo.Point{Lat: 16.342, Lng: -86.422}

	// OakRidge is in zone_6.
	OakRidge = geo.Point{Lat: 16.405, Lng: -86.360}

	// EastEnd is in zone_7.
	EastEnd = geo.Point{Lat: 16.415, Lng: -86.300}

	// MidIsland falls only in the island-wide fallback zone.
	MidIsland = geo.Point{Lat: 16.340, Lng: -86.500}

	// OpenWater is outside the service area entirely.
	OpenWater = geo.Point{Lat: 16.100, Lng: -86.900}
)
