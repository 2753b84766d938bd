package zones

// Default Roatán zone layout. Boundaries are deliberately coarse: zones are
// drawn as simple rings that extend over water, since pricing only needs to
// tell settlements apart, not trace the shoreline. Version the document in
// Blob storage to change the layout without a release; this copy is the
// compiled-in default.

// Designated zone IDs in the default layout.
const (
	AirportZoneID  = "zone_airport"
	IslandZoneID   = "zone_island"
	WestBayZoneID  = "zone_1"
	WestEndZoneID  = "zone_2"
	SandyBayZoneID = "zone_3"
	CoxenHoleID    = "zone_4"
	FrenchHbrID    = "zone_5"
	OakRidgeID     = "zone_6"
	EastEndZoneID  = "zone_7"
)

// DefaultIslandConfig returns the built-in Roatán zone configuration.
func DefaultIslandConfig() *Config {
	return &Config{
		Version:        "2025-07",
		AirportZoneID:  AirportZoneID,
		FallbackZoneID: IslandZoneID,
		Zones: []ZoneConfig{
			{
				ID:          AirportZoneID,
				DisplayName: "Juan Manuel Gálvez Intl (RTB)",
				Boundary: [][2]float64{
					{-86.535, 16.310}, {-86.510, 16.310},
					{-86.510, 16.325}, {-86.535, 16.325},
					{-86.535, 16.310},
				},
			},
			{
				ID:          WestBayZoneID,
				DisplayName: "West Bay",
				Boundary: [][2]float64{
					{-86.620, 16.265}, {-86.590, 16.265},
					{-86.590, 16.290}, {-86.620, 16.290},
					{-86.620, 16.265},
				},
			},
			{
				ID:           "zone_1a",
				DisplayName:  "West Bay Beach",
				ParentZoneID: WestBayZoneID,
				Boundary: [][2]float64{
					{-86.612, 16.268}, {-86.598, 16.268},
					{-86.598, 16.280}, {-86.612, 16.280},
					{-86.612, 16.268},
				},
			},
			{
				ID:          WestEndZoneID,
				DisplayName: "West End",
				Boundary: [][2]float64{
					{-86.612, 16.290}, {-86.580, 16.290},
					{-86.580, 16.315}, {-86.612, 16.315},
					{-86.612, 16.290},
				},
			},
			{
				ID:          SandyBayZoneID,
				DisplayName: "Sandy Bay",
				Boundary: [][2]float64{
					{-86.580, 16.295}, {-86.545, 16.295},
					{-86.545, 16.330}, {-86.580, 16.330},
					{-86.580, 16.295},
				},
			},
			{
				ID:           "zone_3a",
				DisplayName:  "Lawson Rock",
				ParentZoneID: SandyBayZoneID,
				Boundary: [][2]float64{
					{-86.568, 16.305}, {-86.556, 16.305},
					{-86.556, 16.315}, {-86.568, 16.315},
					{-86.568, 16.305},
				},
			},
			{
				ID:          CoxenHoleID,
				DisplayName: "Coxen Hole",
				Boundary: [][2]float64{
					{-86.548, 16.295}, {-86.520, 16.295},
					{-86.520, 16.318}, {-86.548, 16.318},
					{-86.548, 16.295},
				},
			},
			{
				ID:          FrenchHbrID,
				DisplayName: "French Harbour",
				Boundary: [][2]float64{
					{-86.470, 16.330}, {-86.410, 16.330},
					{-86.410, 16.370}, {-86.470, 16.370},
					{-86.470, 16.330},
				},
			},
			{
				ID:           "zone_5a",
				DisplayName:  "Parrot Tree",
				ParentZoneID: FrenchHbrID,
				Boundary: [][2]float64{
					{-86.430, 16.335}, {-86.415, 16.335},
					{-86.415, 16.350}, {-86.430, 16.350},
					{-86.430, 16.335},
				},
			},
			{
				ID:          OakRidgeID,
				DisplayName: "Oak Ridge & Punta Gorda",
				Boundary: [][2]float64{
					{-86.390, 16.380}, {-86.330, 16.380},
					{-86.330, 16.430}, {-86.390, 16.430},
					{-86.390, 16.380},
				},
			},
			{
				ID:          EastEndZoneID,
				DisplayName: "Camp Bay & East End",
				Boundary: [][2]float64{
					{-86.330, 16.390}, {-86.270, 16.390},
					{-86.270, 16.440}, {-86.330, 16.440},
					{-86.330, 16.390},
				},
			},
			{
				ID:          IslandZoneID,
				DisplayName: "Roatán",
				Boundary: [][2]float64{
					{-86.645, 16.250}, {-86.250, 16.250},
					{-86.250, 16.450}, {-86.645, 16.450},
					{-86.645, 16.250},
				},
			},
		},
	}
}

// DefaultIslandRegistry builds the registry from the built-in configuration.
// Panics on error: the compiled-in layout failing validation is a programmer
// mistake, caught by tests.
func DefaultIslandRegistry() *Registry {
	r, err := FromConfig(DefaultIslandConfig())
	if err != nil {
		panic("zones: default island config invalid: " + err.Error())
	}
	return r
}
