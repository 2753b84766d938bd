package maps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/islaride/islaride-shared/geo"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"123s", 123},
		{"0s", 0},
		{"3600s", 3600},
		{"", 0},
		{"invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseDuration(tt.input); got != tt.expected {
				t.Errorf("parseDuration(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

// newTestClient points the client at a test server and resets the shared
// circuit breaker so tests do not leak state into each other.
func newTestClient(t *testing.T, server *httptest.Server, cache Cache) *Client {
	t.Helper()

	config := DefaultConfig("test-api-key")
	config.RoutesBaseURL = server.URL
	config.GeocodeBaseURL = server.URL
	config.RetryDelay = time.Millisecond

	c := NewClient(config, nil, nil, cache, NewNoopRateLimiter())
	c.breaker.Reset()
	return c
}

func routesResponse(meters int, duration string) map[string]interface{} {
	return map[string]interface{}{
		"routes": []map[string]interface{}{
			{
				"distanceMeters": meters,
				"duration":       duration,
				"staticDuration": duration,
				"polyline": map[string]interface{}{
					"encodedPolyline": "_p~iF~ps|U_ulLnnqC",
				},
			},
		},
	}
}

func TestComputeRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-api-key" {
			t.Error("missing API key header")
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body: %v", err)
		}
		if body["travelMode"] != "DRIVE" {
			t.Errorf("travelMode = %v, want DRIVE", body["travelMode"])
		}
		if body["routingPreference"] != "TRAFFIC_UNAWARE" {
			t.Errorf("routingPreference = %v, want TRAFFIC_UNAWARE by default", body["routingPreference"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(routesResponse(15000, "900s"))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	result, err := client.ComputeRoute(context.Background(), &ComputeRouteRequest{
		Origin:      geo.Point{Lat: 16.317, Lng: -86.522},
		Destination: geo.Point{Lat: 16.285, Lng: -86.600},
	})
	if err != nil {
		t.Fatalf("ComputeRoute: %v", err)
	}
	if result.DistanceMeters != 15000 {
		t.Errorf("distance = %d, want 15000", result.DistanceMeters)
	}
	if result.DurationSeconds != 900 {
		t.Errorf("duration = %d, want 900", result.DurationSeconds)
	}
	if result.EncodedPolyline == "" {
		t.Error("polyline should be populated")
	}
}

func TestTripMetrics(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		// 16093 m is 10.0007 miles; must round to 10.0.
		_ = json.NewEncoder(w).Encode(routesResponse(16093, "912s"))
	}))
	defer server.Close()

	client := newTestClient(t, server, NewInMemoryCache())
	pickup := geo.Point{Lat: 16.317, Lng: -86.522}
	dropoff := geo.Point{Lat: 16.285, Lng: -86.600}

	m, err := client.TripMetrics(context.Background(), pickup, dropoff)
	if err != nil {
		t.Fatalf("TripMetrics: %v", err)
	}
	if m.DistanceMiles != 10.0 {
		t.Errorf("distance = %v, want 10.0 (one decimal)", m.DistanceMiles)
	}
	if m.DurationMinutes != 15 {
		t.Errorf("duration = %v, want 15 whole minutes", m.DurationMinutes)
	}

	// Second identical request must come from cache.
	again, err := client.TripMetrics(context.Background(), pickup, dropoff)
	if err != nil {
		t.Fatalf("TripMetrics (cached): %v", err)
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1 (cache miss only once)", hits)
	}
	if *again != *m {
		t.Errorf("cached metrics differ: %+v vs %+v", again, m)
	}
}

func TestReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-api-key" {
			t.Error("missing key parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "OK",
			"results": []map[string]interface{}{
				{
					"place_id":          "ChIJ-roatan",
					"formatted_address": "Coxen Hole, Roatán, Honduras",
					"geometry": map[string]interface{}{
						"location": map[string]interface{}{"lat": 16.305, "lng": -86.540},
					},
					"address_components": []map[string]interface{}{
						{"long_name": "Coxen Hole", "short_name": "Coxen Hole", "types": []string{"locality"}},
						{"long_name": "Honduras", "short_name": "HN", "types": []string{"country"}},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server, NewInMemoryCache())

	result, err := client.ReverseGeocode(context.Background(), geo.Point{Lat: 16.305, Lng: -86.540})
	if err != nil {
		t.Fatalf("ReverseGeocode: %v", err)
	}
	if result.Locality != "Coxen Hole" {
		t.Errorf("locality = %q, want Coxen Hole", result.Locality)
	}
	if result.Country != "HN" {
		t.Errorf("country = %q, want HN", result.Country)
	}
}

func TestDoRequest_RetriesServerErrors(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			http.Error(w, "transient", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(routesResponse(5000, "300s"))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	_, err := client.ComputeRoute(context.Background(), &ComputeRouteRequest{
		Origin:      geo.Point{Lat: 16.3, Lng: -86.5},
		Destination: geo.Point{Lat: 16.4, Lng: -86.4},
	})
	if err != nil {
		t.Fatalf("ComputeRoute should succeed after retries: %v", err)
	}
	if hits != 3 {
		t.Errorf("upstream hits = %d, want 3", hits)
	}
}

func TestDoRequest_NoRetryOnClientError(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	_, err := client.ComputeRoute(context.Background(), &ComputeRouteRequest{
		Origin:      geo.Point{Lat: 16.3, Lng: -86.5},
		Destination: geo.Point{Lat: 16.4, Lng: -86.4},
	})
	if err == nil {
		t.Fatal("ComputeRoute should fail on 400")
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1 (no retry on 4xx)", hits)
	}
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCache()

	if err := cache.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(val) != "v" {
		t.Errorf("Get = %q, want v", val)
	}

	// Expired entries read as misses.
	_ = cache.Set(ctx, "old", []byte("x"), -time.Second)
	if val, _ := cache.Get(ctx, "old"); val != nil {
		t.Errorf("expired key should miss, got %q", val)
	}

	if val, _ := cache.Get(ctx, "absent"); val != nil {
		t.Errorf("missing key should miss, got %q", val)
	}
}

func TestNoopRateLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewNoopRateLimiter()

	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx, "compute_routes"); err != nil {
			t.Fatalf("noop limiter must never block: %v", err)
		}
	}
}
