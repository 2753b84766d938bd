// Package maps is the Google Maps Platform adapter used to obtain route
// distance and duration for quoting. Server-side keys only; never ship the
// key in a client build.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/islaride/islaride-shared/geo"
	"github.com/islaride/islaride-shared/logging"
	"github.com/islaride/islaride-shared/resilience"
)

const (
	defaultRoutesBaseURL  = "https://routes.googleapis.com"
	defaultGeocodeBaseURL = "https://maps.googleapis.com"

	computeRoutesPath = "/directions/v2:computeRoutes"
	geocodePath       = "/maps/api/geocode/json"

	defaultTimeout         = 10 * time.Second
	defaultMaxRetries      = 3
	defaultRetryDelay      = 100 * time.Millisecond
	defaultCacheTTL        = 30 * 24 * time.Hour // Google ToS maximum
	defaultRateLimitPerSec = 10

	metersPerMile = 1609.344
)

// TravelMode specifies the travel mode for routing.
type TravelMode string

const (
	TravelModeDrive TravelMode = "DRIVE"
	TravelModeWalk  TravelMode = "WALK"
)

// RoutingPreference specifies the routing preference.
type RoutingPreference string

const (
	RoutingPreferenceTrafficUnaware RoutingPreference = "TRAFFIC_UNAWARE"
	RoutingPreferenceTrafficAware   RoutingPreference = "TRAFFIC_AWARE"
)

// Config holds the adapter configuration. The base URLs exist so tests can
// point the client at an httptest server.
type Config struct {
	APIKey string

	RoutesBaseURL  string
	GeocodeBaseURL string

	Timeout            time.Duration
	MaxRetries         int
	RetryDelay         time.Duration
	CacheTTL           time.Duration
	RateLimitPerSecond int

	// EnableTrafficRouting requests traffic-aware routes (billed higher).
	// Roatán traffic rarely justifies it; off by default.
	EnableTrafficRouting bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:             apiKey,
		RoutesBaseURL:      defaultRoutesBaseURL,
		GeocodeBaseURL:     defaultGeocodeBaseURL,
		Timeout:            defaultTimeout,
		MaxRetries:         defaultMaxRetries,
		RetryDelay:         defaultRetryDelay,
		CacheTTL:           defaultCacheTTL,
		RateLimitPerSecond: defaultRateLimitPerSec,
	}
}

// Cache stores maps responses keyed by request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RateLimiter paces outbound Google calls, one window per operation name.
type RateLimiter interface {
	Wait(ctx context.Context, operation string) error
}

// Client calls the Google Routes and Geocoding APIs.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *logging.Logger
	tracer     *Tracer
	cache      Cache
	limiter    RateLimiter
	breaker    *resilience.Breaker
}

// NewClient creates a maps client. Logger, tracer, cache, and limiter may be
// nil; the breaker is always on.
func NewClient(config *Config, logger *logging.Logger, tracer *Tracer, cache Cache, limiter RateLimiter) *Client {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.RoutesBaseURL == "" {
		config.RoutesBaseURL = defaultRoutesBaseURL
	}
	if config.GeocodeBaseURL == "" {
		config.GeocodeBaseURL = defaultGeocodeBaseURL
	}
	if logger == nil {
		logger = logging.NewLogger("info")
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
		tracer:     tracer,
		cache:      cache,
		limiter:    limiter,
		breaker:    resilience.ForUpstream("maps.google"),
	}
}

// === Route metrics for quoting ===

// RouteMetrics is the route summary shaped for the pricing engine: miles to
// one decimal, whole minutes.
type RouteMetrics struct {
	DistanceMiles   float64 `json:"distance_miles"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// TripMetrics returns the driving distance and duration between two points,
// cached under a geohash pair so nearby endpoints share an entry. Routes
// change with road work, not with a 50-meter GPS wobble.
func (c *Client) TripMetrics(ctx context.Context, pickup, dropoff geo.Point) (*RouteMetrics, error) {
	ctx, span := c.startSpan(ctx, "maps.TripMetrics")
	defer span.End()

	cacheKey := fmt.Sprintf("route:%s:%s",
		geo.Encode(pickup, geo.CacheKeyPrecision),
		geo.Encode(dropoff, geo.CacheKeyPrecision))

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			var m RouteMetrics
			if err := json.Unmarshal(cached, &m); err == nil {
				c.logger.Debug("route cache hit", "key", cacheKey)
				return &m, nil
			}
		}
	}

	route, err := c.ComputeRoute(ctx, &ComputeRouteRequest{
		Origin:      pickup,
		Destination: dropoff,
		TravelMode:  TravelModeDrive,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	m := &RouteMetrics{
		DistanceMiles:   math.Round(float64(route.DistanceMeters)/metersPerMile*10) / 10,
		DurationMinutes: math.Round(float64(route.DurationSeconds) / 60),
	}

	if c.cache != nil {
		if data, err := json.Marshal(m); err == nil {
			_ = c.cache.Set(ctx, cacheKey, data, c.config.CacheTTL)
		}
	}

	return m, nil
}

// === Routes ===

// ComputeRouteRequest represents a route computation request.
type ComputeRouteRequest struct {
	Origin            geo.Point
	Destination       geo.Point
	TravelMode        TravelMode
	RoutingPreference RoutingPreference
	DepartureTime     *time.Time
}

// RouteResult represents a computed route.
type RouteResult struct {
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
	StaticDuration  int    `json:"static_duration_seconds"`
	EncodedPolyline string `json:"encoded_polyline"`
}

// ComputeRoute computes a driving route between origin and destination.
func (c *Client) ComputeRoute(ctx context.Context, req *ComputeRouteRequest) (*RouteResult, error) {
	ctx, span := c.startSpan(ctx, "maps.ComputeRoute")
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "compute_routes"); err != nil {
			return nil, fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	mode := req.TravelMode
	if mode == "" {
		mode = TravelModeDrive
	}
	preference := req.RoutingPreference
	if preference == "" {
		if c.config.EnableTrafficRouting {
			preference = RoutingPreferenceTrafficAware
		} else {
			preference = RoutingPreferenceTrafficUnaware
		}
	}

	body := map[string]interface{}{
		"origin":            latLngWaypoint(req.Origin),
		"destination":       latLngWaypoint(req.Destination),
		"travelMode":        mode,
		"routingPreference": preference,
	}
	if req.DepartureTime != nil {
		body["departureTime"] = req.DepartureTime.Format(time.RFC3339)
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.config.RoutesBaseURL+computeRoutesPath, strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.config.APIKey)
	httpReq.Header.Set("X-Goog-FieldMask",
		"routes.duration,routes.staticDuration,routes.distanceMeters,routes.polyline.encodedPolyline")

	resp, err := c.doRequest(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp struct {
		Routes []struct {
			DistanceMeters int    `json:"distanceMeters"`
			Duration       string `json:"duration"`
			StaticDuration string `json:"staticDuration"`
			Polyline       struct {
				EncodedPolyline string `json:"encodedPolyline"`
			} `json:"polyline"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Routes) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	route := apiResp.Routes[0]
	result := &RouteResult{
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: parseDuration(route.Duration),
		StaticDuration:  parseDuration(route.StaticDuration),
		EncodedPolyline: route.Polyline.EncodedPolyline,
	}

	c.logger.Debug("route computed",
		"distance_m", result.DistanceMeters,
		"duration_s", result.DurationSeconds)

	return result, nil
}

// === Reverse Geocode ===

// ReverseGeocodeResult represents a reverse geocode result.
type ReverseGeocodeResult struct {
	PlaceID          string    `json:"place_id"`
	FormattedAddress string    `json:"formatted_address"`
	Location         geo.Point `json:"location"`
	Locality         string    `json:"locality"`
	Country          string    `json:"country"`
}

// ReverseGeocode converts coordinates to an address, cached under a
// precision-7 geohash (roughly 150 m cells).
func (c *Client) ReverseGeocode(ctx context.Context, location geo.Point) (*ReverseGeocodeResult, error) {
	ctx, span := c.startSpan(ctx, "maps.ReverseGeocode")
	defer span.End()

	cacheKey := "revgeo:" + geo.Encode(location, geo.CacheKeyPrecision)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			var result ReverseGeocodeResult
			if err := json.Unmarshal(cached, &result); err == nil {
				return &result, nil
			}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "reverse_geocode"); err != nil {
			return nil, fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", location.Lat, location.Lng))
	params.Set("key", c.config.APIKey)
	params.Set("result_type", "street_address|premise|sublocality|locality")

	reqURL := fmt.Sprintf("%s%s?%s", c.config.GeocodeBaseURL, geocodePath, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.doRequest(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp struct {
		Status  string `json:"status"`
		Results []struct {
			PlaceID          string `json:"place_id"`
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			AddressComponents []struct {
				LongName  string   `json:"long_name"`
				ShortName string   `json:"short_name"`
				Types     []string `json:"types"`
			} `json:"address_components"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Status != "OK" || len(apiResp.Results) == 0 {
		return nil, fmt.Errorf("no results found for coordinates")
	}

	r := apiResp.Results[0]
	result := &ReverseGeocodeResult{
		PlaceID:          r.PlaceID,
		FormattedAddress: r.FormattedAddress,
		Location: geo.Point{
			Lat: r.Geometry.Location.Lat,
			Lng: r.Geometry.Location.Lng,
		},
	}
	for _, comp := range r.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality", "sublocality":
				if result.Locality == "" {
					result.Locality = comp.LongName
				}
			case "country":
				result.Country = comp.ShortName
			}
		}
	}

	if c.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = c.cache.Set(ctx, cacheKey, data, c.config.CacheTTL)
		}
	}

	return result, nil
}

// === Helpers ===

func latLngWaypoint(p geo.Point) map[string]interface{} {
	return map[string]interface{}{
		"location": map[string]interface{}{
			"latLng": map[string]interface{}{
				"latitude":  p.Lat,
				"longitude": p.Lng,
			},
		},
	}
}

// doRequest executes an HTTP request behind the circuit breaker, retrying
// transport errors, 429s, and 5xx responses with linear backoff.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	err := c.breaker.Do(req.Context(), func(ctx context.Context) error {
		var lastErr error
		for i := 0; i <= c.config.MaxRetries; i++ {
			attempt := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return fmt.Errorf("failed to rewind request body: %w", err)
				}
				attempt.Body = body
			}

			r, err := c.httpClient.Do(attempt)
			if err != nil {
				lastErr = err
				time.Sleep(c.config.RetryDelay * time.Duration(i+1))
				continue
			}

			if r.StatusCode == http.StatusOK {
				resp = r
				return nil
			}

			body, _ := io.ReadAll(r.Body)
			r.Body.Close()

			if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
				lastErr = fmt.Errorf("google maps api error: %d - %s", r.StatusCode, string(body))
				time.Sleep(c.config.RetryDelay * time.Duration(i+1))
				continue
			}

			return fmt.Errorf("google maps api error: %d - %s", r.StatusCode, string(body))
		}
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// startSpan starts a telemetry span if a tracer is configured.
func (c *Client) startSpan(ctx context.Context, name string) (context.Context, *Span) {
	if c.tracer != nil {
		return c.tracer.StartSpan(ctx, name)
	}
	return ctx, &Span{}
}

// parseDuration parses a Google duration string (e.g. "123s") to seconds.
func parseDuration(d string) int {
	if d == "" {
		return 0
	}
	d = strings.TrimSuffix(d, "s")
	sec, _ := strconv.Atoi(d)
	return sec
}
