package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
)

// Location is a geocoded pincode.
type Location struct {
	Pincode string  `json:"pincode"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Route is a driving route between two coordinates.
type Route struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Polyline        string  `json:"polyline"`
}

// Client resolves pincodes to coordinates and computes driving routes.
// Pure pass-through to third-party services; the booking core never
// depends on it.
type Client interface {
	// Geocode resolves a pincode to coordinates.
	// Returns domain.ErrPincodeNotFound when the pincode is unknown.
	Geocode(ctx context.Context, pincode string) (*Location, error)

	// Route computes a driving route between two coordinates.
	// Returns domain.ErrRouteNotFound when no route exists.
	Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error)
}

type httpClient struct {
	nominatimURL string
	osrmURL      string
	countryCode  string
	httpClient   *http.Client
}

// NewHTTPClient creates a client backed by Nominatim (geocoding) and OSRM
// (routing).
func NewHTTPClient(nominatimURL, osrmURL, countryCode string, timeout time.Duration) Client {
	return &httpClient{
		nominatimURL: nominatimURL,
		osrmURL:      osrmURL,
		countryCode:  countryCode,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *httpClient) Geocode(ctx context.Context, pincode string) (*Location, error) {
	params := url.Values{}
	params.Set("postalcode", pincode)
	params.Set("countrycodes", c.countryCode)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.nominatimURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", "FleetLinkApp/1.0")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geocode response: %w", err)
	}

	if len(results) == 0 {
		return nil, domain.ErrPincodeNotFound
	}

	var loc Location
	loc.Pincode = pincode
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &loc.Lat); err != nil {
		return nil, fmt.Errorf("failed to parse latitude %q: %w", results[0].Lat, err)
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &loc.Lon); err != nil {
		return nil, fmt.Errorf("failed to parse longitude %q: %w", results[0].Lon, err)
	}

	return &loc, nil
}

type osrmResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

func (c *httpClient) Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error) {
	// OSRM takes lon,lat pairs.
	reqURL := fmt.Sprintf(
		"%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=polyline",
		c.osrmURL, fromLon, fromLat, toLon, toLat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create route request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp osrmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route response: %w", err)
	}

	if len(resp.Routes) == 0 {
		return nil, domain.ErrRouteNotFound
	}

	return &Route{
		DistanceMeters:  resp.Routes[0].Distance,
		DurationSeconds: resp.Routes[0].Duration,
		Polyline:        resp.Routes[0].Geometry,
	}, nil
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo service returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
