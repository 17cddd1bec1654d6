package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	defaultResultLimit         = 5
	maxResultLimit             = 10
	errorBodyReadLimit   int64 = 1024
	defaultCountryFilter       = "CA"
)

var errAccessTokenRequired = errors.New("mapbox access token is required")

// Client wraps the Mapbox forward-geocoding API used for store address
// guidance in the admin surface.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured geocoding base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Mapbox client given an access token.
func NewClient(accessToken string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(accessToken)
	if trimmed == "" {
		return nil, errAccessTokenRequired
	}

	client := &Client{
		accessToken: trimmed,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// ForwardGeocodeRequest describes a forward-geocoding lookup.
type ForwardGeocodeRequest struct {
	Query     string
	Country   string
	Language  string
	Limit     int
	Proximity *LatLng
}

// GeocodeResult is one normalized match returned by Mapbox.
type GeocodeResult struct {
	PlaceName string
	Address   string
	Location  LatLng
	Relevance float64
}

// LatLng is a latitude/longitude pair.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// ForwardGeocode resolves partial address text into candidate locations.
func (c *Client) ForwardGeocode(ctx context.Context, req ForwardGeocodeRequest) ([]GeocodeResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mapbox client not configured")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "geocode query is required")
	}

	endpoint := fmt.Sprintf("%s/%s.json", strings.TrimRight(c.baseURL, "/"), url.PathEscape(query))

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("types", "address,poi")
	params.Set("limit", strconv.Itoa(normalizeLimit(req.Limit)))
	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = defaultCountryFilter
	}
	params.Set("country", country)
	if lang := strings.TrimSpace(req.Language); lang != "" {
		params.Set("language", lang)
	}
	if req.Proximity != nil {
		params.Set("proximity", fmt.Sprintf("%f,%f", req.Proximity.Longitude, req.Proximity.Latitude))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var apiResp struct {
		Features []struct {
			PlaceName string    `json:"place_name"`
			Address   string    `json:"address"`
			Text      string    `json:"text"`
			Center    []float64 `json:"center"`
			Relevance float64   `json:"relevance"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}

	results := make([]GeocodeResult, 0, len(apiResp.Features))
	for _, f := range apiResp.Features {
		result := GeocodeResult{
			PlaceName: f.PlaceName,
			Address:   strings.TrimSpace(strings.Join([]string{f.Address, f.Text}, " ")),
			Relevance: f.Relevance,
		}
		// Mapbox centers are [lng, lat].
		if len(f.Center) == 2 {
			result.Location = LatLng{Latitude: f.Center[1], Longitude: f.Center[0]}
		}
		results = append(results, result)
	}

	return results, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultResultLimit
	}
	if limit > maxResultLimit {
		return maxResultLimit
	}
	return limit
}
