package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fleetsight/telemetry-risk/internal/domain"
	"github.com/fleetsight/telemetry-risk/internal/observability"
)

// Client implements domain.Geocoder against a Nominatim-compatible
// reverse-geocoding endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a reverse-geocoding client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// ReverseGeocode converts coordinates to place details.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	params := url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', 6, 64)},
		"format": {"jsonv2"},
	}
	fullURL := c.baseURL + "/reverse?" + params.Encode()

	c.metrics.GeocodeRequests.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.metrics.GeocodeErrors.Inc()
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeErrors.Inc()
		return domain.GeocodingResult{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeErrors.Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("geocoder API error: status %d: %s", resp.StatusCode, body)
	}

	var geoResp response
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		c.metrics.GeocodeErrors.Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	// An empty display name means the provider has no place at these
	// coordinates; that is not an error.
	if geoResp.DisplayName == "" {
		return domain.GeocodingResult{}, nil
	}

	result := domain.GeocodingResult{
		FormattedAddress: geoResp.DisplayName,
		PlaceName:        geoResp.Name,
	}
	if v, err := strconv.ParseFloat(geoResp.Lat, 64); err == nil {
		result.Lat = v
	}
	if v, err := strconv.ParseFloat(geoResp.Lon, 64); err == nil {
		result.Lon = v
	}
	return result, nil
}

// Nominatim API response types. Coordinates come back as strings.

type response struct {
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
