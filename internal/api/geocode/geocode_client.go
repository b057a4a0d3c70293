// Package geocode resolves free-text place names to coordinates through a
// Nominatim-style search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/citymeteo/go-city-weather/app/observability/metrics"
	"github.com/citymeteo/go-city-weather/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*NominatimClient)(nil)

// Service defines the geocoding contract. Callers must treat an error the
// same as an empty result: the provider being unreachable means "no location
// found", never a fatal condition.
type Service interface {
	// GeocodeOne returns the provider's best match for query, or nil when
	// nothing matched.
	GeocodeOne(ctx context.Context, query string) (*types.GeoLocation, error)
	// GeocodeMany returns up to limit candidate matches in the provider's own
	// relevance order.
	GeocodeMany(ctx context.Context, query string, limit int) ([]types.GeoLocation, error)
}

// NominatimClient queries a Nominatim /search endpoint. Responses are cached
// per query and identical in-flight queries are coalesced, so a burst of
// submissions for the same city reaches the provider once.
type NominatimClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cache      *gocache.Cache
	group      singleflight.Group
}

// NewNominatimClient creates a geocoding client. userAgent is required by the
// Nominatim usage policy and sent on every request.
func NewNominatimClient(baseURL, userAgent string, timeout, cacheTTL time.Duration, logger *slog.Logger) *NominatimClient {
	return &NominatimClient{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// nominatimResult is the relevant subset of one /search entry. Nominatim
// serializes coordinates as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *NominatimClient) GeocodeOne(ctx context.Context, query string) (*types.GeoLocation, error) {
	locations, err := c.GeocodeMany(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return &locations[0], nil
}

func (c *NominatimClient) GeocodeMany(ctx context.Context, query string, limit int) ([]types.GeoLocation, error) {
	key := fmt.Sprintf("geocode:%d:%s", limit, query)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]types.GeoLocation), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		locations, err := c.search(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		c.cache.SetDefault(key, locations)
		return locations, nil
	})
	if err != nil {
		metrics.Get().GeocodeErrorsTotal.Add(ctx, 1)
		c.logger.WarnContext(ctx, "Geocoding provider failed",
			slog.String("query", query), slog.Any("error", err))
		return nil, err
	}
	return v.([]types.GeoLocation), nil
}

func (c *NominatimClient) search(ctx context.Context, query string, limit int) ([]types.GeoLocation, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	locations := make([]types.GeoLocation, 0, len(results))
	for _, res := range results {
		lat, latErr := strconv.ParseFloat(res.Lat, 64)
		lon, lonErr := strconv.ParseFloat(res.Lon, 64)
		if latErr != nil || lonErr != nil {
			c.logger.WarnContext(ctx, "Skipping geocode result with unparseable coordinates",
				slog.String("lat", res.Lat), slog.String("lon", res.Lon))
			continue
		}
		locations = append(locations, types.GeoLocation{
			Latitude:  lat,
			Longitude: lon,
			Address:   res.DisplayName,
		})
	}
	return locations, nil
}
