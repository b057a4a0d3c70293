// Package forecast fetches temperature series from an Open-Meteo style
// forecast endpoint.
package forecast

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

	"github.com/citymeteo/go-city-weather/app/observability/metrics"
	"github.com/citymeteo/go-city-weather/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*OpenMeteoClient)(nil)

// Service defines the forecast contract. An error means "no weather data";
// callers surface an empty payload rather than failing the request.
type Service interface {
	Fetch(ctx context.Context, lat, lon float64) (*types.WeatherData, error)
}

// OpenMeteoClient calls the Open-Meteo forecast API with a fixed parameter
// set: hourly 2 m temperature, daily 2 m max/min temperature, timezone
// auto-detected from the coordinates.
type OpenMeteoClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	cache      *gocache.Cache
}

// NewOpenMeteoClient creates a forecast client with a short-lived
// coordinate-keyed response cache.
func NewOpenMeteoClient(baseURL string, timeout, cacheTTL time.Duration, logger *slog.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// Fetch returns the provider's forecast payload for the given coordinates.
// The payload is passed through to callers uninterpreted.
func (c *OpenMeteoClient) Fetch(ctx context.Context, lat, lon float64) (*types.WeatherData, error) {
	key := fmt.Sprintf("forecast:%.4f:%.4f", lat, lon)
	if cached, ok := c.cache.Get(key); ok {
		data := cached.(types.WeatherData)
		return &data, nil
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("hourly", "temperature_2m")
	params.Set("daily", "temperature_2m_max,temperature_2m_min")
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, c.fail(ctx, fmt.Errorf("create forecast request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(ctx, fmt.Errorf("forecast request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(ctx, fmt.Errorf("forecast provider returned status %d", resp.StatusCode))
	}

	var data types.WeatherData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, c.fail(ctx, fmt.Errorf("decode forecast response: %w", err))
	}

	c.cache.SetDefault(key, data)
	return &data, nil
}

func (c *OpenMeteoClient) fail(ctx context.Context, err error) error {
	metrics.Get().ForecastErrorsTotal.Add(ctx, 1)
	c.logger.WarnContext(ctx, "Forecast provider failed", slog.Any("error", err))
	return err
}
