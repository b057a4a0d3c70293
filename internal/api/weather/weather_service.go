// Package weather composes the geocoding and forecast clients into the
// city-to-weather lookup and serves the form, submission and autocomplete
// endpoints.
package weather

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/citymeteo/go-city-weather/internal/api/forecast"
	"github.com/citymeteo/go-city-weather/internal/api/geocode"
	"github.com/citymeteo/go-city-weather/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for weather lookups.
type Service interface {
	// Lookup resolves a city name to its forecast. found reports whether the
	// geocoder resolved a location; data may still be nil with found=true
	// when the forecast itself was unavailable.
	Lookup(ctx context.Context, city string) (data *types.WeatherData, found bool)
	// Autocomplete returns up to limit candidate display addresses for a
	// partial query. Provider failures yield an empty list.
	Autocomplete(ctx context.Context, query string, limit int) []string
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger   *slog.Logger
	geocoder geocode.Service
	forecast forecast.Service
}

// NewService creates a new weather lookup service instance.
func NewService(geocoder geocode.Service, forecast forecast.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		geocoder: geocoder,
		forecast: forecast,
	}
}

// Lookup geocodes the raw city string (no pre-validation, the provider
// decides what matches) and, when a location resolves, fetches its forecast.
func (s *ServiceImpl) Lookup(ctx context.Context, city string) (*types.WeatherData, bool) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "Lookup")
	defer span.End()
	span.SetAttributes(attribute.String("city", city))

	l := s.logger.With(slog.String("method", "Lookup"), slog.String("city", city))

	location, err := s.geocoder.GeocodeOne(ctx, city)
	if err != nil {
		// Unreachable provider and "no match" are the same outcome here.
		span.SetStatus(codes.Error, "Geocoding failed")
		return nil, false
	}
	if location == nil {
		l.InfoContext(ctx, "No location found for city")
		return nil, false
	}

	span.SetAttributes(
		attribute.Float64("latitude", location.Latitude),
		attribute.Float64("longitude", location.Longitude),
	)

	data, err := s.forecast.Fetch(ctx, location.Latitude, location.Longitude)
	if err != nil {
		// The location resolved, so the lookup still counts; the caller
		// renders an empty weather payload.
		l.WarnContext(ctx, "Forecast unavailable for resolved location",
			slog.String("address", location.Address), slog.Any("error", err))
		span.SetStatus(codes.Error, "Forecast unavailable")
		return nil, true
	}

	return data, true
}

func (s *ServiceImpl) Autocomplete(ctx context.Context, query string, limit int) []string {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "Autocomplete")
	defer span.End()

	locations, err := s.geocoder.GeocodeMany(ctx, query, limit)
	if err != nil {
		span.SetStatus(codes.Error, "Geocoding failed")
		return nil
	}

	addresses := make([]string, 0, len(locations))
	for _, loc := range locations {
		addresses = append(addresses, loc.Address)
	}
	return addresses
}
