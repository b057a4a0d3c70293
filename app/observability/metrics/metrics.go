package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	LookupRequestsTotal   metric.Int64Counter
	LookupDurationSeconds metric.Float64Histogram
	GeocodeErrorsTotal    metric.Int64Counter
	ForecastErrorsTotal   metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("CityWeather")
		var err error
		m := &AppMetrics{}

		m.LookupRequestsTotal, err = meter.Int64Counter(
			"weather_lookup_requests_total",
			metric.WithDescription("Total number of weather lookup submissions handled"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_lookup_requests_total: %v", err)
		}

		m.LookupDurationSeconds, err = meter.Float64Histogram(
			"weather_lookup_duration_seconds",
			metric.WithDescription("Duration of weather lookup submissions in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_lookup_duration_seconds: %v", err)
		}

		m.GeocodeErrorsTotal, err = meter.Int64Counter(
			"geocode_provider_errors_total",
			metric.WithDescription("Total number of geocoding provider failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_provider_errors_total: %v", err)
		}

		m.ForecastErrorsTotal, err = meter.Int64Counter(
			"forecast_provider_errors_total",
			metric.WithDescription("Total number of forecast provider failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create forecast_provider_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. When metrics were
// never initialized (e.g. in tests) the instruments come from the no-op
// global meter provider.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}
