package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/citymeteo/go-city-weather/internal/api/history"
	"github.com/citymeteo/go-city-weather/internal/api/weather"
)

// Config contains dependencies needed for the router setup
type Config struct {
	WeatherHandler *weather.Handler
	HistoryHandler *history.Handler
	StaticFS       fs.FS // Served under /static/
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/", cfg.WeatherHandler.ShowForm)
	r.Post("/", cfg.WeatherHandler.SubmitCity)
	r.Get("/autocomplete/{query}", cfg.WeatherHandler.Autocomplete)
	r.Get("/api/history", cfg.HistoryHandler.GetHistory)

	if cfg.StaticFS != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(cfg.StaticFS))))
	}

	return r
}
