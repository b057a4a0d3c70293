package weather

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/citymeteo/go-city-weather/app/observability/metrics"
	"github.com/citymeteo/go-city-weather/internal/api"
	"github.com/citymeteo/go-city-weather/internal/api/history"
	"github.com/citymeteo/go-city-weather/internal/api/recency"
	"github.com/citymeteo/go-city-weather/internal/render"
	"github.com/citymeteo/go-city-weather/internal/types"
)

// autocompleteLimit caps candidate suggestions per query.
const autocompleteLimit = 5

// Handler serves the search form, submissions and autocomplete.
type Handler struct {
	logger   *slog.Logger
	service  Service
	history  *history.Store
	renderer *render.Renderer
}

// NewHandler creates a new weather handler instance.
func NewHandler(service Service, historyStore *history.Store, renderer *render.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		history:  historyStore,
		renderer: renderer,
	}
}

// ShowForm handles GET / - renders the search form with the last searched
// city from the recent_city cookie. A missing or malformed cookie simply
// means no recent city.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("WeatherHandler").Start(r.Context(), "ShowForm")
	defer span.End()

	view := types.FormView{RecentCity: recency.FromRequest(r)}
	h.renderer.HTML(w, r, http.StatusOK, "form.html", view)
}

// SubmitCity handles POST / - looks up the submitted city and renders the
// result. History is incremented and the recent_city cookie set whenever a
// location resolved, regardless of whether the forecast itself succeeded.
func (h *Handler) SubmitCity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "SubmitCity")
	defer span.End()

	l := h.logger.With(slog.String("method", "SubmitCity"))

	city := r.PostFormValue("city")
	if city == "" {
		l.WarnContext(ctx, "Missing city form field")
		span.SetStatus(codes.Error, "Missing city form field")
		api.ErrorResponse(w, r, http.StatusBadRequest, "form field 'city' is required")
		return
	}
	span.SetAttributes(attribute.String("city", city))

	data, found := h.service.Lookup(ctx, city)
	if found {
		h.history.Increment(city)
		recency.SetCookie(w, city)
	}

	m := metrics.Get()
	m.LookupRequestsTotal.Add(ctx, 1)
	m.LookupDurationSeconds.Record(ctx, time.Since(start).Seconds())

	l.InfoContext(ctx, "Lookup completed",
		slog.String("city", city),
		slog.Bool("found", found),
		slog.Bool("weather", data != nil),
		slog.Duration("latency", time.Since(start)),
	)

	h.renderer.HTML(w, r, http.StatusOK, "result.html", types.ResultView{City: city, Weather: data})
}

// Autocomplete handles GET /autocomplete/{query} - returns candidate display
// addresses as a JSON array. No match and provider failure both yield [].
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "Autocomplete")
	defer span.End()

	query := chi.URLParam(r, "query")
	span.SetAttributes(attribute.String("query", query))

	addresses := h.service.Autocomplete(ctx, query, autocompleteLimit)
	if addresses == nil {
		addresses = []string{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, addresses)
}
