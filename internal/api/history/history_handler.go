package history

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"

	"github.com/citymeteo/go-city-weather/internal/api"
)

// Handler exposes the search history over HTTP.
type Handler struct {
	logger *slog.Logger
	store  *Store
}

// NewHandler creates a new history handler instance.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		store:  store,
	}
}

// GetHistory handles GET /api/history - returns all per-city search counters
// as a JSON array.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HistoryHandler").Start(r.Context(), "GetHistory")
	defer span.End()

	entries := h.store.ListAll()

	h.logger.InfoContext(ctx, "Returning search history", slog.Int("count", len(entries)))
	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}
