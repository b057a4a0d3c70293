package history

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citymeteo/go-city-weather/internal/types"
)

func TestGetHistory(t *testing.T) {
	store := NewStore()
	handler := NewHandler(store, slog.Default())

	t.Run("Empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GetHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("AfterSubmissions", func(t *testing.T) {
		store.Increment("Paris")
		store.Increment("Tokyo")
		store.Increment("Paris")

		rec := httptest.NewRecorder()
		handler.GetHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var entries []types.SearchHistoryEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		assert.ElementsMatch(t, []types.SearchHistoryEntry{
			{City: "Paris", Count: 2},
			{City: "Tokyo", Count: 1},
		}, entries)
	})
}
