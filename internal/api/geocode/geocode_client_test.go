package geocode

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*NominatimClient, *int64) {
	t.Helper()

	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewNominatimClient(server.URL, "weather_app_test", 5*time.Second, time.Minute, slog.Default())
	return client, &requests
}

func TestGeocodeOne(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "weather_app_test", r.Header.Get("User-Agent"))

		w.Write([]byte(`[{"lat":"48.8566","lon":"2.3522","display_name":"Paris, Île-de-France, France"}]`))
	})

	location, err := client.GeocodeOne(context.Background(), "Paris")
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.InDelta(t, 48.8566, location.Latitude, 0.0001)
	assert.InDelta(t, 2.3522, location.Longitude, 0.0001)
	assert.Equal(t, "Paris, Île-de-France, France", location.Address)
}

func TestGeocodeOneNoMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	location, err := client.GeocodeOne(context.Background(), "Nonexistentville123")
	require.NoError(t, err)
	assert.Nil(t, location)
}

func TestGeocodeManyLimitAndOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"lat":"48.8566","lon":"2.3522","display_name":"Paris, France"},
			{"lat":"33.6609","lon":"-95.5555","display_name":"Paris, Texas, United States"}
		]`))
	})

	locations, err := client.GeocodeMany(context.Background(), "Paris", 5)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	// Provider relevance order is preserved
	assert.Equal(t, "Paris, France", locations[0].Address)
	assert.Equal(t, "Paris, Texas, United States", locations[1].Address)
}

func TestGeocodeProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GeocodeOne(context.Background(), "Paris")
	assert.Error(t, err)
}

func TestGeocodeBadPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := client.GeocodeMany(context.Background(), "Paris", 5)
	assert.Error(t, err)
}

func TestGeocodeSkipsUnparseableCoordinates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"lat":"garbage","lon":"2.3522","display_name":"Broken"},
			{"lat":"48.8566","lon":"2.3522","display_name":"Paris, France"}
		]`))
	})

	locations, err := client.GeocodeMany(context.Background(), "Paris", 5)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Paris, France", locations[0].Address)
}

func TestGeocodeCachesResponses(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"48.8566","lon":"2.3522","display_name":"Paris, France"}]`))
	})

	for i := 0; i < 3; i++ {
		location, err := client.GeocodeOne(context.Background(), "Paris")
		require.NoError(t, err)
		require.NotNil(t, location)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(requests))
}
