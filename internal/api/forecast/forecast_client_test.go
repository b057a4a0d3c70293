package forecast

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

const parisForecast = `{
	"latitude": 48.86,
	"longitude": 2.35,
	"timezone": "Europe/Paris",
	"hourly": {
		"time": ["2026-08-28T00:00", "2026-08-28T01:00"],
		"temperature_2m": [18.4, 17.9]
	},
	"daily": {
		"time": ["2026-08-28"],
		"temperature_2m_max": [24.1],
		"temperature_2m_min": [15.3]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*OpenMeteoClient, *int64) {
	t.Helper()

	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewOpenMeteoClient(server.URL, 5*time.Second, time.Minute, slog.Default())
	return client, &requests
}

func TestFetch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "48.8566", q.Get("latitude"))
		assert.Equal(t, "2.3522", q.Get("longitude"))
		assert.Equal(t, "temperature_2m", q.Get("hourly"))
		assert.Equal(t, "temperature_2m_max,temperature_2m_min", q.Get("daily"))
		assert.Equal(t, "auto", q.Get("timezone"))

		w.Write([]byte(parisForecast))
	})

	data, err := client.Fetch(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "Europe/Paris", data.Timezone)
	assert.Equal(t, []float64{18.4, 17.9}, data.Hourly.Temperature2M)
	assert.Equal(t, []float64{24.1}, data.Daily.Temperature2MMax)
	assert.Equal(t, []float64{15.3}, data.Daily.Temperature2MMin)
}

func TestFetchProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Fetch(context.Background(), 48.8566, 2.3522)
	assert.Error(t, err)
}

func TestFetchBadPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Fetch(context.Background(), 48.8566, 2.3522)
	assert.Error(t, err)
}

func TestFetchUnreachableProvider(t *testing.T) {
	client := NewOpenMeteoClient("http://127.0.0.1:1", time.Second, time.Minute, slog.Default())

	_, err := client.Fetch(context.Background(), 48.8566, 2.3522)
	assert.Error(t, err)
}

func TestFetchCachesResponses(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(parisForecast))
	})

	for i := 0; i < 3; i++ {
		data, err := client.Fetch(context.Background(), 48.8566, 2.3522)
		require.NoError(t, err)
		require.NotNil(t, data)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(requests))
}
