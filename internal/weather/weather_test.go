package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/resilience"
)

var nagpur = geo.Coordinate{Lat: 21.1458, Lng: 79.0882}

const currentJSON = `{
  "weather": [{"id": 800, "main": "Clear", "description": "clear sky"}],
  "main": {"temp": 38.4, "feels_like": 41.2, "humidity": 22},
  "wind": {"speed": 3.6}
}`

const forecastJSON = `{
  "list": [
    {"dt_txt": "2025-05-01 12:00:00", "main": {"temp": 39.0, "humidity": 20}, "weather": [{"description": "clear sky"}]},
    {"dt_txt": "2025-05-01 15:00:00", "main": {"temp": 44.1, "humidity": 18}, "weather": [{"description": "clear sky"}]},
    {"dt_txt": "2025-05-01 18:00:00", "main": {"temp": 36.0, "humidity": 30}, "weather": [{"description": "light rain"}]}
  ]
}`

func fastRetry() resilience.Policy {
	return resilience.Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func owmHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "21.1458", q.Get("lat"))
		assert.Equal(t, "79.0882", q.Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/weather":
			_, _ = w.Write([]byte(currentJSON))
		case "/forecast":
			assert.Equal(t, "8", q.Get("cnt"))
			_, _ = w.Write([]byte(forecastJSON))
		default:
			http.NotFound(w, r)
		}
	}
}

func TestFallbackWithoutAPIKey(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	})

	c := NewClient(WithBaseURL(srv.URL))

	snap, err := c.Current(context.Background(), nagpur)
	require.NoError(t, err)
	assert.Equal(t, Fallback(), *snap)
	assert.True(t, snap.IsFallback)
	assert.Equal(t, 35.0, snap.TempC)
	assert.Equal(t, 45.0, snap.HumidityPct)
	assert.Equal(t, "unknown (fallback)", snap.Description)

	fc, err := c.Forecast(context.Background(), nagpur)
	require.NoError(t, err)
	require.Len(t, fc, ForecastEntries)
	for _, f := range fc {
		assert.True(t, f.IsFallback)
		assert.Equal(t, 35.0, f.TempC)
	}

	cond, err := c.Conditions(context.Background(), nagpur)
	require.NoError(t, err)
	assert.False(t, cond.HeatwaveAlert)
	assert.False(t, cond.RainExpected)
	assert.Equal(t, 35.0, cond.MaxForecastTemp)

	assert.Zero(t, hits.Load())
}

func TestCurrent(t *testing.T) {
	srv := newTestServer(t, owmHandler(t))
	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	snap, err := c.Current(context.Background(), nagpur)
	require.NoError(t, err)
	assert.Equal(t, &Snapshot{
		TempC:       38.4,
		HumidityPct: 22,
		Description: "clear sky",
		WindSpeedMS: 3.6,
		FeelsLikeC:  41.2,
	}, snap)
}

func TestForecast(t *testing.T) {
	srv := newTestServer(t, owmHandler(t))
	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	fc, err := c.Forecast(context.Background(), nagpur)
	require.NoError(t, err)
	require.Len(t, fc, 3)
	assert.Equal(t, "2025-05-01 15:00:00", fc[1].Time)
	assert.Equal(t, 44.1, fc[1].TempC)
	assert.Equal(t, "light rain", fc[2].Description)
	assert.False(t, fc[0].IsFallback)
}

func TestForecast_TruncatesToEightSlots(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"list": [` +
			`{"main":{"temp":1}},{"main":{"temp":2}},{"main":{"temp":3}},{"main":{"temp":4}},` +
			`{"main":{"temp":5}},{"main":{"temp":6}},{"main":{"temp":7}},{"main":{"temp":8}},` +
			`{"main":{"temp":9}},{"main":{"temp":10}}]}`))
	})
	c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	fc, err := c.Forecast(context.Background(), nagpur)
	require.NoError(t, err)
	require.Len(t, fc, ForecastEntries)
	assert.Equal(t, 8.0, fc[7].TempC)
	assert.Empty(t, fc[0].Description)
}

func TestConditions(t *testing.T) {
	srv := newTestServer(t, owmHandler(t))
	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	cond, err := c.Conditions(context.Background(), nagpur)
	require.NoError(t, err)
	assert.Equal(t, 38.4, cond.Current.TempC)
	assert.Len(t, cond.Forecast, 3)
	assert.Equal(t, 44.1, cond.MaxForecastTemp)
	assert.True(t, cond.HeatwaveAlert)
	assert.True(t, cond.RainExpected)

	sc := cond.Spoilage()
	assert.Equal(t, 38.4, sc.TempC)
	assert.Equal(t, 44.1, sc.MaxForecastTemp)
	assert.True(t, sc.HeatwaveAlert)
}

func TestRetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(currentJSON))
	})
	c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	snap, err := c.Current(context.Background(), nagpur)
	require.NoError(t, err)
	assert.Equal(t, 38.4, snap.TempC)
	assert.Equal(t, int32(3), hits.Load())
}

func TestGivesUpAfterRetries(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	_, err := c.Current(context.Background(), nagpur)
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
	assert.Contains(t, err.Error(), "weather: current")
	assert.Equal(t, int32(3), hits.Load())
}

func TestPermanentStatusNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	c := NewClient(WithAPIKey("bad"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	_, err := c.Forecast(context.Background(), nagpur)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.False(t, resilience.IsTransient(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestMalformedBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	_, err := c.Current(context.Background(), nagpur)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

func TestConditions_PropagatesErrors(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/forecast" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(currentJSON))
	})
	c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL), WithRetry(fastRetry()))

	cond, err := c.Conditions(context.Background(), nagpur)
	require.Error(t, err)
	assert.Nil(t, cond)
	assert.Contains(t, err.Error(), "weather: forecast")
}

func TestCancelledContext(t *testing.T) {
	srv := newTestServer(t, owmHandler(t))
	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL), WithRateLimit(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Current(ctx, nagpur)
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	now := Snapshot{TempC: 30}

	tests := []struct {
		name     string
		forecast []ForecastEntry
		peak     float64
		heatwave bool
		rain     bool
	}{
		{"empty forecast uses current", nil, 30, false, false},
		{"exactly five above is not a heatwave", []ForecastEntry{{TempC: 35}}, 35, false, false},
		{"more than five above", []ForecastEntry{{TempC: 33}, {TempC: 35.5}}, 35.5, true, false},
		{"cooling forecast", []ForecastEntry{{TempC: 27}, {TempC: 25}}, 27, false, false},
		{"rain in any slot", []ForecastEntry{{TempC: 29, Description: "Heavy Intensity RAIN"}}, 29, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Summarize(now, tt.forecast)
			assert.Equal(t, tt.peak, c.MaxForecastTemp)
			assert.Equal(t, tt.heatwave, c.HeatwaveAlert)
			assert.Equal(t, tt.rain, c.RainExpected)
		})
	}
}
