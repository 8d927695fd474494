package nws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "forecast-etl-test"

func testClient(halfDayURL, hourlyURL string) *Client {
	return NewClient(halfDayURL, hourlyURL, testUserAgent, 5*time.Second, 100, 100,
		slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

const envelope = `{
	"properties": {
		"periods": [
			{
				"number": 1,
				"startTime": "2024-11-03T13:00:00-05:00",
				"endTime": "2024-11-03T14:00:00-05:00",
				"isDaytime": true,
				"temperature": 70,
				"temperatureUnit": "F",
				"probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": 20},
				"windSpeed": "10 mph",
				"shortForecast": "Sunny"
			}
		]
	}
}`

func TestFetchHourly_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "/forecast/hourly", r.URL.Path)
		_, _ = w.Write([]byte(envelope))
	}))
	defer srv.Close()

	c := testClient(srv.URL+"/forecast", srv.URL+"/forecast/hourly")
	periods, err := c.FetchHourly(context.Background())
	require.NoError(t, err)
	require.Len(t, periods, 1)

	p := periods[0]
	assert.Equal(t, 70, p.Temperature)
	assert.Equal(t, "Sunny", p.ShortForecast)
	assert.True(t, p.IsDaytime)
	require.NotNil(t, p.ProbabilityOfPrecipitation.Value)
	assert.Equal(t, 20, *p.ProbabilityOfPrecipitation.Value)
}

func TestFetchHalfDay_UsesHalfDayURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		_, _ = w.Write([]byte(envelope))
	}))
	defer srv.Close()

	c := testClient(srv.URL+"/forecast", srv.URL+"/forecast/hourly")
	_, err := c.FetchHalfDay(context.Background())
	require.NoError(t, err)
}

func TestFetch_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchHourly(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetch_MalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type": "Feature"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchHourly(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestFetch_RateLimiterHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(envelope))
	}))
	defer srv.Close()

	// Zero-rate limiter never grants a token; the fetch must give up when
	// the context expires instead of blocking forever.
	c := NewClient(srv.URL, srv.URL, testUserAgent, time.Second, 0, 0,
		slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.FetchHourly(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
