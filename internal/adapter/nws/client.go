// Package nws fetches gridpoint forecast series from the National Weather
// Service API.
package nws

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	"golang.org/x/time/rate"
)

// Client fetches the half-day and hourly forecast series for one configured
// gridpoint. Requests pass through a shared rate limiter; the NWS API asks
// clients to throttle and always send an identifying User-Agent.
type Client struct {
	halfDayURL string
	hourlyURL  string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an NWS forecast client.
func NewClient(halfDayURL, hourlyURL, userAgent string, timeout time.Duration, rps float64, burst int, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		halfDayURL: halfDayURL,
		hourlyURL:  hourlyURL,
		userAgent:  userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
		metrics: metrics,
	}
}

// FetchHourly returns the hourly forecast series in provider order.
func (c *Client) FetchHourly(ctx context.Context) ([]domain.WeatherPeriod, error) {
	return c.fetch(ctx, c.hourlyURL, "hourly")
}

// FetchHalfDay returns the daytime/nighttime forecast series in provider order.
func (c *Client) FetchHalfDay(ctx context.Context) ([]domain.WeatherPeriod, error) {
	return c.fetch(ctx, c.halfDayURL, "half_day")
}

func (c *Client) fetch(ctx context.Context, url, series string) ([]domain.WeatherPeriod, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(series, "error").Inc()
		return nil, fmt.Errorf("%s forecast request: %w", series, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchRequests.WithLabelValues(series, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("nws API error: status %d: %s", resp.StatusCode, body)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(series, "error").Inc()
		return nil, fmt.Errorf("read %s response: %w", series, err)
	}

	periods, err := domain.ExtractPeriods(payload)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(series, "error").Inc()
		return nil, err
	}

	c.metrics.FetchRequests.WithLabelValues(series, "success").Inc()
	c.logger.Debug("fetched forecast series", "series", series, "periods", len(periods))
	return periods, nil
}
