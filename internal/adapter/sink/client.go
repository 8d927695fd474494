// Package sink delivers finalized forecast entries to the downstream
// storage endpoint.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	"github.com/go-resty/resty/v2"
)

// Client PUTs the full entry batch as JSON to a configured endpoint.
// It implements pipeline.Loader.
type Client struct {
	endpoint string
	http     *resty.Client
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewClient creates a sink client for the given endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		endpoint: endpoint,
		http:     resty.New().SetTimeout(timeout),
		logger:   logger,
		metrics:  metrics,
	}
}

// Load replaces the downstream forecast set with the given entries.
// Non-2xx responses are errors; the caller decides whether to retry.
func (c *Client) Load(ctx context.Context, entries []*domain.ForecastEntry) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(entries).
		Put(c.endpoint)
	if err != nil {
		c.metrics.SinkRequests.WithLabelValues("http", "error").Inc()
		return fmt.Errorf("sink request: %w", err)
	}
	if resp.IsError() {
		c.metrics.SinkRequests.WithLabelValues("http", "error").Inc()
		return fmt.Errorf("sink rejected entries: status %d: %s", resp.StatusCode(), resp.String())
	}

	c.metrics.SinkRequests.WithLabelValues("http", "success").Inc()
	c.logger.Info("loaded forecast entries", "count", len(entries), "status", resp.StatusCode())
	return nil
}
