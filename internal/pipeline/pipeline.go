// Package pipeline orchestrates one forecast run: fetch both series,
// aggregate and merge them into per-day entries, classify descriptors, and
// hand the result to the configured sinks.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
)

// SeriesFetcher retrieves the two forecast series from the provider.
type SeriesFetcher interface {
	FetchHourly(ctx context.Context) ([]domain.WeatherPeriod, error)
	FetchHalfDay(ctx context.Context) ([]domain.WeatherPeriod, error)
}

// EntryClassifier finalizes descriptors on a merged entry.
type EntryClassifier interface {
	EnsureCache(ctx context.Context) error
	ClassifyEntry(ctx context.Context, entry *domain.ForecastEntry)
}

// Loader delivers the finalized entry batch to a sink.
type Loader interface {
	Load(ctx context.Context, entries []*domain.ForecastEntry) error
}

// Pipeline runs the fetch-aggregate-classify-load sequence. A run is a
// linear pass: I/O failures degrade the affected unit (one series, one
// entry, one sink) and never abort the batch.
type Pipeline struct {
	fetcher    SeriesFetcher
	classifier EntryClassifier
	loaders    []Loader
	loc        *time.Location
	days       int
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// New creates a Pipeline over the given stages. days is the size of the
// forward-looking date window; loaders run in order on every batch.
func New(fetcher SeriesFetcher, classifier EntryClassifier, loaders []Loader, loc *time.Location, days int, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		classifier: classifier,
		loaders:    loaders,
		loc:        loc,
		days:       days,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no completed forecast runs yet")
	}
	return nil
}

// Run executes one complete pipeline pass.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	window := domain.DateWindow(p.days, p.loc)
	p.logger.Info("forecast run starting", "window_start", window[0], "window_end", window[len(window)-1])

	hourly := p.fetchSeries(ctx, "hourly", p.fetcher.FetchHourly, window)
	halfDay := p.fetchSeries(ctx, "half_day", p.fetcher.FetchHalfDay, window)
	if err := ctx.Err(); err != nil {
		return err
	}

	entries := domain.MergeForecasts(
		domain.AggregateHourly(hourly, p.loc),
		domain.AggregateHalfDay(halfDay, p.loc),
	)
	p.metrics.EntriesProduced.Add(float64(len(entries)))
	p.logger.Info("aggregated forecast entries", "entries", len(entries),
		"hourly_periods", len(hourly), "half_day_periods", len(halfDay))

	failed := p.classify(ctx, entries)
	if err := ctx.Err(); err != nil {
		return err
	}

	failed = p.load(ctx, entries) || failed
	if err := ctx.Err(); err != nil {
		return err
	}

	outcome := "success"
	if failed {
		outcome = "error"
	}
	p.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("forecast run complete", "outcome", outcome, "duration", time.Since(start))
	return nil
}

// fetchSeries fetches one series and filters it to the date window. A
// failed fetch degrades to an absent series; the run continues with the
// other one.
func (p *Pipeline) fetchSeries(ctx context.Context, series string, fetch func(context.Context) ([]domain.WeatherPeriod, error), window []string) []domain.WeatherPeriod {
	periods, err := fetch(ctx)
	if err != nil {
		p.logger.Error("forecast series unavailable", "series", series, "error", err)
		return nil
	}
	kept := domain.FilterPeriods(periods, window, p.loc)
	p.metrics.PeriodsProcessed.WithLabelValues(series).Add(float64(len(kept)))
	return kept
}

// classify assigns descriptors to every entry. Returns true when the
// embedding cache could not be made available; per-entry failures are
// handled inside the classifier.
func (p *Pipeline) classify(ctx context.Context, entries []*domain.ForecastEntry) bool {
	failed := false
	if err := p.classifier.EnsureCache(ctx); err != nil {
		p.logger.Error("embedding cache unavailable, hourly descriptors will be dropped", "error", err)
		failed = true
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return failed
		}
		p.classifier.ClassifyEntry(ctx, entry)
	}
	return failed
}

// load hands the batch to every configured sink. A failing sink is logged
// and does not block the others. Returns true when any sink failed.
func (p *Pipeline) load(ctx context.Context, entries []*domain.ForecastEntry) bool {
	failed := false
	for _, loader := range p.loaders {
		if err := loader.Load(ctx, entries); err != nil {
			p.logger.Error("load forecast entries failed", "error", err, "entries", len(entries))
			failed = true
		}
	}
	return failed
}
