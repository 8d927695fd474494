package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: outcome={success,error}
	RunDuration     prometheus.Histogram
	PipelineRunning prometheus.Gauge

	// Provider fetch metrics.
	FetchRequests    *prometheus.CounterVec // labels: series={hourly,half_day}, outcome={success,error}
	PeriodsProcessed *prometheus.CounterVec // labels: series={hourly,half_day}
	EntriesProduced  prometheus.Counter

	// Classification metrics.
	ClassifyRequests *prometheus.CounterVec   // labels: mode={summary,hourly}, outcome={success,fallback,error,skipped}
	ClassifyDuration *prometheus.HistogramVec // labels: mode={summary,hourly}
	CacheBuilds      prometheus.Counter

	// Sink metrics.
	SinkRequests *prometheus.CounterVec // labels: sink={http,kafka}, outcome={success,error}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.PipelineRunning,
		m.FetchRequests,
		m.PeriodsProcessed,
		m.EntriesProduced,
		m.ClassifyRequests,
		m.ClassifyDuration,
		m.CacheBuilds,
		m.SinkRequests,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_etl",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "forecast_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-aggregate-classify-load run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forecast_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_etl",
			Name:      "fetch_requests_total",
			Help:      "Forecast provider requests by series and outcome.",
		}, []string{"series", "outcome"}),
		PeriodsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_etl",
			Name:      "periods_processed_total",
			Help:      "Forecast periods folded into daily aggregates, by series.",
		}, []string{"series"}),
		EntriesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forecast_etl",
			Name:      "entries_produced_total",
			Help:      "Merged per-day forecast entries handed to the sink.",
		}),
		ClassifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_etl",
			Name:      "classify_requests_total",
			Help:      "Descriptor classifications by mode and outcome.",
		}, []string{"mode", "outcome"}),
		ClassifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forecast_etl",
			Name:      "classify_duration_seconds",
			Help:      "Model call duration per classification, by mode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"mode"}),
		CacheBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forecast_etl",
			Name:      "embedding_cache_builds_total",
			Help:      "Times the descriptor embedding cache was built from scratch.",
		}),
		SinkRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_etl",
			Name:      "sink_requests_total",
			Help:      "Deliveries of finalized entries by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}
}
