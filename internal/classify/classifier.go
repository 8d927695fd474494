package classify

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
)

// Generator answers a prompt with a single text completion.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Classifier assigns canonical weather descriptors to forecast entries:
// a generative-model call per day/night summary and an embedding
// nearest-neighbor match per hourly short-forecast string.
type Classifier struct {
	generator Generator
	embedder  Embedder
	cache     *EmbeddingCache
	vocab     []string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewClassifier creates a Classifier over the canonical vocabulary.
func NewClassifier(generator Generator, embedder Embedder, cache *EmbeddingCache, logger *slog.Logger, metrics *observability.Metrics) *Classifier {
	return &Classifier{
		generator: generator,
		embedder:  embedder,
		cache:     cache,
		vocab:     domain.Descriptors(),
		logger:    logger,
		metrics:   metrics,
	}
}

// EnsureCache makes the descriptor embedding cache available, building and
// persisting it when absent.
func (c *Classifier) EnsureCache(ctx context.Context) error {
	return c.cache.Ensure(ctx)
}

// ClassifyEntry finalizes one entry in place: the day and night summaries
// get a descriptor each, and every hourly short-forecast string is replaced
// by its nearest vocabulary match. Failures are logged per item and never
// abort the rest of the entry.
func (c *Classifier) ClassifyEntry(ctx context.Context, entry *domain.ForecastEntry) {
	entry.DaytimeWeatherDescriptor = c.classifySummary(ctx, entry.Date, "Daytime",
		entry.ShortDaytimeForecast, entry.DetailedDaytimeForecast)
	entry.NighttimeWeatherDescriptor = c.classifySummary(ctx, entry.Date, "Nighttime",
		entry.ShortNighttimeForecast, entry.DetailedNighttimeForecast)

	if entry.HourlyForecast != nil {
		entry.HourlyForecast = c.classifyHours(ctx, entry.Date, entry.HourlyForecast)
	}
}

// classifySummary assigns a descriptor to one half-day text pair. Empty
// title and detail mean that half was never observed; classification is
// skipped and the descriptor stays empty.
func (c *Classifier) classifySummary(ctx context.Context, date, timeOfDay, title, detail string) string {
	if title == "" && detail == "" {
		c.metrics.ClassifyRequests.WithLabelValues("summary", "skipped").Inc()
		return ""
	}

	start := time.Now()
	response, err := c.generator.Generate(ctx, systemPrompt, buildPrompt(title, timeOfDay, detail, c.vocab))
	c.metrics.ClassifyDuration.WithLabelValues("summary").Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("summary classification failed",
			"date", date, "time_of_day", timeOfDay, "error", err)
		c.metrics.ClassifyRequests.WithLabelValues("summary", "error").Inc()
		return ""
	}

	descriptor := strings.TrimSpace(response)
	if domain.IsDescriptor(descriptor) {
		c.metrics.ClassifyRequests.WithLabelValues("summary", "success").Inc()
		return descriptor
	}

	// The model wandered outside the vocabulary. Fall back to the nearest
	// embedding match of the short title.
	c.logger.Warn("model returned out-of-vocabulary descriptor, falling back to embedding match",
		"date", date, "time_of_day", timeOfDay, "response", descriptor)
	fallback, err := c.classifyText(ctx, title)
	if err != nil {
		c.logger.Warn("fallback classification failed",
			"date", date, "time_of_day", timeOfDay, "error", err)
		c.metrics.ClassifyRequests.WithLabelValues("summary", "error").Inc()
		return ""
	}
	c.metrics.ClassifyRequests.WithLabelValues("summary", "fallback").Inc()
	return fallback
}

// classifyHours maps each hour's free-text forecast to its canonical
// descriptor. Hours whose embedding fails are omitted from the result, so
// the returned map may be narrower than the input.
func (c *Classifier) classifyHours(ctx context.Context, date string, hourly map[string]string) map[string]string {
	classified := make(map[string]string, len(hourly))
	for hour, text := range hourly {
		start := time.Now()
		descriptor, err := c.classifyText(ctx, text)
		c.metrics.ClassifyDuration.WithLabelValues("hourly").Observe(time.Since(start).Seconds())
		if err != nil {
			c.logger.Warn("hourly classification failed",
				"date", date, "hour", hour, "text", text, "error", err)
			c.metrics.ClassifyRequests.WithLabelValues("hourly", "error").Inc()
			continue
		}
		classified[hour] = descriptor
		c.metrics.ClassifyRequests.WithLabelValues("hourly", "success").Inc()
	}
	return classified
}

// classifyText embeds the input and returns the vocabulary entry with the
// greatest cosine similarity. Comparison is strict, so ties resolve to the
// earlier entry in vocabulary order.
func (c *Classifier) classifyText(ctx context.Context, text string) (string, error) {
	if !c.cache.Loaded() {
		return "", errors.New("descriptor embedding cache not loaded")
	}

	embedding, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return "", err
	}

	best := ""
	bestScore := math.Inf(-1)
	for _, descriptor := range c.vocab {
		vec, ok := c.cache.Vector(descriptor)
		if !ok {
			continue
		}
		if score := cosineSimilarity(embedding, vec); score > bestScore {
			bestScore = score
			best = descriptor
		}
	}
	if best == "" {
		return "", errors.New("no vocabulary vectors available")
	}
	return best, nil
}

// cosineSimilarity computes dot(a,b) / (|a|*|b|). Mismatched lengths and
// zero-magnitude vectors score 0 so they never outrank a real match.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
