package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/forecast-etl/internal/observability"
)

// Embedder produces a fixed-dimensionality vector for a text string.
type Embedder interface {
	Embed(ctx context.Context, input string) ([]float64, error)
}

// EmbeddingCache lazily computes and persists one embedding vector per
// descriptor in the canonical vocabulary. The persisted file is a single
// JSON object mapping descriptor to vector. The cache is immutable once
// loaded for the duration of a run.
type EmbeddingCache struct {
	path     string
	vocab    []string
	embedder Embedder
	logger   *slog.Logger
	metrics  *observability.Metrics

	vectors map[string][]float64
}

// NewEmbeddingCache creates a cache over the given vocabulary, persisted at
// path. Nothing is computed until Ensure is called.
func NewEmbeddingCache(path string, vocab []string, embedder Embedder, logger *slog.Logger, metrics *observability.Metrics) *EmbeddingCache {
	return &EmbeddingCache{
		path:     path,
		vocab:    vocab,
		embedder: embedder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Ensure loads the persisted cache, building and persisting it first when
// the file is absent. A persisted cache whose descriptor set no longer
// matches the vocabulary is considered stale and rebuilt.
func (c *EmbeddingCache) Ensure(ctx context.Context) error {
	if c.vectors != nil {
		return nil
	}

	vectors, err := c.load()
	switch {
	case err == nil && c.matchesVocabulary(vectors):
		c.vectors = vectors
		return nil
	case err == nil:
		c.logger.Info("descriptor embedding cache is stale, rebuilding", "path", c.path)
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Info("descriptor embedding cache missing, building", "path", c.path)
	default:
		return fmt.Errorf("load embedding cache: %w", err)
	}

	vectors, err = c.build(ctx)
	if err != nil {
		return fmt.Errorf("build embedding cache: %w", err)
	}
	if err := c.persist(vectors); err != nil {
		return fmt.Errorf("persist embedding cache: %w", err)
	}

	c.metrics.CacheBuilds.Inc()
	c.vectors = vectors
	return nil
}

// Vector returns the cached embedding for a descriptor. The second result
// is false before Ensure has succeeded or for unknown descriptors.
func (c *EmbeddingCache) Vector(descriptor string) ([]float64, bool) {
	v, ok := c.vectors[descriptor]
	return v, ok
}

// Loaded reports whether Ensure has populated the cache in this run.
func (c *EmbeddingCache) Loaded() bool {
	return c.vectors != nil
}

func (c *EmbeddingCache) load() (map[string][]float64, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var vectors map[string][]float64
	if err := json.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return vectors, nil
}

func (c *EmbeddingCache) matchesVocabulary(vectors map[string][]float64) bool {
	if len(vectors) != len(c.vocab) {
		return false
	}
	for _, d := range c.vocab {
		if len(vectors[d]) == 0 {
			return false
		}
	}
	return true
}

// build computes one embedding per vocabulary entry, in vocabulary order.
// Any single failure aborts the build; a partial cache is never persisted.
func (c *EmbeddingCache) build(ctx context.Context) (map[string][]float64, error) {
	vectors := make(map[string][]float64, len(c.vocab))
	for _, descriptor := range c.vocab {
		vec, err := c.embedder.Embed(ctx, descriptor)
		if err != nil {
			return nil, fmt.Errorf("embed %q: %w", descriptor, err)
		}
		vectors[descriptor] = vec
	}
	return vectors, nil
}

// persist writes the full mapping atomically: a temp file in the target
// directory renamed over the destination.
func (c *EmbeddingCache) persist(vectors map[string][]float64) error {
	data, err := json.MarshalIndent(vectors, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".embeddings-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
