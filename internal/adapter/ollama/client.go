// Package ollama talks to a local Ollama server for text generation and
// embeddings.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Decoding parameters for descriptor classification. Deterministic decoding
// (fixed seed, zero temperature) keeps repeated runs comparable; the model
// still offers no hard determinism guarantee.
const (
	generateSeed        = 2
	generateTemperature = 0.0
	generateTopP        = 0.9
)

// Client implements classify.Generator and classify.Embedder against the
// Ollama HTTP API. Calls run through a circuit breaker so a dead model
// server fails fast instead of timing out once per hour and per descriptor.
type Client struct {
	baseURL        string
	generateModel  string
	embeddingModel string
	dimensions     int
	httpClient     *http.Client
	breaker        *gobreaker.CircuitBreaker
	logger         *slog.Logger
}

// NewClient creates an Ollama client for the given models.
func NewClient(baseURL, generateModel, embeddingModel string, dimensions int, timeout time.Duration, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "ollama",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		generateModel:  generateModel,
		embeddingModel: embeddingModel,
		dimensions:     dimensions,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

type generateOptions struct {
	Seed        int     `json:"seed"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Think   bool            `json:"think"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type embedRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Generate runs one deterministic completion and returns the raw response
// text.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	body := generateRequest{
		Model:  c.generateModel,
		System: system,
		Prompt: prompt,
		Stream: false,
		Think:  false,
		Options: generateOptions{
			Seed:        generateSeed,
			Temperature: generateTemperature,
			TopP:        generateTopP,
		},
	}

	var out generateResponse
	if err := c.post(ctx, "/api/generate", body, &out); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out.Response, nil
}

// Embed returns the embedding vector for one input string.
func (c *Client) Embed(ctx context.Context, input string) ([]float64, error) {
	body := embedRequest{
		Model:      c.embeddingModel,
		Input:      input,
		Dimensions: c.dimensions,
	}

	var out embedResponse
	if err := c.post(ctx, "/api/embed", body, &out); err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(out.Embeddings) == 0 {
		return nil, fmt.Errorf("embed: response carried no embeddings")
	}
	return out.Embeddings[0], nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("ollama API error: status %d: %s", resp.StatusCode, snippet)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	data, ok := result.([]byte)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
