package ollama

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, "gemma3:1b", "mxbai-embed-large:335m", 700, 5*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemma3:1b", req.Model)
		assert.False(t, req.Stream)
		assert.False(t, req.Think)
		assert.Equal(t, 2, req.Options.Seed)
		assert.Zero(t, req.Options.Temperature)
		assert.Equal(t, 0.9, req.Options.TopP)
		assert.Contains(t, req.Prompt, "Title:")

		require.NoError(t, json.NewEncoder(w).Encode(generateResponse{Response: "Sunny"}))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Generate(context.Background(), "system", "Title: Sunny")
	require.NoError(t, err)
	assert.Equal(t, "Sunny", got)
}

func TestEmbed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mxbai-embed-large:335m", req.Model)
		assert.Equal(t, "Sunny", req.Input)
		assert.Equal(t, 700, req.Dimensions)

		require.NoError(t, json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float64{{0.1, 0.2, 0.3}},
		}))
	}))
	defer srv.Close()

	vec, err := testClient(srv.URL).Embed(context.Background(), "Sunny")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestEmbed_EmptyEmbeddings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(embedResponse{}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Embed(context.Background(), "Sunny")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embeddings")
}

func TestGenerate_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	for i := 0; i < 5; i++ {
		_, err := c.Generate(context.Background(), "system", "prompt")
		require.Error(t, err)
	}

	// Breaker is now open: the request fails without reaching the server.
	srv.Close()
	_, err := c.Generate(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
