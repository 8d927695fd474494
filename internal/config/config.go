package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Forecast provider.
	NWSBaseURL   string
	NWSUserAgent string
	NWSTimeout   time.Duration
	NWSRateLimit float64 // requests per second
	NWSRateBurst int

	// Aggregation window.
	ForecastTimeZone string
	ForecastDays     int

	// Model endpoint.
	OllamaURL           string
	GenerateModel       string
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbeddingCachePath  string
	OllamaTimeout       time.Duration

	// Sinks.
	SinkURL      string
	SinkTimeout  time.Duration
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Process.
	RunInterval     time.Duration // 0 means a single run
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	nwsTimeout, err := envDuration("NWS_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	ollamaTimeout, err := envDuration("OLLAMA_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	sinkTimeout, err := envDuration("SINK_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	runInterval, err := envDuration("RUN_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	rateLimit, err := envFloat("NWS_RATE_LIMIT", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		NWSBaseURL:   envOrDefault("NWS_BASE_URL", "https://api.weather.gov/gridpoints/OKX/31,29"),
		NWSUserAgent: envOrDefault("NWS_USER_AGENT", "forecast-etl"),
		NWSTimeout:   nwsTimeout,
		NWSRateLimit: rateLimit,
		NWSRateBurst: envInt("NWS_RATE_BURST", 2),

		ForecastTimeZone: envOrDefault("FORECAST_TIMEZONE", "America/New_York"),
		ForecastDays:     envInt("FORECAST_DAYS", 5),

		OllamaURL:           envOrDefault("OLLAMA_URL", "http://127.0.0.1:11434"),
		GenerateModel:       envOrDefault("GENERATE_MODEL", "gemma3:1b"),
		EmbeddingModel:      envOrDefault("EMBEDDING_MODEL", "mxbai-embed-large:335m"),
		EmbeddingDimensions: envInt("EMBEDDING_DIMENSIONS", 700),
		EmbeddingCachePath:  envOrDefault("EMBEDDING_CACHE_PATH", "descriptor_embeddings.json"),
		OllamaTimeout:       ollamaTimeout,

		SinkURL:      os.Getenv("SINK_URL"),
		SinkTimeout:  sinkTimeout,
		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "forecast-entries"),

		RunInterval:     runInterval,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.NWSBaseURL == "" {
		return nil, errors.New("NWS_BASE_URL is required")
	}
	if cfg.SinkURL == "" && !cfg.KafkaEnabled {
		return nil, errors.New("SINK_URL is required unless KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.ForecastDays < 0 {
		return nil, errors.New("FORECAST_DAYS must not be negative")
	}
	if cfg.EmbeddingDimensions <= 0 {
		return nil, errors.New("EMBEDDING_DIMENSIONS must be positive")
	}
	if _, err := time.LoadLocation(cfg.ForecastTimeZone); err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// HalfDayForecastURL is the endpoint for the daytime/nighttime series.
func (c *Config) HalfDayForecastURL() string {
	return strings.TrimSuffix(c.NWSBaseURL, "/") + "/forecast"
}

// HourlyForecastURL is the endpoint for the hourly series.
func (c *Config) HourlyForecastURL() string {
	return strings.TrimSuffix(c.NWSBaseURL, "/") + "/forecast/hourly"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
