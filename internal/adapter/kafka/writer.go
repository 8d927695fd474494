// Package kafka publishes finalized forecast entries to a Kafka topic for
// consumers that prefer a stream over the HTTP sink.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces forecast entries to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// Load serializes and publishes the entry batch in a single WriteMessages
// call. The date key keys each message, so per-date compaction keeps only
// the latest forecast.
func (w *Writer) Load(ctx context.Context, entries []*domain.ForecastEntry) error {
	if len(entries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(entries))
	for i := range entries {
		msg, err := serializeToMessage(entries[i])
		if err != nil {
			w.metrics.SinkRequests.WithLabelValues("kafka", "error").Inc()
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.SinkRequests.WithLabelValues("kafka", "error").Inc()
		return err
	}
	w.metrics.SinkRequests.WithLabelValues("kafka", "success").Inc()
	w.logger.Info("published forecast entries", "count", len(entries), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastEntry into a Kafka message.
func serializeToMessage(entry *domain.ForecastEntry) (kafkago.Message, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast entry: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.Date),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "date", Value: []byte(entry.Date)},
			{Key: "day_of_week", Value: []byte(entry.DayOfWeek)},
		},
	}, nil
}
