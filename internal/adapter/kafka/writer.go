// Package kafka publishes the run's summary entries to a sink topic for
// downstream renderers and dashboards.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/galshore/wind-window-report/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces summary entries to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummary serializes and publishes every summary entry in a single
// WriteMessages call. An empty summary publishes nothing.
func (w *Writer) PublishSummary(ctx context.Context, summary domain.RunSummary, runID string) error {
	if len(summary) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summary))
	for i := range summary {
		msg, err := serializeToMessage(summary[i], runID)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}
	w.logger.Info("summary published", "topic", w.writer.Topic, "entries", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a summary entry into a Kafka message keyed by
// site, tagged with the run it belongs to.
func serializeToMessage(entry domain.SummaryEntry, runID string) (kafkago.Message, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary entry: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.Site),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "generated_at", Value: []byte(time.Now().Format(time.RFC3339))},
		},
	}, nil
}
