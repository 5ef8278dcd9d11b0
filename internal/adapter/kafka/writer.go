package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/impact-sim-service/internal/config"
	"github.com/couchcryptid/impact-sim-service/internal/domain"
)

// Result message headers.
const (
	HeaderEventScale  = "event_scale"
	HeaderGeneratedAt = "generated_at"
	HeaderSource      = "source"
)

// Writer produces simulation results to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes simulation results to the sink topic in
// a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, results []domain.SimulationResult) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeToMessage(results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d results: %w", len(msgs), err)
	}
	w.logger.Debug("loaded batch", "size", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SimulationResult into a Kafka message keyed by
// the result id.
func serializeToMessage(result domain.SimulationResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize simulation result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderEventScale, Value: []byte(result.Report.Summary.EventScale)},
			{Key: HeaderGeneratedAt, Value: []byte(result.GeneratedAt.Format(time.RFC3339))},
			{Key: HeaderSource, Value: []byte(result.Source)},
		},
	}, nil
}
