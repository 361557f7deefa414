// Package kafka publishes built catalog records to a Kafka topic for
// downstream consumers that mirror the catalog into other stores.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/aeriscope/cloudcatalog/internal/domain"
)

// Writer produces catalog records to a Kafka topic.
// It implements pipeline.RecordSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one catalog record and writes it to the topic.
func (w *Writer) Publish(ctx context.Context, rec domain.CatalogRecord) error {
	msg, err := serializeToMessage(rec)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a CatalogRecord into a Kafka message, keyed by
// sample ID so records for the same sample land on the same partition.
func serializeToMessage(rec domain.CatalogRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize catalog record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "sensor", Value: []byte(rec.Sensor)},
			{Key: "split", Value: []byte(rec.Split)},
		},
	}, nil
}
