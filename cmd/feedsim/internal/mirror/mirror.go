// Package mirror produces a copy of every record that reached the wire to
// a Kafka topic, so a benchmark run can be captured and replayed offline.
package mirror

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaWriter abstracts the output stream
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaMirror struct {
	logger *zap.Logger
	writer KafkaWriter
	key    []byte
}

func NewKafkaMirror(logger *zap.Logger, writer KafkaWriter, symbol string) *KafkaMirror {
	return &KafkaMirror{
		logger: logger,
		writer: writer,
		key:    []byte(symbol),
	}
}

// Mirror hands one encoded record to the writer, keyed by symbol so a
// capture topic preserves per-symbol ordering. The send loop reuses its
// buffer, so the record is copied before the async writer takes it.
func (m *KafkaMirror) Mirror(ctx context.Context, record []byte) error {
	value := make([]byte, len(record))
	copy(value, record)

	return m.writer.WriteMessages(ctx, kafka.Message{
		Key:   m.key,
		Value: value,
	})
}

func (m *KafkaMirror) Close() error {
	// Flushes the async buffer; skipping this loses the tail of the capture
	return m.writer.Close()
}

// NewWriter builds the tuned kafka-go writer for the capture topic:
// batched, async, fire-and-forget, matching the feed's best-effort
// delivery model.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireNone,
		Async:        true,
	}
}
