// internal/writer/kafka/kafka.go
package kafka

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/tamzrod/openpad-bridge/internal/writer"
)

const HeaderEventID = "event-id"

type Config struct {
	Brokers []string
	Topic   string
}

// MessageWriter is the subset of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer emits one message per document, keyed by kind so each kind
// stays on one partition.
type Writer struct {
	w     MessageWriter
	newID func() string
}

func New(cfg Config) *Writer {
	return NewWithWriter(&kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	})
}

func NewWithWriter(w MessageWriter) *Writer {
	return &Writer{w: w, newID: uuid.NewString}
}

func (w *Writer) Write(ctx context.Context, doc writer.Document) error {
	msg := kafkago.Message{
		Key:   []byte(doc.Kind),
		Value: doc.Body,
		Headers: []kafkago.Header{
			{Key: HeaderEventID, Value: []byte(w.newID())},
		},
	}
	if err := w.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka writer: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.w.Close()
}
