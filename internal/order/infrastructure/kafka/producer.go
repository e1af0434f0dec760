package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer publishes outbox events. Messages carry their own topic.
type Writer struct {
	*kafka.Writer
	log *slog.Logger
}

func NewWriter(log *slog.Logger, brokers []string) *Writer {
	return &Writer{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		log: log,
	}
}

func (w *Writer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := w.Writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.log.Debug("kafka write", "messages", len(msgs))
	return nil
}
