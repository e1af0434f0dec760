package outbox

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// HeaderEventID carries the outbox row id. A relay retry re-sends the same
// id, so consumers can deduplicate on it.
const HeaderEventID = "event_id"

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topic: topic}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	msg := d.message(event)
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("outbox dispatch failed", "event_id", event.ID, "type", event.Type, "err", err)
		return err
	}
	d.log.Debug("outbox dispatched", "event_id", event.ID, "type", event.Type)
	return nil
}

func (d *Dispatcher) message(event Event) kafka.Message {
	headers := make([]kafka.Header, 0, len(event.Headers)+4)
	for k, v := range event.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers,
		kafka.Header{Key: "event_type", Value: []byte(event.Type)},
		kafka.Header{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		kafka.Header{Key: HeaderEventID, Value: []byte(strconv.FormatInt(event.ID, 10))},
	)
	if event.Traceparent != "" {
		headers = append(headers, kafka.Header{Key: "traceparent", Value: []byte(event.Traceparent)})
	}

	return kafka.Message{
		Topic:   d.topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
}
