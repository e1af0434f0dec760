package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
	"github.com/dmehra2102/restaurant-pos/pkg/idempotency"
	"github.com/dmehra2102/restaurant-pos/pkg/outbox"
	"github.com/dmehra2102/restaurant-pos/pkg/tracing"
)

type AlertHandler interface {
	HandleDeducted(ctx context.Context, ev domain.InventoryDeducted) (bool, error)
}

// Consumer reads the order event stream and feeds stock deductions to the
// low-stock alerting.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	group  string
	alerts AlertHandler
	idem   *idempotency.Store
	tracer trace.Tracer

	maxAttempts int
	retryWait   time.Duration
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, alerts AlertHandler, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		group:  group,
		alerts: alerts,
		idem:   idem,
		tracer: otel.Tracer("stock-alert-consumer"),

		maxAttempts: 5,
		retryWait:   200 * time.Millisecond,
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Leave the offset uncommitted so the group redelivers it.
			return fmt.Errorf("offset %d partition %d: %w", msg.Offset, msg.Partition, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("commit failed", "offset", msg.Offset, "err", err)
		}
	}
}

// process runs Handle until it succeeds, doubling the wait between attempts.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	wait := c.retryWait
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err = c.Handle(ctx, msg); err == nil {
			return nil
		}
		c.log.Warn("stock alert failed", "offset", msg.Offset, "partition", msg.Partition, "attempt", attempt, "err", err)
		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}

// Handle processes one message. Events other than InventoryDeducted,
// duplicates, and malformed payloads are skipped without error.
func (c *Consumer) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := tracing.HeaderValue(msg.Headers, "event_type")
	if eventType != domain.EventInventoryDeducted {
		return nil
	}

	key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
	if id := tracing.HeaderValue(msg.Headers, outbox.HeaderEventID); id != "" {
		key = c.idem.EventKey(c.group, id)
	}
	seen, err := c.idem.Seen(ctx, key)
	if err != nil {
		return err
	}
	if seen {
		c.log.Info("duplicate message skipped", "key", key)
		return nil
	}

	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "ConsumeInventoryDeducted",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("messaging.destination", msg.Topic)))
	defer span.End()

	var ev domain.InventoryDeducted
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.log.Error("unmarshal failed", "key", key, "err", err)
		span.SetStatus(codes.Error, "bad payload")
		return nil
	}
	span.SetAttributes(attribute.String("inventory.item_id", ev.InventoryItemID), attribute.String("tenant", ev.Tenant))

	raised, err := c.alerts.HandleDeducted(msgCtx, ev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if fErr := c.idem.Forget(ctx, key); fErr != nil {
			c.log.Error("idempotency release failed", "key", key, "err", fErr)
		}
		return err
	}
	c.log.Debug("stock deduction processed", "item", ev.InventoryItemID, "order_id", ev.OrderID, "alert", raised)
	return nil
}
