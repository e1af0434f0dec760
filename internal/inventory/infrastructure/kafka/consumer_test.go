package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dmehra2102/restaurant-pos/internal/inventory/domain"
	"github.com/dmehra2102/restaurant-pos/pkg/idempotency"
	"github.com/dmehra2102/restaurant-pos/pkg/outbox"
)

type memClient struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *memClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return redis.NewBoolResult(false, nil)
	}
	m.keys[key] = true
	return redis.NewBoolResult(true, nil)
}

func (m *memClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.keys, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type recordingAlerts struct {
	events []domain.InventoryDeducted
	err    error
}

func (r *recordingAlerts) HandleDeducted(ctx context.Context, ev domain.InventoryDeducted) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.events = append(r.events, ev)
	return ev.CrossedThreshold(), nil
}

func newTestConsumer(alerts AlertHandler) (*Consumer, *memClient) {
	rdb := &memClient{keys: map[string]bool{}}
	return &Consumer{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		group:  "stock-alert",
		alerts: alerts,
		idem:   idempotency.NewStore(rdb, time.Minute),
		tracer: noop.NewTracerProvider().Tracer("test"),

		maxAttempts: 3,
		retryWait:   time.Millisecond,
	}, rdb
}

func deductedMessage(t *testing.T, eventID string, offset int64) kafka.Message {
	t.Helper()
	body, err := json.Marshal(domain.InventoryDeducted{
		Tenant:          "bistro",
		OrderID:         "o-1",
		InventoryItemID: "rice",
		Name:            "Rice",
		Unit:            "kg",
		Amount:          decimal.NewFromInt(5),
		QuantityAfter:   decimal.NewFromInt(18),
		MinThreshold:    decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	return kafka.Message{
		Topic:  "order.events",
		Offset: offset,
		Value:  body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(domain.EventInventoryDeducted)},
			{Key: outbox.HeaderEventID, Value: []byte(eventID)},
		},
	}
}

func TestHandleDeliversDeduction(t *testing.T) {
	alerts := &recordingAlerts{}
	c, _ := newTestConsumer(alerts)

	require.NoError(t, c.Handle(context.Background(), deductedMessage(t, "41", 3)))

	require.Len(t, alerts.events, 1)
	ev := alerts.events[0]
	assert.Equal(t, "rice", ev.InventoryItemID)
	assert.True(t, decimal.NewFromInt(18).Equal(ev.QuantityAfter))
	assert.True(t, ev.CrossedThreshold())
}

func TestHandleSkipsRedeliveredEvent(t *testing.T) {
	alerts := &recordingAlerts{}
	c, _ := newTestConsumer(alerts)
	ctx := context.Background()

	require.NoError(t, c.Handle(ctx, deductedMessage(t, "41", 3)))
	require.NoError(t, c.Handle(ctx, deductedMessage(t, "41", 9)))

	assert.Len(t, alerts.events, 1)
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	alerts := &recordingAlerts{}
	c, rdb := newTestConsumer(alerts)

	msg := kafka.Message{Topic: "order.events", Value: []byte(`{}`), Headers: []kafka.Header{
		{Key: "event_type", Value: []byte("OrderCreated")},
	}}
	require.NoError(t, c.Handle(context.Background(), msg))

	assert.Empty(t, alerts.events)
	assert.Empty(t, rdb.keys)
}

func TestHandleReleasesKeyOnFailure(t *testing.T) {
	alerts := &recordingAlerts{err: errors.New("pg down")}
	c, rdb := newTestConsumer(alerts)

	err := c.Handle(context.Background(), deductedMessage(t, "41", 3))
	assert.Error(t, err)
	assert.Empty(t, rdb.keys)

	alerts.err = nil
	require.NoError(t, c.Handle(context.Background(), deductedMessage(t, "41", 3)))
	assert.Len(t, alerts.events, 1)
}

type flakyAlerts struct {
	failures int
	calls    int
	recordingAlerts
}

func (f *flakyAlerts) HandleDeducted(ctx context.Context, ev domain.InventoryDeducted) (bool, error) {
	f.calls++
	if f.calls <= f.failures {
		return false, errors.New("notifications unavailable")
	}
	return f.recordingAlerts.HandleDeducted(ctx, ev)
}

func TestProcessRetriesUntilAlertStored(t *testing.T) {
	alerts := &flakyAlerts{failures: 2}
	c, _ := newTestConsumer(alerts)

	require.NoError(t, c.process(context.Background(), deductedMessage(t, "e-1", 3)))
	assert.Equal(t, 3, alerts.calls)
	assert.Len(t, alerts.events, 1)
}

func TestProcessGivesUpAndKeepsEventRetryable(t *testing.T) {
	alerts := &flakyAlerts{failures: 10}
	c, rdb := newTestConsumer(alerts)
	msg := deductedMessage(t, "e-2", 4)

	err := c.process(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, 3, alerts.calls)
	assert.Empty(t, rdb.keys, "failed event must stay claimable for redelivery")

	alerts.failures = 0
	require.NoError(t, c.process(context.Background(), msg))
	assert.Len(t, alerts.events, 1)
}

func TestProcessStopsOnCancel(t *testing.T) {
	alerts := &flakyAlerts{failures: 10}
	c, _ := newTestConsumer(alerts)
	c.retryWait = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.process(ctx, deductedMessage(t, "e-3", 5))
	assert.ErrorIs(t, err, context.Canceled)
}
