package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error) {
	args := m.Called(relayID, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *mockStore) MarkSent(ctx context.Context, ids []int64) error {
	return m.Called(ids).Error(0)
}

func (m *mockStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	return m.Called(id, errMsg).Error(0)
}

func (m *mockStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	return m.Called(relayID, ids).Error(0)
}

type fakeProducer struct {
	msgs    []kafka.Message
	failKey string
}

func (p *fakeProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		if string(m.Key) == p.failKey {
			return errors.New("broker unavailable")
		}
		p.msgs = append(p.msgs, m)
	}
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRelayRunOnce(t *testing.T) {
	store := new(mockStore)
	producer := &fakeProducer{failKey: "order-2"}
	events := []Event{
		{ID: 1, AggregateType: "order", AggregateID: "order-1", Type: "OrderCreated", Payload: []byte(`{}`), Traceparent: "00-abc-def-01"},
		{ID: 2, AggregateType: "order", AggregateID: "order-2", Type: "OrderCreated", Payload: []byte(`{}`)},
	}
	store.On("LockBatch", "relay-1", 100).Return(events, nil)
	store.On("MarkFailed", int64(2), "broker unavailable").Return(nil)
	store.On("MarkSent", []int64{1}).Return(nil)

	relay := NewRelay(discard(), store, NewDispatcher(discard(), producer, "order.events"), "relay-1")
	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, producer.msgs, 1)
	msg := producer.msgs[0]
	assert.Equal(t, "order.events", msg.Topic)
	assert.Equal(t, "order-1", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "OrderCreated", headers["event_type"])
	assert.Equal(t, "00-abc-def-01", headers["traceparent"])
	assert.Equal(t, "1", headers[HeaderEventID])
	store.AssertExpectations(t)
}

func TestRelayRunOnceEmpty(t *testing.T) {
	store := new(mockStore)
	store.On("LockBatch", "relay-1", 10).Return(nil, nil)

	relay := NewRelay(discard(), store, NewDispatcher(discard(), &fakeProducer{}, "t"), "relay-1", WithBatchSize(10))
	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	store.AssertNotCalled(t, "MarkSent", mock.Anything)
}
