package outbox

import (
	"context"
	"log/slog"
	"time"
)

type Store interface {
	LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error)
	MarkSent(ctx context.Context, ids []int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error
}

type Relay struct {
	log       *slog.Logger
	store     Store
	dispatch  *Dispatcher
	relayID   string
	batchSize int
	interval  time.Duration
	lease     time.Duration
}

type Option func(*Relay)

func WithBatchSize(n int) Option { return func(r *Relay) { r.batchSize = n } }

func WithInterval(d time.Duration) Option { return func(r *Relay) { r.interval = d } }

func WithLease(d time.Duration) Option { return func(r *Relay) { r.lease = d } }

func NewRelay(log *slog.Logger, store Store, dispatch *Dispatcher, relayID string, opts ...Option) *Relay {
	r := &Relay{
		log:       log,
		store:     store,
		dispatch:  dispatch,
		relayID:   relayID,
		batchSize: 100,
		interval:  500 * time.Millisecond,
		lease:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("relay stopping", "relay_id", r.relayID)
			return nil
		case <-t.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Error("relay batch error", "relay_id", r.relayID, "err", err)
			}
		}
	}
}

// RunOnce relays a single batch and returns how many events were sent.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	events, err := r.store.LockBatch(ctx, r.relayID, r.batchSize, r.lease)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	started := time.Now()
	pending := make([]int64, 0, len(events))
	for _, e := range events {
		pending = append(pending, e.ID)
	}

	sent := make([]int64, 0, len(events))
	for i, e := range events {
		if time.Since(started) > r.lease/2 {
			if err := r.store.ExtendLease(ctx, r.relayID, pending[i:], r.lease); err != nil {
				r.log.Warn("relay extend lease failed", "err", err)
			}
			started = time.Now()
		}
		if err := r.dispatch.Dispatch(ctx, e); err != nil {
			if mErr := r.store.MarkFailed(ctx, e.ID, err.Error()); mErr != nil {
				r.log.Error("relay mark failed error", "event_id", e.ID, "err", mErr)
			}
			continue
		}
		sent = append(sent, e.ID)
	}
	if len(sent) > 0 {
		if err := r.store.MarkSent(ctx, sent); err != nil {
			return 0, err
		}
	}
	return len(sent), nil
}
