package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/restaurant-pos/internal/platform/pgdb"
	"github.com/dmehra2102/restaurant-pos/pkg/outbox"
	"github.com/dmehra2102/restaurant-pos/pkg/tracing"
)

// EventLog appends events to the outbox inside the caller's transaction.
type EventLog struct {
	db pgdb.Querier
}

func NewEventLog(db pgdb.Querier) *EventLog {
	return &EventLog{db: db}
}

func (l *EventLog) Append(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	headers := map[string]string{"source": "pos-api", "content_type": "application/json"}
	_, err = l.db.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		aggregateType, aggregateID, eventType, body, headers, tracing.Traceparent(ctx), string(outbox.StatusPending))
	return err
}

type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

// LockBatch claims pending events, failed events with retries left, and
// events whose lease has run out.
func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, headers, traceparent, created_at, retry_count
		FROM outbox
		WHERE status = $3
		   OR (status = $4 AND retry_count < $2)
		   OR (status = $5 AND lease_until < now())
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize, outbox.MaxRetries,
		string(outbox.StatusPending), string(outbox.StatusFailed), string(outbox.StatusInProgress))
	if err != nil {
		return nil, err
	}

	var events []outbox.Event
	for rows.Next() {
		var event outbox.Event
		var headers map[string]string
		if err := rows.Scan(&event.ID, &event.AggregateType, &event.AggregateID, &event.Type, &event.Payload, &headers,
			&event.Traceparent, &event.CreatedAt, &event.RetryCount); err != nil {
			rows.Close()
			return nil, err
		}
		event.Headers = headers
		event.Status = outbox.StatusInProgress
		event.RelayID = relayID
		events = append(events, event)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	_, err = tx.Exec(ctx, `UPDATE outbox SET status=$4, relay_id=$1, lease_until=now() + $2::interval WHERE id = ANY($3)`,
		relayID, lease.String(), ids, string(outbox.StatusInProgress))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	ct, err := s.pool.Exec(ctx, `UPDATE outbox SET status=$2, lease_until=NULL WHERE id = ANY($1)`, ids, string(outbox.StatusSent))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("no rows updated")
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status=$3, last_error=$2, retry_count=retry_count+1, lease_until=NULL WHERE id=$1`,
		id, errMsg, string(outbox.StatusFailed))
	if err == nil {
		s.log.Warn("outbox event failed", "event_id", id, "err", errMsg)
	}
	return err
}

func (s *OutboxStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET lease_until=now() + $1::interval WHERE id = ANY($2) AND relay_id=$3`, lease.String(), ids, relayID)
	return err
}
