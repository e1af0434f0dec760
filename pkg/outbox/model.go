package outbox

import "time"

// Status is the relay state of an outbox row.
type Status string

const (
	// StatusPending rows were written alongside an order change and await
	// their first relay.
	StatusPending Status = "pending"
	// StatusInProgress rows are leased by one relay until lease_until.
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	// StatusFailed rows are picked up again until RetryCount reaches MaxRetries.
	StatusFailed Status = "failed"
)

// MaxRetries bounds how often a failed event is picked up again.
const MaxRetries = 5

// Event is one row of the order outbox. The order service's event log writes
// it in the same transaction as the order change; a Relay later publishes it
// to the order event topic keyed by AggregateID (the order id, or the
// inventory item id for stock deductions) with ID as the event_id header.
type Event struct {
	ID            int64
	AggregateType string
	AggregateID   string
	// Type is the event name, e.g. OrderCreated or InventoryDeducted.
	Type    string
	Payload []byte
	Headers map[string]string
	// Traceparent links consumers to the request that changed the order.
	Traceparent string
	CreatedAt   time.Time
	Status      Status
	RelayID     string
	RetryCount  int
}
