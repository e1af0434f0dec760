package domain

import "fmt"

var itemRank = map[ItemStatus]int{
	ItemQueued:    0,
	ItemPreparing: 1,
	ItemReady:     2,
	ItemServed:    3,
}

func (s ItemStatus) Valid() bool {
	_, ok := itemRank[s]
	return ok || s == ItemCancelled
}

func (s ItemStatus) Terminal() bool {
	return s == ItemServed || s == ItemCancelled
}

// CheckItemTransition enforces queued → preparing → ready → served, with
// cancelled reachable from every non-terminal state. Re-applying the
// current status is allowed.
func CheckItemTransition(from, to ItemStatus) error {
	if !to.Valid() {
		return validationf("unknown item status %q", to)
	}
	if from == to {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: item is already %s", ErrInvalidTransition, from)
	}
	if to == ItemCancelled || itemRank[to] > itemRank[from] {
		return nil
	}
	return fmt.Errorf("%w: item cannot move from %s back to %s", ErrInvalidTransition, from, to)
}

// DeriveStatus computes the order status from its items. The rules are
// evaluated top to bottom; when every item is still queued the current
// status is kept.
func DeriveStatus(items []OrderItem, current Status) Status {
	allServed, allReady := true, true
	anyPreparing, anyReady := false, false
	for _, it := range items {
		switch it.Status {
		case ItemServed, ItemCancelled:
		case ItemReady:
			allServed = false
			anyReady = true
		case ItemPreparing:
			allServed, allReady = false, false
			anyPreparing = true
		default:
			allServed, allReady = false, false
		}
	}

	switch {
	case allServed:
		return StatusServed
	case allReady:
		return StatusReady
	case anyPreparing:
		return StatusPreparing
	case anyReady:
		return StatusPreparing
	default:
		return current
	}
}

// cascadeFrom lists, per directly requested order status, which item
// statuses get pushed forward to match it.
var cascadeFrom = map[Status]struct {
	to   ItemStatus
	from []ItemStatus
}{
	StatusPreparing: {ItemPreparing, []ItemStatus{ItemQueued}},
	StatusReady:     {ItemReady, []ItemStatus{ItemQueued, ItemPreparing}},
	StatusServed:    {ItemServed, []ItemStatus{ItemQueued, ItemPreparing, ItemReady}},
}

// CascadeStatus pushes items that have not yet reached target forward.
// Items are never moved backwards.
func CascadeStatus(items []OrderItem, target Status) {
	rule, ok := cascadeFrom[target]
	if !ok {
		return
	}
	for i := range items {
		for _, s := range rule.from {
			if items[i].Status == s {
				items[i].Status = rule.to
				break
			}
		}
	}
}

// HasPendingWork reports whether any item still needs the kitchen.
func HasPendingWork(items []OrderItem) bool {
	for _, it := range items {
		if it.Status == ItemQueued || it.Status == ItemPreparing {
			return true
		}
	}
	return false
}

// Reopen pulls a finished-looking order back to active when new work
// arrived after it was ready, served or completed.
func (o *Order) Reopen() bool {
	if !HasPendingWork(o.Items) {
		return false
	}
	switch o.Status {
	case StatusReady, StatusServed, StatusCompleted:
		o.Status = StatusActive
		return true
	}
	return false
}
