package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func items(statuses ...ItemStatus) []OrderItem {
	out := make([]OrderItem, len(statuses))
	for i, s := range statuses {
		out[i] = OrderItem{ID: string(rune('a' + i)), Quantity: 1, Status: s}
	}
	return out
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		items   []OrderItem
		current Status
		want    Status
	}{
		{"all served", items(ItemServed, ItemServed), StatusPending, StatusServed},
		{"served and cancelled", items(ItemServed, ItemCancelled), StatusReady, StatusServed},
		{"all ready", items(ItemReady, ItemReady), StatusPreparing, StatusReady},
		{"ready and served", items(ItemReady, ItemServed, ItemCancelled), StatusPreparing, StatusReady},
		{"one preparing", items(ItemQueued, ItemPreparing), StatusPending, StatusPreparing},
		{"ready behind queued", items(ItemReady, ItemQueued), StatusPending, StatusPreparing},
		{"all queued keeps current", items(ItemQueued, ItemQueued), StatusActive, StatusActive},
		{"queued and cancelled keeps current", items(ItemQueued, ItemCancelled), StatusPending, StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.items, tt.current))
		})
	}
}

func TestCheckItemTransition(t *testing.T) {
	ok := [][2]ItemStatus{
		{ItemQueued, ItemPreparing},
		{ItemQueued, ItemServed},
		{ItemPreparing, ItemReady},
		{ItemReady, ItemServed},
		{ItemQueued, ItemCancelled},
		{ItemReady, ItemCancelled},
		{ItemServed, ItemServed},
	}
	for _, tr := range ok {
		assert.NoError(t, CheckItemTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	bad := [][2]ItemStatus{
		{ItemPreparing, ItemQueued},
		{ItemServed, ItemReady},
		{ItemServed, ItemCancelled},
		{ItemCancelled, ItemQueued},
	}
	for _, tr := range bad {
		assert.ErrorIs(t, CheckItemTransition(tr[0], tr[1]), ErrInvalidTransition, "%s -> %s", tr[0], tr[1])
	}

	assert.ErrorIs(t, CheckItemTransition(ItemQueued, ItemStatus("burnt")), ErrValidation)
}

func TestCascadeStatusIsForwardOnly(t *testing.T) {
	its := items(ItemQueued, ItemPreparing, ItemReady, ItemServed, ItemCancelled)

	CascadeStatus(its, StatusReady)
	assert.Equal(t, []ItemStatus{ItemReady, ItemReady, ItemReady, ItemServed, ItemCancelled}, statuses(its))

	CascadeStatus(its, StatusPreparing)
	assert.Equal(t, []ItemStatus{ItemReady, ItemReady, ItemReady, ItemServed, ItemCancelled}, statuses(its))

	CascadeStatus(its, StatusServed)
	assert.Equal(t, []ItemStatus{ItemServed, ItemServed, ItemServed, ItemServed, ItemCancelled}, statuses(its))

	CascadeStatus(its, StatusCancelled)
	assert.Equal(t, ItemServed, its[0].Status)
}

func TestServingEveryItemServesOrder(t *testing.T) {
	o := Order{Status: StatusPending, Items: items(ItemQueued, ItemQueued, ItemQueued)}
	for i := range o.Items {
		assert.NotEqual(t, StatusServed, o.Status)
		o.Items[i].Status = ItemServed
		o.Status = DeriveStatus(o.Items, o.Status)
	}
	assert.Equal(t, StatusServed, o.Status)
}

func TestReopen(t *testing.T) {
	o := Order{Status: StatusReady, Items: items(ItemReady, ItemQueued)}
	assert.True(t, o.Reopen())
	assert.Equal(t, StatusActive, o.Status)

	o = Order{Status: StatusPreparing, Items: items(ItemQueued)}
	assert.False(t, o.Reopen())
	assert.Equal(t, StatusPreparing, o.Status)

	o = Order{Status: StatusServed, Items: items(ItemServed)}
	assert.False(t, o.Reopen())
}

func statuses(its []OrderItem) []ItemStatus {
	out := make([]ItemStatus, len(its))
	for i, it := range its {
		out[i] = it.Status
	}
	return out
}
