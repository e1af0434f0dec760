package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func price(v int64) *decimal.Decimal {
	p := decimal.NewFromInt(v)
	return &p
}

func TestMergeSplitsStartedItem(t *testing.T) {
	existing := []OrderItem{{ID: "i1", MenuItemID: "m1", Quantity: 2, Price: decimal.NewFromInt(100), Status: ItemPreparing}}

	merged, err := MergeItems(existing, []ItemLine{{ID: "i1", Quantity: 5}}, seqIDs())
	require.NoError(t, err)
	require.Len(t, merged, 2)

	assert.Equal(t, 2, merged[0].Quantity)
	assert.Equal(t, ItemPreparing, merged[0].Status)

	assert.Equal(t, "new-1", merged[1].ID)
	assert.Equal(t, "m1", merged[1].MenuItemID)
	assert.Equal(t, 3, merged[1].Quantity)
	assert.Equal(t, ItemQueued, merged[1].Status)
	assert.True(t, decimal.NewFromInt(100).Equal(merged[1].Price))

	assert.Equal(t, 2, existing[0].Quantity, "input slice untouched")
}

func TestMergeInPlace(t *testing.T) {
	existing := []OrderItem{
		{ID: "q", MenuItemID: "m1", Quantity: 1, Price: decimal.NewFromInt(10), Status: ItemQueued, Notes: "spicy"},
		{ID: "s", MenuItemID: "m2", Quantity: 4, Price: decimal.NewFromInt(20), Status: ItemServed},
	}
	merged, err := MergeItems(existing, []ItemLine{
		{ID: "q", Quantity: 3},
		{ID: "s", Quantity: 2, Notes: "less"},
	}, seqIDs())
	require.NoError(t, err)
	require.Len(t, merged, 2)

	assert.Equal(t, 3, merged[0].Quantity)
	assert.Equal(t, ItemQueued, merged[0].Status)
	assert.Equal(t, "spicy", merged[0].Notes)

	assert.Equal(t, 2, merged[1].Quantity)
	assert.Equal(t, ItemServed, merged[1].Status, "decrease never touches status")
	assert.Equal(t, "less", merged[1].Notes)
}

func TestMergeAppendsNewLines(t *testing.T) {
	existing := []OrderItem{{ID: "a", MenuItemID: "m1", Quantity: 1, Price: decimal.NewFromInt(5), Status: ItemReady}}
	merged, err := MergeItems(existing, []ItemLine{
		{MenuItemID: "m9", Quantity: 2, Price: price(7)},
		{ID: "ghost", MenuItemID: "m8", Quantity: 1, Price: price(3)},
	}, seqIDs())
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, ItemReady, merged[0].Status)
	assert.Equal(t, "m9", merged[1].MenuItemID)
	assert.Equal(t, ItemQueued, merged[1].Status)
	assert.Equal(t, "new-2", merged[2].ID)
}

func TestMergeNeverRegresses(t *testing.T) {
	existing := []OrderItem{
		{ID: "a", MenuItemID: "m", Quantity: 1, Price: decimal.NewFromInt(1), Status: ItemServed},
		{ID: "b", MenuItemID: "m", Quantity: 1, Price: decimal.NewFromInt(1), Status: ItemCancelled},
		{ID: "c", MenuItemID: "m", Quantity: 1, Price: decimal.NewFromInt(1), Status: ItemReady},
	}
	merged, err := MergeItems(existing, []ItemLine{
		{ID: "a", Quantity: 3}, {ID: "b", Quantity: 2}, {ID: "c", Quantity: 1},
	}, seqIDs())
	require.NoError(t, err)
	for i, it := range existing {
		assert.Equal(t, it.Status, merged[i].Status)
	}
	for _, it := range merged[len(existing):] {
		assert.Equal(t, ItemQueued, it.Status)
	}
}

func TestMergeValidation(t *testing.T) {
	existing := []OrderItem{{ID: "a", MenuItemID: "m", Quantity: 1, Status: ItemQueued}}

	_, err := MergeItems(existing, []ItemLine{{ID: "a", Quantity: 0}}, seqIDs())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = MergeItems(existing, []ItemLine{{MenuItemID: "m", Quantity: 1}}, seqIDs())
	assert.ErrorIs(t, err, ErrValidation, "new line without price")

	_, err = MergeItems(existing, []ItemLine{{Quantity: 1, Price: price(1)}}, seqIDs())
	assert.ErrorIs(t, err, ErrValidation, "new line without menu item")

	_, err = MergeItems(existing, []ItemLine{{ID: "a", Quantity: 1}, {ID: "a", Quantity: 2}}, seqIDs())
	assert.ErrorIs(t, err, ErrValidation)
}
