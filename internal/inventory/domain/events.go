package domain

import "github.com/shopspring/decimal"

const EventInventoryDeducted = "InventoryDeducted"

type InventoryDeducted struct {
	Tenant          string          `json:"tenant"`
	OrderID         string          `json:"order_id"`
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	Amount          decimal.Decimal `json:"amount"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
	MinThreshold    decimal.Decimal `json:"min_threshold"`
}

func (e InventoryDeducted) BelowThreshold() bool {
	return e.QuantityAfter.LessThan(e.MinThreshold)
}

// CrossedThreshold reports whether this deduction took the item from at or
// above its minimum to below it.
func (e InventoryDeducted) CrossedThreshold() bool {
	before := e.QuantityAfter.Add(e.Amount)
	return e.BelowThreshold() && !before.LessThan(e.MinThreshold)
}
