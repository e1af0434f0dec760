package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrMenuItemNotFound      = errors.New("menu item not found")
)

// Item is one stock-keeping unit. Quantity may go negative: stock is
// tracked, never enforced.
type Item struct {
	ID           string          `json:"id"`
	Tenant       string          `json:"restaurantName"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinThreshold decimal.Decimal `json:"minThreshold"`
}

// Level is the stock of an item right after a deduction.
type Level struct {
	ItemID       string
	Name         string
	Unit         string
	Quantity     decimal.Decimal
	MinThreshold decimal.Decimal
}

func (l Level) Low() bool {
	return l.Quantity.LessThan(l.MinThreshold)
}

type Ingredient struct {
	InventoryItemID string          `json:"inventoryItemId"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// MenuItem is the catalog entry an order line points at, with its recipe.
type MenuItem struct {
	ID          string          `json:"id"`
	Tenant      string          `json:"restaurantName"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"isAvailable"`
	Ingredients []Ingredient    `json:"ingredients"`
}

// Consumption returns how much of each inventory item ordering qty units
// uses up, in recipe order.
func (m MenuItem) Consumption(qty int) []Ingredient {
	out := make([]Ingredient, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		if ing.InventoryItemID == "" {
			continue
		}
		out = append(out, Ingredient{
			InventoryItemID: ing.InventoryItemID,
			Quantity:        ing.Quantity.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return out
}
