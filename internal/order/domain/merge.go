package domain

import (
	"github.com/shopspring/decimal"
)

// ItemLine is one incoming line of an item-list edit. An empty ID, or an ID
// that matches no existing item, adds a new queued item.
type ItemLine struct {
	ID         string
	MenuItemID string
	Quantity   int
	Price      *decimal.Decimal
	Notes      string
}

// MergeItems folds lines into the existing items without undoing kitchen
// work. Existing items keep their position; split-off and new items are
// appended. Items not mentioned in lines are left untouched.
func MergeItems(existing []OrderItem, lines []ItemLine, newID func() string) ([]OrderItem, error) {
	merged := make([]OrderItem, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, it := range merged {
		index[it.ID] = i
	}

	seen := make(map[string]bool, len(lines))
	var appended []OrderItem
	for n, line := range lines {
		if line.Quantity <= 0 {
			return nil, validationf("line %d: quantity must be positive", n+1)
		}

		pos, found := index[line.ID]
		if line.ID == "" || !found {
			item, err := newLine(n, line, newID)
			if err != nil {
				return nil, err
			}
			appended = append(appended, item)
			continue
		}
		if seen[line.ID] {
			return nil, validationf("line %d: item %s listed twice", n+1, line.ID)
		}
		seen[line.ID] = true

		cur := &merged[pos]
		if line.Notes != "" {
			cur.Notes = line.Notes
		}
		switch {
		case line.Quantity <= cur.Quantity, cur.Status == ItemQueued:
			cur.Quantity = line.Quantity
		default:
			price := cur.Price
			if line.Price != nil {
				price = *line.Price
			}
			menuItem := cur.MenuItemID
			if line.MenuItemID != "" {
				menuItem = line.MenuItemID
			}
			appended = append(appended, OrderItem{
				ID:         newID(),
				MenuItemID: menuItem,
				Quantity:   line.Quantity - cur.Quantity,
				Price:      price,
				Notes:      line.Notes,
				Status:     ItemQueued,
			})
		}
	}
	return append(merged, appended...), nil
}

func newLine(n int, line ItemLine, newID func() string) (OrderItem, error) {
	if line.MenuItemID == "" {
		return OrderItem{}, validationf("line %d: menu item is required", n+1)
	}
	if line.Price == nil || line.Price.IsNegative() {
		return OrderItem{}, validationf("line %d: price is required and must not be negative", n+1)
	}
	return OrderItem{
		ID:         newID(),
		MenuItemID: line.MenuItemID,
		Quantity:   line.Quantity,
		Price:      *line.Price,
		Notes:      line.Notes,
		Status:     ItemQueued,
	}, nil
}
