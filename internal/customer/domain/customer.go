package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Customer is unique per (tenant, phone).
type Customer struct {
	ID             string          `json:"id"`
	Tenant         string          `json:"restaurantName"`
	CreatedBy      string          `json:"userId"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	PendingBalance decimal.Decimal `json:"pendingBalance"`
	AdvancePayment decimal.Decimal `json:"advancePayment"`
	OrderHistory   []string        `json:"orderHistory"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Merge copies the non-empty contact fields of in onto c.
func (c *Customer) Merge(in Customer) {
	if in.Name != "" {
		c.Name = strings.TrimSpace(in.Name)
	}
	if in.Email != "" {
		c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Address != "" {
		c.Address = in.Address
	}
	if in.Notes != "" {
		c.Notes = in.Notes
	}
}

func (c *Customer) HasOrder(orderID string) bool {
	for _, id := range c.OrderHistory {
		if id == orderID {
			return true
		}
	}
	return false
}
