package domain

import (
	"errors"
	"time"
)

var ErrTableNotFound = errors.New("table not found")

type Status string

const (
	StatusAvailable Status = "available"
	StatusOccupied  Status = "occupied"
	StatusReserved  Status = "reserved"
	StatusCleaning  Status = "cleaning"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusCleaning:
		return true
	}
	return false
}

// Table is one physical seat cluster. CurrentOrder only points at the
// order for lookup; the order owns the relation.
type Table struct {
	Tenant        string    `json:"restaurantName"`
	TableID       string    `json:"tableId"`
	Capacity      int       `json:"capacity"`
	Status        Status    `json:"status"`
	CurrentOrder  string    `json:"currentOrder,omitempty"`
	CustomerCount int       `json:"customerCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
