package domain

import (
	"time"

	"github.com/shopspring/decimal"

	payment "github.com/dmehra2102/restaurant-pos/internal/payment/domain"
)

type Type string

const (
	TypeDineIn   Type = "dine-in"
	TypeTakeaway Type = "takeaway"
	TypePacking  Type = "packing"
)

func (t Type) Valid() bool {
	return t == TypeDineIn || t == TypeTakeaway || t == TypePacking
}

type Status string

const (
	StatusActive         Status = "active"
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusServed         Status = "served"
	StatusPaymentPending Status = "payment_pending"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusPreparing, StatusReady, StatusServed,
		StatusPaymentPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Closing reports whether reaching s hands the table back.
func (s Status) Closing() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type ItemStatus string

const (
	ItemQueued    ItemStatus = "queued"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
	ItemCancelled ItemStatus = "cancelled"
)

// MenuItemDetail is the catalog view attached to an item on reads.
type MenuItemDetail struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

type OrderItem struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menuItemId"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Notes      string          `json:"notes"`
	Status     ItemStatus      `json:"status"`
	MenuItem   *MenuItemDetail `json:"menuItem,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Financials is the caller-computed breakdown. The engine only stores it.
type Financials struct {
	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountPercent     decimal.Decimal `json:"discountPercent"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	TaxRate             decimal.Decimal `json:"taxRate"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	ServiceChargeRate   decimal.Decimal `json:"serviceChargeRate"`
	ServiceChargeAmount decimal.Decimal `json:"serviceChargeAmount"`
}

type Order struct {
	ID            string `json:"id"`
	Tenant        string `json:"restaurantName"`
	CreatedBy     string `json:"userId"`
	Type          Type   `json:"orderType"`
	PreviousType  Type   `json:"previousOrderType,omitempty"`
	TableID       string `json:"tableId,omitempty"`
	TableLabel    string `json:"tableLabel,omitempty"`
	CustomerCount int    `json:"customerCount"`

	Items []OrderItem `json:"items"`

	Financials
	TotalAmount decimal.Decimal `json:"totalAmount"`

	PaymentMode   payment.Mode    `json:"paymentMode"`
	PaymentStatus payment.Status  `json:"paymentStatus"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	DueAmount     decimal.Decimal `json:"dueAmount"`

	Status Status `json:"status"`

	CustomerID    string `json:"customer,omitempty"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewOrder builds a pending order. A nil total falls back to the sum of
// the item lines.
func NewOrder(id, tenant, createdBy string, typ Type, items []OrderItem, fin Financials, total *decimal.Decimal, now time.Time) Order {
	o := Order{
		ID:            id,
		Tenant:        tenant,
		CreatedBy:     createdBy,
		Type:          typ,
		Items:         items,
		Financials:    fin,
		PaymentMode:   payment.ModeCash,
		PaymentStatus: payment.StatusPending,
		PaidAmount:    decimal.Zero,
		DueAmount:     decimal.Zero,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if total != nil {
		o.TotalAmount = *total
	} else {
		o.TotalAmount = o.ItemsTotal()
	}
	return o
}

// ItemsTotal sums price × quantity over the items that are not cancelled.
func (o *Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		if it.Status == ItemCancelled {
			continue
		}
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func (o *Order) Item(id string) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i], true
		}
	}
	return nil, false
}

func (o *Order) IsDineIn() bool { return o.Type == TypeDineIn }

func (o *Order) Ledger() payment.Ledger {
	return payment.Ledger{
		Total:  o.TotalAmount,
		Paid:   o.PaidAmount,
		Due:    o.DueAmount,
		Mode:   o.PaymentMode,
		Status: o.PaymentStatus,
	}
}

func (o *Order) ApplyLedger(l payment.Ledger) {
	o.PaidAmount = l.Paid
	o.DueAmount = l.Due
	o.PaymentMode = l.Mode
	o.PaymentStatus = l.Status
}
