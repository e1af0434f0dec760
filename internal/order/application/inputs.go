package application

import (
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/restaurant-pos/internal/order/domain"
	payment "github.com/dmehra2102/restaurant-pos/internal/payment/domain"
)

type LineInput struct {
	ID         string           `json:"_id,omitempty"`
	MenuItemID string           `json:"menuItem"`
	Quantity   int              `json:"quantity"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

type FinancialsInput struct {
	Subtotal            *decimal.Decimal `json:"subtotal,omitempty"`
	DiscountPercent     *decimal.Decimal `json:"discountPercent,omitempty"`
	DiscountAmount      *decimal.Decimal `json:"discountAmount,omitempty"`
	TaxRate             *decimal.Decimal `json:"taxRate,omitempty"`
	TaxAmount           *decimal.Decimal `json:"taxAmount,omitempty"`
	ServiceChargeRate   *decimal.Decimal `json:"serviceChargeRate,omitempty"`
	ServiceChargeAmount *decimal.Decimal `json:"serviceChargeAmount,omitempty"`
	TotalAmount         *decimal.Decimal `json:"totalAmount,omitempty"`
}

func (f FinancialsInput) applyTo(fin *domain.Financials) {
	set := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	set(&fin.Subtotal, f.Subtotal)
	set(&fin.DiscountPercent, f.DiscountPercent)
	set(&fin.DiscountAmount, f.DiscountAmount)
	set(&fin.TaxRate, f.TaxRate)
	set(&fin.TaxAmount, f.TaxAmount)
	set(&fin.ServiceChargeRate, f.ServiceChargeRate)
	set(&fin.ServiceChargeAmount, f.ServiceChargeAmount)
}

type CreateOrderInput struct {
	OrderType     domain.Type `json:"orderType"`
	TableID       string      `json:"tableId"`
	TableLabel    string      `json:"tableLabel"`
	CustomerCount int         `json:"customerCount"`
	Items         []LineInput `json:"items"`
	CustomerID    string      `json:"customerId"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	FinancialsInput
}

type UpdateOrderInput struct {
	// Items is nil when the item list is left alone.
	Items         []LineInput  `json:"items"`
	OrderType     *domain.Type `json:"orderType,omitempty"`
	TableID       *string      `json:"tableId,omitempty"`
	TableLabel    string       `json:"tableLabel,omitempty"`
	CustomerCount int          `json:"customerCount,omitempty"`
	CustomerName  *string      `json:"customerName,omitempty"`
	CustomerPhone *string      `json:"customerPhone,omitempty"`
	FinancialsInput
}

type ChangeStatusInput struct {
	Status            domain.Status `json:"status"`
	KeepTableOccupied bool          `json:"keepTableOccupied"`
	FreeTable         *bool         `json:"freeTable,omitempty"`
}

type SettleInput struct {
	PaymentMode       payment.Mode    `json:"paymentMode"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	CustomerID        string          `json:"customerId,omitempty"`
	MarkCompleted     bool            `json:"markCompleted"`
	KeepTableOccupied bool            `json:"keepTableOccupied"`
	FreeTable         *bool           `json:"freeTable,omitempty"`
}

type SettleDueInput struct {
	SettledAmount decimal.Decimal `json:"settledAmount"`
	PaymentMode   payment.Mode    `json:"paymentMode,omitempty"`
}
