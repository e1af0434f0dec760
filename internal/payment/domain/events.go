package domain

import "github.com/shopspring/decimal"

type PaymentSettled struct {
	OrderID    string          `json:"order_id"`
	Tenant     string          `json:"tenant"`
	Mode       Mode            `json:"payment_mode"`
	Status     Status          `json:"payment_status"`
	Paid       decimal.Decimal `json:"paid_amount"`
	Due        decimal.Decimal `json:"due_amount"`
	Excess     decimal.Decimal `json:"excess_amount"`
	CustomerID string          `json:"customer_id,omitempty"`
}

type DueSettled struct {
	OrderID    string          `json:"order_id"`
	Tenant     string          `json:"tenant"`
	Amount     decimal.Decimal `json:"amount"`
	Mode       Mode            `json:"payment_mode"`
	Status     Status          `json:"payment_status"`
	Paid       decimal.Decimal `json:"paid_amount"`
	Due        decimal.Decimal `json:"due_amount"`
	CustomerID string          `json:"customer_id,omitempty"`
}
