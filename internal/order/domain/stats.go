package domain

import (
	"github.com/shopspring/decimal"

	payment "github.com/dmehra2102/restaurant-pos/internal/payment/domain"
)

// DailyStats is the front-desk cash-up summary.
type DailyStats struct {
	CashCollected  decimal.Decimal `json:"cashCollected"`
	OnlineReceived decimal.Decimal `json:"onlineReceived"`
	DueAmount      decimal.Decimal `json:"dueAmount"`
	TotalOrders    int             `json:"totalOrders"`
}

// Summarize buckets collected money by payment mode. Mixed payments count
// as cash.
func Summarize(orders []Order) DailyStats {
	s := DailyStats{CashCollected: decimal.Zero, OnlineReceived: decimal.Zero, DueAmount: decimal.Zero, TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.PaymentMode {
		case payment.ModeCash, payment.ModeMixed:
			s.CashCollected = s.CashCollected.Add(o.PaidAmount)
		case payment.ModeOnline, payment.ModeCard:
			s.OnlineReceived = s.OnlineReceived.Add(o.PaidAmount)
		}
		s.DueAmount = s.DueAmount.Add(o.DueAmount)
	}
	return s
}
