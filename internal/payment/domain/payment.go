// Package domain holds the settlement arithmetic applied to an order's
// running paid / due balance.
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeCash   Mode = "cash"
	ModeOnline Mode = "online"
	ModeCard   Mode = "card"
	ModeDue    Mode = "due"
	ModeMixed  Mode = "mixed"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeCash, ModeOnline, ModeCard, ModeDue, ModeMixed:
		return true
	}
	return false
}

type Status string

const (
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusRefunded      Status = "refunded"
)

var (
	// ErrInvalidPayment marks malformed settlement input.
	ErrInvalidPayment = errors.New("invalid payment")
	// ErrRejected marks input that is well formed but not acceptable for
	// the current balance.
	ErrRejected = errors.New("settlement rejected")
)

// Ledger is the payment view of one order.
type Ledger struct {
	Total  decimal.Decimal
	Paid   decimal.Decimal
	Due    decimal.Decimal
	Mode   Mode
	Status Status
}

// Settlement is the outcome of a full settle. Excess is the amount tendered
// beyond the total; it is never stored on the order.
type Settlement struct {
	Ledger
	Excess decimal.Decimal
}

// Settle replaces the order's paid / due split with the tendered amount.
func Settle(l Ledger, mode Mode, tendered decimal.Decimal) (Settlement, error) {
	if !mode.Valid() {
		return Settlement{}, fmt.Errorf("%w: unknown payment mode %q", ErrInvalidPayment, mode)
	}
	if tendered.IsNegative() {
		return Settlement{}, fmt.Errorf("%w: tendered amount must not be negative", ErrInvalidPayment)
	}

	out := Settlement{Ledger: l, Excess: decimal.Zero}
	out.Mode = mode

	if mode == ModeDue {
		out.Paid = decimal.Zero
		out.Due = l.Total
		out.Status = StatusPending
		return out, nil
	}

	switch {
	case tendered.GreaterThanOrEqual(l.Total):
		out.Paid = l.Total
		out.Due = decimal.Zero
		out.Excess = tendered.Sub(l.Total)
		out.Status = StatusPaid
	case tendered.IsPositive():
		out.Paid = tendered
		out.Due = l.Total.Sub(tendered)
		out.Status = StatusPartiallyPaid
	default:
		out.Paid = decimal.Zero
		out.Due = l.Total
		out.Status = StatusPending
	}
	return out, nil
}

// SettleDue applies amount against the outstanding due balance. mode may be
// empty; it only replaces ModeDue on the first payment.
func SettleDue(l Ledger, amount decimal.Decimal, mode Mode) (Ledger, error) {
	if mode != "" && (!mode.Valid() || mode == ModeDue) {
		return Ledger{}, fmt.Errorf("%w: unusable payment mode %q", ErrInvalidPayment, mode)
	}
	if l.Status == StatusPaid {
		return Ledger{}, fmt.Errorf("%w: order is already fully paid", ErrRejected)
	}
	if !amount.IsPositive() {
		return Ledger{}, fmt.Errorf("%w: settled amount must be greater than 0", ErrRejected)
	}
	if amount.GreaterThan(l.Due) {
		return Ledger{}, fmt.Errorf("%w: settled amount %s exceeds due amount %s", ErrRejected, amount, l.Due)
	}

	out := l
	out.Paid = l.Paid.Add(amount)
	out.Due = l.Due.Sub(amount)

	if l.Mode == ModeDue && mode != "" {
		out.Mode = mode
	} else if out.Paid.IsPositive() && out.Due.IsPositive() {
		out.Mode = ModeMixed
	}

	if out.Due.IsZero() {
		out.Status = StatusPaid
	} else if out.Paid.IsPositive() {
		out.Status = StatusPartiallyPaid
	}
	return out, nil
}

// Settled reports whether any settlement has been recorded on l.
func (l Ledger) Settled() bool {
	return l.Status != StatusPending || l.Paid.IsPositive() || l.Due.IsPositive()
}

// Rebalance re-derives due and status after the total changed. An order
// never settled is returned as is. Paid is clipped to a lowered total and
// the difference reported as Excess.
func Rebalance(l Ledger) Settlement {
	out := Settlement{Ledger: l, Excess: decimal.Zero}
	if !l.Settled() {
		return out
	}
	if l.Paid.GreaterThan(l.Total) {
		out.Excess = l.Paid.Sub(l.Total)
		out.Paid = l.Total
	}
	out.Due = l.Total.Sub(out.Paid)

	switch {
	case out.Due.IsZero() && out.Paid.IsPositive():
		out.Status = StatusPaid
	case out.Paid.IsPositive():
		out.Status = StatusPartiallyPaid
	default:
		out.Status = StatusPending
	}
	return out
}
