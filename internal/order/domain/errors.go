package domain

import (
	"fmt"

	"github.com/dmehra2102/restaurant-pos/internal/access"
	"github.com/dmehra2102/restaurant-pos/internal/platform/errs"
)

var (
	ErrValidation   = errs.ErrValidation
	ErrForbidden    = access.ErrForbidden
	ErrNotFound     = errs.ErrNotFound
	ErrBusinessRule = errs.ErrBusinessRule

	ErrOrderNotFound     = fmt.Errorf("order %w", ErrNotFound)
	ErrItemNotFound      = fmt.Errorf("item %w in order", ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrBusinessRule)
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
