// Package errs holds the error classes every bounded context reports and
// the HTTP layer maps to status codes.
package errs

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violation")
)
