package errors

import (
	"errors"
)

// Reason codes carried by write results so callers can phrase a specific
// user-facing message. amount_not_found is an input-recognition failure and
// is recovered locally; db_error means the store rejected the write.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonAmountNotFound Reason = "amount_not_found"
	ReasonDBError        Reason = "db_error"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

var ErrInvalidDirection = NewValidationError("Type must be 'income' or 'expense'")
var ErrNegativeAmount = NewValidationError("Amount must not be negative")
