package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artilectai/artilect-bot/internal/finance/errors"
)

type TransactionRepository interface {
	Save(ctx context.Context, transaction Transaction) (string, error)
}

// Transaction is one monetary record owned by an account. Direction is
// derived once at creation and never reconciled against the category type.
type Transaction struct {
	ID          string
	UserID      string
	AccountID   string
	CategoryID  *string
	Type        string // "income" or "expense"
	Amount      decimal.Decimal
	Currency    string
	Description string
	OccurredAt  time.Time
}

func (t *Transaction) Validate() error {
	if t.Type != "income" && t.Type != "expense" {
		return errors.ErrInvalidDirection
	}
	if t.Amount.IsNegative() {
		return errors.ErrNegativeAmount
	}
	if len(t.Description) > 500 {
		return errors.NewValidationError("Description must be of length less than 500")
	}
	return nil
}
