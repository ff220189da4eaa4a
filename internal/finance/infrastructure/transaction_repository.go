package infrastructure

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/artilectai/artilect-bot/internal/finance/domain"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Save(ctx context.Context, transaction domain.Transaction) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO finance_transactions
        (id, user_id, account_id, category_id, type, amount, currency, description, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, transaction.UserID, transaction.AccountID, transaction.CategoryID,
		transaction.Type, transaction.Amount, transaction.Currency,
		transaction.Description, transaction.OccurredAt,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}
