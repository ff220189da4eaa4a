package application

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	financeErrors "github.com/artilectai/artilect-bot/internal/finance/errors"
	"github.com/artilectai/artilect-bot/internal/finance/infrastructure"
)

func newTestService(txRepo *infrastructure.MockTransactionRepository, catRepo *infrastructure.MockCategoryRepository, accRepo *infrastructure.MockAccountRepository) *TransactionService {
	return NewTransactionService(txRepo, catRepo, accRepo, "UZS", zerolog.Nop()).
		WithClock(func() time.Time { return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC) })
}

func TestRecordFromText_Expense(t *testing.T) {
	txRepo := &infrastructure.MockTransactionRepository{}
	catRepo := &infrastructure.MockCategoryRepository{}
	accRepo := &infrastructure.MockAccountRepository{}
	service := newTestService(txRepo, catRepo, accRepo)

	res := service.RecordFromText(context.Background(), "user-1", "I spent 25k on food")

	assert.True(t, res.OK)
	assert.Equal(t, "expense", res.Type)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, "UZS", res.Currency)
	assert.Equal(t, "Groceries", res.Category)

	assert.Len(t, txRepo.Saved, 1)
	saved := txRepo.Saved[0]
	assert.Equal(t, "user-1", saved.UserID)
	assert.NotNil(t, saved.CategoryID)
	assert.NotEmpty(t, saved.AccountID)
	assert.Equal(t, "I spent 25k on food", saved.Description)

	assert.Len(t, catRepo.Created, 1)
	assert.Equal(t, "Groceries", catRepo.Created[0].Name)
	assert.Equal(t, "expense", catRepo.Created[0].Type)
	assert.Equal(t, "#ef4444", catRepo.Created[0].Color)
}

func TestRecordFromText_IncomeKeyword(t *testing.T) {
	txRepo := &infrastructure.MockTransactionRepository{}
	service := newTestService(txRepo, &infrastructure.MockCategoryRepository{}, &infrastructure.MockAccountRepository{})

	res := service.RecordFromText(context.Background(), "user-1", "add income 1200 salary")

	assert.True(t, res.OK)
	assert.Equal(t, "income", res.Type)
	assert.Equal(t, "Salary", res.Category)
}

func TestRecordFromText_AmountNotFound(t *testing.T) {
	txRepo := &infrastructure.MockTransactionRepository{}
	service := newTestService(txRepo, &infrastructure.MockCategoryRepository{}, &infrastructure.MockAccountRepository{})

	res := service.RecordFromText(context.Background(), "user-1", "I spent some money on food")

	assert.False(t, res.OK)
	assert.Equal(t, financeErrors.ReasonAmountNotFound, res.Reason)
	assert.Empty(t, txRepo.Saved, "no write on recognition failure")
}

func TestRecordFromText_DBError(t *testing.T) {
	txRepo := &infrastructure.MockTransactionRepository{ShouldFail: true}
	service := newTestService(txRepo, &infrastructure.MockCategoryRepository{}, &infrastructure.MockAccountRepository{})

	res := service.RecordFromText(context.Background(), "user-1", "I spent 5000 on taxi")

	assert.False(t, res.OK)
	assert.Equal(t, financeErrors.ReasonDBError, res.Reason)
}

func TestRecord_DefaultsCurrencyAndTimestamp(t *testing.T) {
	txRepo := &infrastructure.MockTransactionRepository{}
	service := newTestService(txRepo, &infrastructure.MockCategoryRepository{}, &infrastructure.MockAccountRepository{})

	res := service.Record(context.Background(), "user-1", TransactionInput{
		Type:        "expense",
		Amount:      decimal.NewFromInt(40000),
		Category:    "bus",
		Description: "bus pass",
	})

	assert.True(t, res.OK)
	assert.Equal(t, "UZS", res.Currency)
	assert.Equal(t, "Transport", res.Category)
	assert.Equal(t, time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), txRepo.Saved[0].OccurredAt)
}

func TestRecord_RejectsUnknownDirection(t *testing.T) {
	txRepo := &infrastructure.MockTransactionRepository{}
	service := newTestService(txRepo, &infrastructure.MockCategoryRepository{}, &infrastructure.MockAccountRepository{})

	res := service.Record(context.Background(), "user-1", TransactionInput{
		Type:   "transfer",
		Amount: decimal.NewFromInt(100),
	})

	assert.False(t, res.OK)
	assert.Empty(t, txRepo.Saved)
}

func TestRecord_CategoryReuse(t *testing.T) {
	catRepo := &infrastructure.MockCategoryRepository{}
	service := newTestService(&infrastructure.MockTransactionRepository{}, catRepo, &infrastructure.MockAccountRepository{})

	for i := 0; i < 2; i++ {
		res := service.Record(context.Background(), "user-1", TransactionInput{
			Type:     "expense",
			Amount:   decimal.NewFromInt(100),
			Category: "food",
		})
		assert.True(t, res.OK)
	}
	assert.Len(t, catRepo.Created, 1, "second write reuses the category")
}
