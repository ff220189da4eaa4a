package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/artilectai/artilect-bot/internal/finance/domain"
)

// Mocks used by service and handler tests.

type MockTransactionRepository struct {
	Saved      []domain.Transaction
	ShouldFail bool
}

func (m *MockTransactionRepository) Save(_ context.Context, transaction domain.Transaction) (string, error) {
	if m.ShouldFail {
		return "", errors.New("new row violates row-level security policy")
	}
	transaction.ID = fmt.Sprintf("tx-%d", len(m.Saved)+1)
	m.Saved = append(m.Saved, transaction)
	return transaction.ID, nil
}

type MockCategoryRepository struct {
	Created    []domain.Category
	ShouldFail bool
}

func (m *MockCategoryRepository) GetOrCreate(_ context.Context, userID, name, categoryType, color string) (string, error) {
	if m.ShouldFail {
		return "", errors.New("category insert rejected")
	}
	for _, c := range m.Created {
		if c.UserID == userID && c.Name == name {
			return c.ID, nil
		}
	}
	category := domain.Category{
		ID:     fmt.Sprintf("cat-%d", len(m.Created)+1),
		UserID: userID,
		Name:   name,
		Type:   categoryType,
		Color:  color,
	}
	m.Created = append(m.Created, category)
	return category.ID, nil
}

type MockAccountRepository struct {
	Accounts   map[string]string // userID -> account id
	ShouldFail bool
}

func (m *MockAccountRepository) EnsureDefault(_ context.Context, userID string) (string, error) {
	if m.ShouldFail {
		return "", errors.New("account insert rejected")
	}
	if m.Accounts == nil {
		m.Accounts = make(map[string]string)
	}
	if id, ok := m.Accounts[userID]; ok {
		return id, nil
	}
	id := fmt.Sprintf("acc-%d", len(m.Accounts)+1)
	m.Accounts[userID] = id
	return id, nil
}
