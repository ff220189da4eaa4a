package link

import (
	"context"
	"errors"
	"time"
)

type MockRepository struct {
	Links      map[int64]string
	Codes      map[string]*Code
	ShouldFail bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		Links: make(map[int64]string),
		Codes: make(map[string]*Code),
	}
}

func (m *MockRepository) FindUserByTelegram(_ context.Context, telegramUserID int64) (string, error) {
	if m.ShouldFail {
		return "", errors.New("link store unavailable")
	}
	return m.Links[telegramUserID], nil
}

func (m *MockRepository) UpsertCode(_ context.Context, code string, telegramUserID int64) error {
	if m.ShouldFail {
		return errors.New("link store unavailable")
	}
	m.Codes[code] = &Code{Code: code, TelegramUserID: telegramUserID, CreatedAt: time.Now()}
	return nil
}

func (m *MockRepository) FindCode(_ context.Context, code string) (*Code, error) {
	if m.ShouldFail {
		return nil, errors.New("link store unavailable")
	}
	return m.Codes[code], nil
}

func (m *MockRepository) UpsertLink(_ context.Context, userID string, telegramUserID int64) error {
	if m.ShouldFail {
		return errors.New("link store unavailable")
	}
	m.Links[telegramUserID] = userID
	return nil
}

func (m *MockRepository) MarkCodeConsumed(_ context.Context, code, userID string) error {
	if m.ShouldFail {
		return errors.New("link store unavailable")
	}
	if c, ok := m.Codes[code]; ok {
		c.ConsumedBy = &userID
	}
	return nil
}

func (m *MockRepository) DeleteCodesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	if m.ShouldFail {
		return 0, errors.New("link store unavailable")
	}
	var deleted int64
	for code, c := range m.Codes {
		if c.CreatedAt.Before(cutoff) {
			delete(m.Codes, code)
			deleted++
		}
	}
	return deleted, nil
}
