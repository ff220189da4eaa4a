package workout

import (
	"context"
	"errors"
	"fmt"
)

type MockRepository struct {
	Saved      []Session
	ShouldFail bool
}

func (m *MockRepository) Save(_ context.Context, session Session) (string, error) {
	if m.ShouldFail {
		return "", errors.New("workout insert rejected")
	}
	session.ID = fmt.Sprintf("workout-%d", len(m.Saved)+1)
	m.Saved = append(m.Saved, session)
	return session.ID, nil
}
