package tasks

import (
	"context"
	"errors"
	"fmt"
)

type MockRepository struct {
	Saved      []Task
	ShouldFail bool
}

func (m *MockRepository) Save(_ context.Context, task Task) (string, error) {
	if m.ShouldFail {
		return "", errors.New("task insert rejected")
	}
	task.ID = fmt.Sprintf("task-%d", len(m.Saved)+1)
	m.Saved = append(m.Saved, task)
	return task.ID, nil
}
