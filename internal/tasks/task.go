// Package tasks holds the planner-item writer. A task always carries a due
// timestamp so it stays visible in the app's day-scoped view: when no date
// can be extracted the due time defaults to "now".
package tasks

import (
	"context"
	"time"
)

const (
	StatusTodo     = "todo"
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	DefaultTitle   = "Task"
	ReasonDBError  = "db_error"
)

type Task struct {
	ID       string
	UserID   string
	Title    string
	Status   string
	Priority string
	DueAt    time.Time
	StartAt  *time.Time
}

type Repository interface {
	Save(ctx context.Context, task Task) (string, error)
}

// WriteResult is the outcome of one attempted task write.
type WriteResult struct {
	OK     bool
	Reason string
	ID     string
	Due    time.Time
}

// TaskInput is the structured write path used by the action applier.
type TaskInput struct {
	Title    string
	Due      *time.Time
	Start    *time.Time
	Priority string
}
