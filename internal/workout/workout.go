// Package workout persists workout sessions reported through chat. The bot
// only writes sessions; programs and analytics live in the app.
package workout

import (
	"context"
	"time"
)

const (
	DefaultSport  = "workout"
	ReasonDBError = "db_error"
)

type Session struct {
	ID          string
	UserID      string
	SportType   string
	DurationMin *int
	Intensity   string
	OccurredAt  *time.Time
	Notes       string
}

type Repository interface {
	Save(ctx context.Context, session Session) (string, error)
}

type SessionInput struct {
	Sport       string
	DurationMin *int
	Intensity   string
	OccurredAt  *time.Time
	Notes       string
}

type WriteResult struct {
	OK     bool
	Reason string
	ID     string
	Sport  string
}
