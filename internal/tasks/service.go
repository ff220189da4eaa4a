package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/artilectai/artilect-bot/internal/nlu"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
	log  zerolog.Logger
}

func NewService(repo Repository, loc *time.Location, log zerolog.Logger) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now, log: log}
}

// WithClock overrides the service clock, used in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateFromText turns a raw phrase into a task. Due time extraction tries
// the rich date parser first, then the legacy "tomorrow at HH" one, and
// finally falls back to "now".
func (s *Service) CreateFromText(ctx context.Context, userID, text string) WriteResult {
	now := s.now().In(s.loc)
	due, ok := nlu.ParseWhen(text, now, s.loc)
	if !ok {
		due, ok = nlu.ParseTomorrowAt(text, now, s.loc)
	}
	if !ok {
		due = now
	}

	title := capitalize(strings.TrimSpace(text))
	if title == "" {
		title = DefaultTitle
	}

	return s.save(ctx, Task{
		UserID:   userID,
		Title:    title,
		Status:   StatusTodo,
		Priority: PriorityMedium,
		DueAt:    due,
	})
}

// Create is the structured write path.
func (s *Service) Create(ctx context.Context, userID string, in TaskInput) WriteResult {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle
	}

	due := s.now().In(s.loc)
	if in.Due != nil {
		due = in.Due.In(s.loc)
	}

	priority := in.Priority
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		priority = PriorityMedium
	}

	return s.save(ctx, Task{
		UserID:   userID,
		Title:    title,
		Status:   StatusTodo,
		Priority: priority,
		DueAt:    due,
		StartAt:  in.Start,
	})
}

func (s *Service) save(ctx context.Context, task Task) WriteResult {
	id, err := s.repo.Save(ctx, task)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", task.UserID).Msg("task insert failed")
		return WriteResult{Reason: ReasonDBError}
	}
	return WriteResult{OK: true, ID: id, Due: task.DueAt}
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
