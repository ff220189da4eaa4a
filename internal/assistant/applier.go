package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artilectai/artilect-bot/internal/finance/application"
	financeErrors "github.com/artilectai/artilect-bot/internal/finance/errors"
	"github.com/artilectai/artilect-bot/internal/tasks"
	"github.com/artilectai/artilect-bot/internal/workout"
)

type TransactionWriter interface {
	RecordFromText(ctx context.Context, userID, text string) application.WriteResult
	Record(ctx context.Context, userID string, in application.TransactionInput) application.WriteResult
}

type TaskWriter interface {
	CreateFromText(ctx context.Context, userID, text string) tasks.WriteResult
	Create(ctx context.Context, userID string, in tasks.TaskInput) tasks.WriteResult
}

type WorkoutWriter interface {
	Log(ctx context.Context, userID string, in workout.SessionInput) workout.WriteResult
}

// Applier maps plan actions to domain writes and phrases one confirmation
// line per action. Actions run independently in order; one failure never
// aborts the rest, and failures produce a visible line instead of being
// dropped.
type Applier struct {
	finance  TransactionWriter
	tasks    TaskWriter
	workouts WorkoutWriter
	debug    bool
	log      zerolog.Logger
}

func NewApplier(finance TransactionWriter, taskWriter TaskWriter, workouts WorkoutWriter, debug bool, log zerolog.Logger) *Applier {
	return &Applier{finance: finance, tasks: taskWriter, workouts: workouts, debug: debug, log: log}
}

// Apply executes every action in the plan and returns the confirmation lines.
func (a *Applier) Apply(ctx context.Context, userID string, plan Plan) []string {
	var lines []string
	for _, action := range plan.Actions {
		switch action.Kind {
		case KindAddTransaction, KindAddIncome:
			lines = append(lines, a.applyTransaction(ctx, userID, action))
		case KindAddTask:
			lines = append(lines, a.applyTask(ctx, userID, action.Task))
		case KindLogWorkout:
			lines = append(lines, a.applyWorkout(ctx, userID, action.Workout))
		case KindSuggestWeekly:
			lines = append(lines, "I'll prepare a weekly workout suggestion — check the Workout tab in the app.")
		}
	}
	return lines
}

func (a *Applier) applyTransaction(ctx context.Context, userID string, action Action) string {
	p := action.Transaction

	direction := p.Type
	if direction == "" {
		if action.Kind == KindAddIncome || p.Source != "" {
			direction = "income"
		} else {
			direction = "expense"
		}
	}

	var res application.WriteResult
	if p.Amount != nil {
		res = a.finance.Record(ctx, userID, application.TransactionInput{
			Type:        direction,
			Amount:      *p.Amount,
			Currency:    p.Currency,
			Category:    p.Category,
			Description: p.Description,
			OccurredAt:  p.OccurredAt,
		})
	} else {
		res = a.finance.RecordFromText(ctx, userID, p.Description)
	}

	if !res.OK {
		if res.Reason == financeErrors.ReasonAmountNotFound {
			return "I couldn't find the amount. Try: I spent 25 000 on food"
		}
		return "Couldn't save the transaction, please try again."
	}

	sign := "-"
	if res.Type == "income" {
		sign = "+"
	}
	return a.withDebugID(fmt.Sprintf("Recorded %s%s %s (%s).", sign, res.Amount.String(), res.Currency, res.Category), res.ID)
}

func (a *Applier) applyTask(ctx context.Context, userID string, p *TaskPayload) string {
	var res tasks.WriteResult
	if p.Title != "" {
		res = a.tasks.Create(ctx, userID, tasks.TaskInput{
			Title:    p.Title,
			Due:      p.Due,
			Start:    p.Start,
			Priority: p.Priority,
		})
	} else {
		res = a.tasks.CreateFromText(ctx, userID, p.Text)
	}

	if !res.OK {
		return "Couldn't create a task, please try again."
	}
	return a.withDebugID(fmt.Sprintf("Task created. Due %s.", res.Due.Format("2006-01-02 15:04")), res.ID)
}

func (a *Applier) applyWorkout(ctx context.Context, userID string, p *WorkoutPayload) string {
	res := a.workouts.Log(ctx, userID, workout.SessionInput{
		Sport:       p.Sport,
		DurationMin: p.DurationMin,
		Intensity:   p.Intensity,
		OccurredAt:  p.OccurredAt,
		Notes:       p.Notes,
	})

	if !res.OK {
		return "Couldn't log the workout, please try again."
	}
	return a.withDebugID(fmt.Sprintf("Workout logged (%s).", res.Sport), res.ID)
}

func (a *Applier) withDebugID(line, id string) string {
	if !a.debug || id == "" {
		return line
	}
	return fmt.Sprintf("%s [%s]", line, id)
}
