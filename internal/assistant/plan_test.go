package assistant

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlanMultiAction(t *testing.T) {
	raw := `{
        "actions": [
            {"type": "add_transaction", "amount": 25000, "currency": "UZS", "category": "food", "description": "groceries run"},
            {"type": "add_income", "amount": 1200, "source": "salary"},
            {"type": "add_task", "title": "Meeting", "dueDate": "2026-08-29T10:00:00Z", "priority": "high"},
            {"type": "log_workout", "sport": "running", "durationMin": 30, "intensity": "high"}
        ],
        "reply": "Done."
    }`

	plan, err := DecodePlan([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Done.", plan.Reply)
	require.Len(t, plan.Actions, 4)

	tx := plan.Actions[0]
	assert.Equal(t, KindAddTransaction, tx.Kind)
	require.NotNil(t, tx.Transaction)
	require.NotNil(t, tx.Transaction.Amount)
	assert.True(t, tx.Transaction.Amount.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, "UZS", tx.Transaction.Currency)
	assert.Equal(t, "food", tx.Transaction.Category)
	assert.Equal(t, "groceries run", tx.Transaction.Description)

	income := plan.Actions[1]
	assert.Equal(t, KindAddIncome, income.Kind)
	assert.Equal(t, "salary", income.Transaction.Source)

	task := plan.Actions[2]
	assert.Equal(t, KindAddTask, task.Kind)
	require.NotNil(t, task.Task.Due)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), task.Task.Due.UTC())
	assert.Equal(t, "high", task.Task.Priority)

	wk := plan.Actions[3]
	assert.Equal(t, KindLogWorkout, wk.Kind)
	assert.Equal(t, "running", wk.Workout.Sport)
	require.NotNil(t, wk.Workout.DurationMin)
	assert.Equal(t, 30, *wk.Workout.DurationMin)
}

func TestDecodePlanDropsNoneActions(t *testing.T) {
	plan, err := DecodePlan([]byte(`{"actions":[{"type":"none"}],"reply":"What did you spend it on?"}`))
	require.NoError(t, err)
	assert.Empty(t, plan.Actions)
	assert.Equal(t, "What did you spend it on?", plan.Reply)
}

func TestDecodePlanRejectsUnknownActionType(t *testing.T) {
	_, err := DecodePlan([]byte(`{"actions":[{"type":"delete_everything"}],"reply":""}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action type")
}

func TestDecodePlanRejectsBadTimestamp(t *testing.T) {
	_, err := DecodePlan([]byte(`{"actions":[{"type":"add_task","title":"x","dueDate":"next tuesday"}],"reply":""}`))
	require.Error(t, err)
}

func TestDecodePlanNoteFallsBackToDescription(t *testing.T) {
	plan, err := DecodePlan([]byte(`{"actions":[{"type":"add_transaction","amount":10,"note":"coffee"}],"reply":""}`))
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, "coffee", plan.Actions[0].Transaction.Description)
}
