package nlu

import (
	"regexp"
	"strings"
)

// Intent is the coarse classification of a free-text message used on the
// fallback path when the plan resolver is unavailable or yields no actions.
type Intent string

const (
	IntentAddExpense Intent = "add_expense"
	IntentAddIncome  Intent = "add_income"
	IntentAddTask    Intent = "add_task"
	IntentUnknown    Intent = "unknown"
)

// Rule order matters: expense keywords shadow income and task keywords, so a
// message containing both "spent" and "meeting" records an expense.
var (
	expenseRe  = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:spent|потратил|расход|оплатил)(?:[^\p{L}]|$)`)
	incomeRe   = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:add income|income|salary|bonus|заработал|доход)(?:[^\p{L}]|$)`)
	taskRe     = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:meeting|встреча|task|задача|todo)(?:[^\p{L}]|$)`)
	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow\b`)
)

// ClassifyIntent maps raw text to one of the fixed intents. First match wins.
func ClassifyIntent(text string) Intent {
	t := strings.TrimSpace(strings.ToLower(text))
	switch {
	case expenseRe.MatchString(t):
		return IntentAddExpense
	case incomeRe.MatchString(t):
		return IntentAddIncome
	case taskRe.MatchString(t) || tomorrowRe.MatchString(t):
		return IntentAddTask
	default:
		return IntentUnknown
	}
}
