// Package assistant turns free-form chat input into a typed plan of domain
// actions and applies that plan against the domain writers. The plan either
// comes from the language model or is synthesized from the rule-based
// classifier when the model is disabled or yields nothing.
package assistant

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the closed vocabulary of plan actions. The model is instructed to
// emit exactly these tags; anything else fails decoding.
type Kind string

const (
	KindAddTransaction Kind = "add_transaction"
	KindAddIncome      Kind = "add_income"
	KindAddTask        Kind = "add_task"
	KindLogWorkout     Kind = "log_workout"
	KindSuggestWeekly  Kind = "suggest_weekly"
	KindNone           Kind = "none"
)

type TransactionPayload struct {
	Amount      *decimal.Decimal
	Currency    string
	Category    string
	Description string
	Source      string
	Type        string
	OccurredAt  *time.Time
}

type TaskPayload struct {
	Title    string
	Due      *time.Time
	Start    *time.Time
	Priority string
	Text     string
}

type WorkoutPayload struct {
	Sport       string
	DurationMin *int
	Intensity   string
	OccurredAt  *time.Time
	Notes       string
}

// Action is a tagged variant: exactly the payload matching Kind is non-nil.
type Action struct {
	Kind        Kind
	Transaction *TransactionPayload
	Task        *TaskPayload
	Workout     *WorkoutPayload
}

// Plan is the resolver output for one inbound event: an ordered action list
// plus a short human-readable reply.
type Plan struct {
	Actions []Action
	Reply   string
}

// wirePlan and wireAction mirror the JSON contract the model is told to
// follow: two top-level fields, actions tagged by "type", flat camelCase
// payload fields.
type wirePlan struct {
	Actions []wireAction `json:"actions"`
	Reply   string       `json:"reply"`
}

type wireAction struct {
	Type string `json:"type"`

	Amount      *json.Number `json:"amount"`
	Currency    string       `json:"currency"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Note        string       `json:"note"`
	Source      string       `json:"source"`
	OccurredAt  string       `json:"occurredAt"`

	Title     string `json:"title"`
	DueDate   string `json:"dueDate"`
	StartDate string `json:"startDate"`
	Priority  string `json:"priority"`
	Text      string `json:"text"`

	Sport       string `json:"sport"`
	SportType   string `json:"sportType"`
	DurationMin *int   `json:"durationMin"`
	Intensity   string `json:"intensity"`
	Notes       string `json:"notes"`

	TxType string `json:"txType"`
}

// DecodePlan parses and validates the model's JSON output. Validation happens
// here, once, at the resolver boundary; the applier can assume every action
// is well-formed.
func DecodePlan(raw []byte) (Plan, error) {
	var wire wirePlan
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Plan{}, fmt.Errorf("decode plan: %w", err)
	}

	plan := Plan{Reply: wire.Reply}
	for i, wa := range wire.Actions {
		action, err := decodeAction(wa)
		if err != nil {
			return Plan{}, fmt.Errorf("decode plan: action %d: %w", i, err)
		}
		if action.Kind == KindNone {
			continue
		}
		plan.Actions = append(plan.Actions, action)
	}
	return plan, nil
}

func decodeAction(wa wireAction) (Action, error) {
	switch Kind(wa.Type) {
	case KindAddTransaction, KindAddIncome:
		payload := &TransactionPayload{
			Currency:    wa.Currency,
			Category:    wa.Category,
			Description: wa.Description,
			Source:      wa.Source,
			Type:        wa.TxType,
		}
		if payload.Description == "" {
			payload.Description = wa.Note
		}
		if payload.Description == "" {
			payload.Description = wa.Text
		}
		if wa.Amount != nil {
			amount, err := decimal.NewFromString(wa.Amount.String())
			if err != nil {
				return Action{}, fmt.Errorf("amount %q: %w", wa.Amount.String(), err)
			}
			payload.Amount = &amount
		}
		occurredAt, err := parseWireTime(wa.OccurredAt)
		if err != nil {
			return Action{}, err
		}
		payload.OccurredAt = occurredAt
		return Action{Kind: Kind(wa.Type), Transaction: payload}, nil

	case KindAddTask:
		due, err := parseWireTime(wa.DueDate)
		if err != nil {
			return Action{}, err
		}
		start, err := parseWireTime(wa.StartDate)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: KindAddTask, Task: &TaskPayload{
			Title:    wa.Title,
			Due:      due,
			Start:    start,
			Priority: wa.Priority,
			Text:     wa.Text,
		}}, nil

	case KindLogWorkout:
		sport := wa.Sport
		if sport == "" {
			sport = wa.SportType
		}
		occurredAt, err := parseWireTime(wa.OccurredAt)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: KindLogWorkout, Workout: &WorkoutPayload{
			Sport:       sport,
			DurationMin: wa.DurationMin,
			Intensity:   wa.Intensity,
			OccurredAt:  occurredAt,
			Notes:       wa.Notes,
		}}, nil

	case KindSuggestWeekly:
		return Action{Kind: KindSuggestWeekly}, nil

	case KindNone:
		return Action{Kind: KindNone}, nil

	default:
		return Action{}, fmt.Errorf("unknown action type %q", wa.Type)
	}
}

var wireTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseWireTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparsable timestamp %q", s)
}
