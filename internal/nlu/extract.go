// Package nlu contains the deterministic extractors and the rule-based intent
// classifier. Everything here is a pure function over a string: no I/O, no
// clock access, no store access. Time-dependent helpers take now and the
// location explicitly so they stay testable.
package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is written colloquially in chat ("25k", "25 000", "1,234,567"), so the
// extractor favors recall over strict validation and keeps the first match.
var moneyRe = regexp.MustCompile(`(?i)(?:^|[^0-9])(\d{1,3}(?:[\s,._]\d{3})+|\d+)(?:\s?([kк]))?`)

var moneySeparators = strings.NewReplacer(" ", "", ",", "", ".", "", "_", "")

// ParseMoney finds the first grouped-integer run in text, strips grouping
// separators and applies the thousand shorthand ("25k" → 25000). The second
// return value is false when no amount is present.
func ParseMoney(text string) (decimal.Decimal, bool) {
	m := moneyRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	raw := moneySeparators.Replace(m[1])
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if m[2] != "" {
		amount = amount.Mul(decimal.NewFromInt(1000))
	}
	return amount, true
}

// The day words are bounded on both sides: the char before must not be a
// letter and the char after must be a separator, so "todays 5 tasks" is not
// a time phrase.
var (
	todayAtRe    = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:today|сегодня)[^\p{L}0-9_][^0-9]{0,19}(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	tomorrowAtRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:tomorrow|завтра|эртага)[^\p{L}0-9_][^0-9]{0,19}(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	bareAtRe     = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
)

func applyAMPM(hh int, ampm string) int {
	switch strings.ToLower(ampm) {
	case "pm":
		if hh < 12 {
			return hh + 12
		}
	case "am":
		if hh == 12 {
			return 0
		}
	}
	return hh
}

func atClock(day time.Time, hh, mm int, loc *time.Location) (time.Time, bool) {
	if hh > 23 || mm > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, loc), true
}

func clockFromMatch(m []string, day time.Time, loc *time.Location) (time.Time, bool) {
	hh, _ := strconv.Atoi(m[1])
	hh = applyAMPM(hh, m[3])
	mm := 0
	if m[2] != "" {
		mm, _ = strconv.Atoi(m[2])
	}
	return atClock(day, hh, mm, loc)
}

// ParseWhen recognizes three phrase shapes in fixed priority order:
// "today at 9pm", "tomorrow 21:00" and a bare "at 14:30" (anchored to today).
// The result is localized to loc; false means none of the shapes matched.
func ParseWhen(text string, now time.Time, loc *time.Location) (time.Time, bool) {
	now = now.In(loc)
	if m := todayAtRe.FindStringSubmatch(text); m != nil {
		return clockFromMatch(m, now, loc)
	}
	if m := tomorrowAtRe.FindStringSubmatch(text); m != nil {
		return clockFromMatch(m, now.AddDate(0, 0, 1), loc)
	}
	if m := bareAtRe.FindStringSubmatch(text); m != nil {
		return clockFromMatch(m, now, loc)
	}
	return time.Time{}, false
}

// ParseTomorrowAt is the legacy narrow variant that only understands
// "tomorrow ... at HH[:MM] am/pm?". ParseWhen must be tried first; this one
// is kept for compatibility with the original task flow.
func ParseTomorrowAt(text string, now time.Time, loc *time.Location) (time.Time, bool) {
	m := tomorrowAtRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return clockFromMatch(m, now.In(loc).AddDate(0, 0, 1), loc)
}

var (
	hintTailRe = regexp.MustCompile(`(?i)(?:on|for|на|для)\s+([\p{L}0-9\- ]{3,30})$`)
	hintNounRe = regexp.MustCompile(`(?i)\b(food|grocer|transport|bus|taxi|dining|meal|salary|bonus)[a-z]*`)
)

// CategoryHint extracts a category hint: a trailing "on X" / "for X" phrase,
// or failing that one of a small fixed vocabulary of domain nouns anywhere in
// the text. The hint is title-cased; false means no hint was found.
func CategoryHint(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if m := hintTailRe.FindStringSubmatch(trimmed); m != nil {
		return titleCase(strings.TrimSpace(m[1])), true
	}
	if m := hintNounRe.FindStringSubmatch(text); m != nil {
		return titleCase(m[1]), true
	}
	return "", false
}

// categoryNames normalizes colloquial hints to canonical category names.
// Unmapped hints pass through title-cased unchanged, which keeps the mapping
// idempotent on already-canonical names.
var categoryNames = map[string]string{
	"food":      "Groceries",
	"groceries": "Groceries",
	"transport": "Transport",
	"bus":       "Transport",
	"taxi":      "Transport",
	"dining":    "Dining",
	"meal":      "Dining",
	"salary":    "Salary",
	"bonus":     "Bonus",
}

// MapCategoryName converts a raw hint into the canonical category name.
// Returns "" for an empty hint.
func MapCategoryName(hint string) string {
	s := strings.ToLower(strings.TrimSpace(hint))
	if s == "" {
		return ""
	}
	if name, ok := categoryNames[s]; ok {
		return name
	}
	return titleCase(s)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
