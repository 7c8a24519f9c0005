package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Field length and range bounds shared across entities.
const (
	MaxNotesLength = 500

	MinQuantity = 0.01
	MaxQuantity = 10000

	MinDefaultQuantity = 0.01
	MaxDefaultQuantity = 1000
)

// DayLayout is the serialized form of a day-granular date.
const DayLayout = "2006-01-02"

// emailRe is a deliberately loose RFC-shaped check: something before an @,
// something after it, and a dot in the domain part.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Day truncates t to day granularity in UTC, discarding the time of day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// validateName trims s and checks its length against [min, max].
// The trimmed value is returned alongside any field errors.
func validateName(field, s string, min, max int) (string, []FieldError) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return trimmed, []FieldError{{Field: field, Rule: RuleRequired, Message: field + " is required", Value: s}}
	}
	if n := len([]rune(trimmed)); n < min || n > max {
		return trimmed, []FieldError{{
			Field:   field,
			Rule:    RuleLength,
			Message: fmt.Sprintf("%s must be between %d and %d characters", field, min, max),
			Value:   s,
		}}
	}
	return trimmed, nil
}

// validateOptionalText trims s and checks it does not exceed max characters.
// Empty means absent and is always valid.
func validateOptionalText(field, s string, max int) (string, []FieldError) {
	trimmed := strings.TrimSpace(s)
	if n := len([]rune(trimmed)); n > max {
		return trimmed, []FieldError{{
			Field:   field,
			Rule:    RuleLength,
			Message: fmt.Sprintf("%s must not exceed %d characters", field, max),
			Value:   s,
		}}
	}
	return trimmed, nil
}

// validateEmail trims and lowercases s and checks its shape. Empty means
// absent and is always valid.
func validateEmail(s string) (string, []FieldError) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", nil
	}
	if !emailRe.MatchString(normalized) {
		return normalized, []FieldError{{
			Field:   "email",
			Rule:    RuleFormat,
			Message: "email is not a valid address",
			Value:   s,
		}}
	}
	return normalized, nil
}

// validateQuantity checks q against [min, max].
func validateQuantity(field string, q, min, max float64) []FieldError {
	if q < min || q > max {
		return []FieldError{{
			Field:   field,
			Rule:    RuleRange,
			Message: fmt.Sprintf("%s must be between %g and %g", field, min, max),
			Value:   q,
		}}
	}
	return nil
}

// validateRequiredID checks that an entity reference is present.
func validateRequiredID(field, id string) []FieldError {
	if id == "" || id == "00000000-0000-0000-0000-000000000000" {
		return []FieldError{{Field: field, Rule: RuleRequired, Message: field + " is required", Value: id}}
	}
	return nil
}

// errorOrNil wraps accumulated field errors into a single ValidationError,
// or returns nil when there are none.
func errorOrNil(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return NewValidationErrors(fields...)
}
