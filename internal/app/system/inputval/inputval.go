// Package inputval implements the declarative request validation used by the
// JSON handlers. A handler declares a fixed []Rule and calls Validate before
// touching the store; any returned FieldError aborts the request with 400.
package inputval

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/waffle/pantry/validate"
)

// FieldError describes one failing rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule checks a single field of a payload.
type Rule struct {
	Field   string
	Message string
	check   func(string) bool
}

// Required fails when the field is missing or blank.
func Required(field, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v string) bool {
		return strings.TrimSpace(v) != ""
	}}
}

// Email fails unless the field holds a plausible email address.
func Email(field, msg string) Rule {
	return Rule{Field: field, Message: msg, check: IsValidEmail}
}

// MinLength fails when the field has fewer than n characters.
func MinLength(field string, n int, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v string) bool {
		return utf8.RuneCountInString(v) >= n
	}}
}

// MaxBytes fails when the field is longer than n bytes.
func MaxBytes(field string, n int, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v string) bool {
		return len(v) <= n
	}}
}

// Check wraps an arbitrary predicate; it fails when ok returns false.
func Check(field, msg string, ok func(string) bool) Rule {
	return Rule{Field: field, Message: msg, check: ok}
}

// Date fails when the field is present but not a date ParseDate accepts.
// Use together with Required when the date is mandatory.
func Date(field, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v string) bool {
		if strings.TrimSpace(v) == "" {
			return true
		}
		_, err := ParseDate(v)
		return err == nil
	}}
}

// Validate runs every rule against values and returns one FieldError per
// failing rule, in rule order. A field can appear more than once. The result
// is empty (non-nil) when everything passes.
func Validate(values map[string]string, rules []Rule) []FieldError {
	errs := []FieldError{}
	for _, r := range rules {
		if !r.check(values[r.Field]) {
			errs = append(errs, FieldError{Field: r.Field, Message: r.Message})
		}
	}
	return errs
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return validate.SimpleEmailValid(s)
}

var errBadDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// ParseDate accepts "2006-01-02" or RFC 3339 timestamps and returns UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadDate
}
