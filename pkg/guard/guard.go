// Package guard centralizes the precondition checks shared by every entity
// factory and mutator, so validation logic and error wording cannot drift
// between aggregates.
//
// Every guard is pure: it reads its arguments, and either returns nil or a
// validation error carrying the offending field name. No guard touches the
// wall clock; time comparisons always run against caller-supplied instants.
package guard

import (
	"time"
	"unicode"

	dErrors "terranova/pkg/domain-errors"
)

// Zeroer is satisfied by identifiers and value objects whose zero value is
// the invalid empty sentinel.
type Zeroer interface {
	IsZero() bool
}

// UTC fails when the instant is the zero value or carries a non-zero UTC
// offset. Wall-clock-local instants are ambiguous and never acceptable input.
func UTC(t time.Time, field string) error {
	if t.IsZero() {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' is uninitialized", field)
	}
	if _, offset := t.Zone(); offset != 0 {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' must be UTC (offset 00:00)", field)
	}
	return nil
}

// UTCNotBefore applies UTC, then fails when the instant is earlier than the
// reference.
func UTCNotBefore(t, reference time.Time, field string) error {
	if err := UTC(t, field); err != nil {
		return err
	}
	if t.Before(reference) {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' cannot be before %s", field, reference.Format(time.RFC3339))
	}
	return nil
}

// StringNotBlank fails on empty or all-whitespace strings.
func StringNotBlank(s, field string) error {
	if isBlank(s) {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' cannot be empty or whitespace", field)
	}
	return nil
}

// RuneInitialized fails when the rune is the zero sentinel or whitespace.
func RuneInitialized(r rune, field string) error {
	if r == 0 {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' is uninitialized", field)
	}
	if unicode.IsSpace(r) {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' cannot be whitespace", field)
	}
	return nil
}

// IDNotEmpty fails when the identifier is the empty sentinel.
func IDNotEmpty(id Zeroer, field string) error {
	if id == nil || id.IsZero() {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' cannot be the empty identifier", field)
	}
	return nil
}

// NotZero fails when a required value object is the zero sentinel.
func NotZero(v Zeroer, field string) error {
	if v == nil || v.IsZero() {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' is required", field)
	}
	return nil
}

// DateNotFuture fails when the calendar date of 'date' is strictly after the
// calendar date of 'today'. The comparison date is caller-supplied to keep
// the guard deterministic.
func DateNotFuture(date, today time.Time, field string) error {
	if date.IsZero() {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' is uninitialized", field)
	}
	dy, dm, dd := date.UTC().Date()
	ty, tm, td := today.UTC().Date()
	after := dy > ty ||
		(dy == ty && dm > tm) ||
		(dy == ty && dm == tm && dd > td)
	if after {
		return dErrors.Newf(dErrors.CodeValidation, "the field '%s' cannot be in the future", field)
	}
	return nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
