// Package values holds the self-validating value objects of the identity
// core. Each type has exactly one factory, no mutators, and compares by
// value. Constructing one that violates its format invariant is impossible.
package values

import (
	"net/mail"
	"strings"

	dErrors "terranova/pkg/domain-errors"

	"terranova/pkg/guard"
)

// Email is a normalized mailbox address: trimmed, lower-cased, exactly one
// '@', parseable as an RFC mailbox, and byte-identical after re-parsing.
type Email struct {
	value string
}

// NewEmail validates and normalizes raw input into an Email.
func NewEmail(raw string) (Email, error) {
	if err := guard.StringNotBlank(raw, "email"); err != nil {
		return Email{}, err
	}

	v := strings.ToLower(strings.TrimSpace(raw))

	if strings.ContainsAny(v, " \t") {
		return Email{}, dErrors.New(dErrors.CodeValidation, "the email cannot contain spaces")
	}

	at := strings.IndexByte(v, '@')
	if at <= 0 || at != strings.LastIndexByte(v, '@') || at == len(v)-1 {
		return Email{}, dErrors.New(dErrors.CodeValidation, "the email format is invalid")
	}

	addr, err := mail.ParseAddress(v)
	if err != nil {
		return Email{}, dErrors.New(dErrors.CodeValidation, "the email format is invalid")
	}
	// The parsed mailbox must round-trip exactly; this rejects display
	// names, comments, and other odd-but-parseable forms.
	if addr.Address != v {
		return Email{}, dErrors.New(dErrors.CodeValidation, "the email format is invalid")
	}

	return Email{value: v}, nil
}

// RestoreEmail rehydrates an Email from trusted storage. It performs no
// validation; NewEmail remains the only path for untrusted input.
func RestoreEmail(stored string) Email { return Email{value: stored} }

// String returns the normalized address.
func (e Email) String() string { return e.value }

// IsZero reports whether the email is the invalid zero value.
func (e Email) IsZero() bool { return e.value == "" }
