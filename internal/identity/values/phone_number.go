package values

import (
	"regexp"
	"strings"

	dErrors "terranova/pkg/domain-errors"

	"terranova/pkg/guard"
)

// E.164: optional leading '+', first digit 1-9, 2 to 15 digits total.
var e164Pattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// PhoneNumber is an E.164 phone number, normalized to always carry the
// leading '+'.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber validates raw input against the E.164 format and normalizes
// it. Examples of accepted input: "+18298091212", "18298091212".
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	if err := guard.StringNotBlank(raw, "phoneNumber"); err != nil {
		return PhoneNumber{}, err
	}

	v := strings.TrimSpace(raw)
	if !e164Pattern.MatchString(v) {
		return PhoneNumber{}, dErrors.New(dErrors.CodeValidation, "the phone number format is invalid")
	}

	if !strings.HasPrefix(v, "+") {
		v = "+" + v
	}

	return PhoneNumber{value: v}, nil
}

// RestorePhoneNumber rehydrates a PhoneNumber from trusted storage without
// validation.
func RestorePhoneNumber(stored string) PhoneNumber { return PhoneNumber{value: stored} }

// String returns the normalized E.164 form.
func (p PhoneNumber) String() string { return p.value }

// IsZero reports whether the phone number is the invalid zero value.
func (p PhoneNumber) IsZero() bool { return p.value == "" }
