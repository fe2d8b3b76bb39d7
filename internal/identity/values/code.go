package values

import (
	"crypto/subtle"
	"strings"
	"unicode"

	dErrors "terranova/pkg/domain-errors"

	"terranova/pkg/guard"
)

// minCodeLength is the shortest verification code we accept.
const minCodeLength = 6

// Code is a single-use verification code. Verification call sites compare
// through Matches rather than touching the raw value, and String masks it.
type Code struct {
	value string
}

// CodeFrom validates raw input into a Code.
func CodeFrom(code string) (Code, error) {
	if err := guard.StringNotBlank(code, "code"); err != nil {
		return Code{}, err
	}

	code = strings.TrimSpace(code)

	if len(code) < minCodeLength {
		return Code{}, dErrors.Newf(dErrors.CodeValidation, "the code must be at least %d characters", minCodeLength)
	}
	for _, r := range code {
		if unicode.IsSpace(r) {
			return Code{}, dErrors.New(dErrors.CodeValidation, "the code cannot contain whitespace characters")
		}
	}

	return Code{value: code}, nil
}

// RestoreCode rehydrates a Code from trusted storage without validation.
func RestoreCode(stored string) Code { return Code{value: stored} }

// Matches reports whether candidate equals the stored code. The comparison
// is constant-time so call sites cannot be used as a timing oracle.
func (c Code) Matches(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(candidate)) == 1
}

// Value returns the stored code for persistence. Prefer Matches everywhere
// else.
func (c Code) Value() string { return c.value }

// String masks the code so it never lands in logs.
func (c Code) String() string { return "Code(****)" }

// IsZero reports whether the code is the invalid zero value.
func (c Code) IsZero() bool { return c.value == "" }
