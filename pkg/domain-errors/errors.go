// Package domainerrors carries the error taxonomy for domain and service
// layers. Validation failures, invariant violations, and conflicts are all
// expressed as coded errors so upper layers can translate them without
// string matching.
//
// Import as:
//
//	dErrors "terranova/pkg/domain-errors"
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for translation at the boundary.
type Code string

const (
	// CodeValidation marks malformed or out-of-range caller input detected
	// by guard clauses (bad format, blank required field, non-UTC timestamp).
	CodeValidation Code = "validation"

	// CodeInvalidInput marks input rejected while parsing at a trust
	// boundary (identifiers, request payload fields).
	CodeInvalidInput Code = "invalid_input"

	// CodeInvariantViolation marks an operation the entity's current state
	// forbids: re-revoking a revoked token, consuming a consumed or expired
	// verification. The input shape was fine; the state was not.
	CodeInvariantViolation Code = "invariant_violation"

	CodeConflict     Code = "conflict"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeBadRequest   Code = "bad_request"
	CodeInternal     Code = "internal"
)

// Error is the concrete coded error. Construct via New, Newf, or Wrap.
type Error struct {
	code Code
	msg  string
	err  error
}

// New builds a coded error with a human-readable reason.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Newf is New with fmt-style formatting.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the classification of this error.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable reason without the code prefix.
func (e *Error) Message() string { return e.msg }

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.code == code {
			return true
		}
		err = de.err
	}
	return false
}

// CodeOf returns the code of the outermost domain error in the chain, or
// CodeInternal if err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// Is makes coded errors comparable by code through errors.Is.
func (e *Error) Is(target error) bool {
	var de *Error
	if !errors.As(target, &de) {
		return false
	}
	return e.code == de.code
}
