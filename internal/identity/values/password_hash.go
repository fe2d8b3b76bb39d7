package values

import (
	"strings"
	"unicode"

	dErrors "terranova/pkg/domain-errors"

	"terranova/pkg/guard"
)

// minHashLength is the shortest encoded credential hash we accept. Modern
// schemes (argon2id PHC strings, SHA-256 hex) comfortably clear it; anything
// shorter is either truncated or not a hash at all.
const minHashLength = 64

// PasswordHash wraps an opaque, already-hashed credential. The domain never
// interprets the hashing scheme; it only enforces that the value is plausibly
// a hash and keeps it out of logs.
type PasswordHash struct {
	value string
}

// PasswordHashFrom validates raw hasher output into a PasswordHash.
func PasswordHashFrom(hash string) (PasswordHash, error) {
	if err := guard.StringNotBlank(hash, "passwordHash"); err != nil {
		return PasswordHash{}, err
	}

	hash = strings.TrimSpace(hash)

	if len(hash) < minHashLength {
		return PasswordHash{}, dErrors.Newf(dErrors.CodeValidation, "the password hash must be at least %d characters", minHashLength)
	}
	for _, r := range hash {
		if unicode.IsSpace(r) {
			return PasswordHash{}, dErrors.New(dErrors.CodeValidation, "the password hash cannot contain whitespace characters")
		}
	}

	return PasswordHash{value: hash}, nil
}

// RestorePasswordHash rehydrates a PasswordHash from trusted storage without
// validation.
func RestorePasswordHash(stored string) PasswordHash { return PasswordHash{value: stored} }

// Value returns the stored hash for persistence and verification call sites.
func (p PasswordHash) Value() string { return p.value }

// String masks the hash so casual logging never leaks credential material.
func (p PasswordHash) String() string { return "PasswordHash(***)" }

// IsZero reports whether the hash is the invalid zero value.
func (p PasswordHash) IsZero() bool { return p.value == "" }
