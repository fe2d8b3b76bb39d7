// Package passwords hashes and verifies user credentials. The encoded output
// is an Argon2id PHC string; the rest of the system treats it as opaque.
package passwords

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	dErrors "terranova/pkg/domain-errors"
)

const (
	saltLength  = 16
	keyLength   = 32
	iterations  = 3
	memory      = 64 * 1024
	parallelism = 2
)

// ErrMismatch is returned by Verify when the password does not match the
// stored hash.
var ErrMismatch = dErrors.New(dErrors.CodeUnauthorized, "the password does not match")

// Hasher turns plaintext credentials into encoded hashes and verifies them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) error
}

// Argon2 is the production Hasher. The zero value uses the package defaults.
type Argon2 struct{}

var _ Hasher = Argon2{}

// Hash generates a PHC-format Argon2id hash string including salt and
// parameters.
func (Argon2) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism, b64Salt, b64Hash,
	), nil
}

// Verify compares a plaintext password against a PHC-style Argon2id hash.
// The parameters encoded in the hash win over the package defaults, so old
// hashes keep verifying after a parameter bump.
func (Argon2) Verify(password, encodedHash string) error {
	// PHC format: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid hash format: not argon2id")
	}
	if parts[2] != "v=19" {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid hash format: failed to parse parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid hash format: failed to decode salt")
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid hash format: failed to decode hash")
	}

	computed := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(expected)))

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrMismatch
}
