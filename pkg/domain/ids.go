// Package domain holds the shared identifier types for the identity core.
//
// Identifiers are 128-bit, time-sortable ULIDs. Each aggregate gets its own
// Go type so a RoleID can never be passed where a UserID is expected; the
// compiler enforces what code review would otherwise have to catch. The zero
// value of every ID type is the empty sentinel and is invalid everywhere.
package domain

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	dErrors "terranova/pkg/domain-errors"
)

type (
	// UserID identifies a user aggregate.
	UserID ulid.ULID
	// RoleID identifies a role.
	RoleID ulid.ULID
	// RefreshTokenID identifies a refresh token.
	RefreshTokenID ulid.ULID
	// VerificationID identifies a user verification.
	VerificationID ulid.ULID
)

var (
	entropyOnce sync.Once
	entropyMu   sync.Mutex
	entropy     *ulid.MonotonicEntropy
)

// newULID generates a ULID from the current UTC instant and a monotonic
// entropy source. The mutex keeps the monotonic reader safe for concurrent
// callers.
func newULID() ulid.ULID {
	entropyOnce.Do(func() {
		entropy = ulid.Monotonic(rand.Reader, 0)
	})
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy)
}

// parseULID enforces the shared parsing rules: trimmed, strict canonical
// form, and never the zero sentinel.
func parseULID(s, field string) (ulid.ULID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ulid.ULID{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", field)
	}
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return ulid.ULID{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid identifier", field)
	}
	if u == (ulid.ULID{}) {
		return ulid.ULID{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the zero identifier", field)
	}
	return u, nil
}

// NewUserID returns a freshly generated user identifier.
func NewUserID() UserID { return UserID(newULID()) }

// ParseUserID parses external input into a UserID. Use at trust boundaries;
// casting bypasses validation.
func ParseUserID(s string) (UserID, error) {
	u, err := parseULID(s, "user id")
	return UserID(u), err
}

func (id UserID) String() string { return ulid.ULID(id).String() }
func (id UserID) IsZero() bool   { return id == UserID{} }

// NewRoleID returns a freshly generated role identifier.
func NewRoleID() RoleID { return RoleID(newULID()) }

// ParseRoleID parses external input into a RoleID.
func ParseRoleID(s string) (RoleID, error) {
	u, err := parseULID(s, "role id")
	return RoleID(u), err
}

func (id RoleID) String() string { return ulid.ULID(id).String() }
func (id RoleID) IsZero() bool   { return id == RoleID{} }

// NewRefreshTokenID returns a freshly generated refresh token identifier.
func NewRefreshTokenID() RefreshTokenID { return RefreshTokenID(newULID()) }

// ParseRefreshTokenID parses external input into a RefreshTokenID.
func ParseRefreshTokenID(s string) (RefreshTokenID, error) {
	u, err := parseULID(s, "refresh token id")
	return RefreshTokenID(u), err
}

func (id RefreshTokenID) String() string { return ulid.ULID(id).String() }
func (id RefreshTokenID) IsZero() bool   { return id == RefreshTokenID{} }

// NewVerificationID returns a freshly generated verification identifier.
func NewVerificationID() VerificationID { return VerificationID(newULID()) }

// ParseVerificationID parses external input into a VerificationID.
func ParseVerificationID(s string) (VerificationID, error) {
	u, err := parseULID(s, "verification id")
	return VerificationID(u), err
}

func (id VerificationID) String() string { return ulid.ULID(id).String() }
func (id VerificationID) IsZero() bool   { return id == VerificationID{} }
