package models

import (
	"time"

	dErrors "terranova/pkg/domain-errors"

	"terranova/internal/identity/values"
	"terranova/pkg/domain"
	"terranova/pkg/guard"
)

// UserVerification is a single-use, expiring verification code tied to a user
// and a purpose (e.g. "email_verify", "password_reset", "email_change").
//
// State machine: Pending (initial) -> Consumed (terminal), via Consume.
// Consuming twice, or after expiry, fails.
//
// Note the boundary: a verification is still consumable exactly at its expiry
// instant (Consume rejects only strictly-after), while RefreshToken.IsExpired
// is inclusive. The asymmetry is preserved intentionally.
type UserVerification struct {
	id         domain.VerificationID
	userID     domain.UserID
	purpose    string
	code       values.Code
	expiresAt  time.Time
	consumedAt *time.Time
	createdAt  time.Time
}

// NewUserVerification validates and returns a pending verification.
func NewUserVerification(
	id domain.VerificationID,
	userID domain.UserID,
	purpose string,
	code values.Code,
	expiresAt time.Time,
	createdAt time.Time,
) (*UserVerification, error) {
	if err := guard.IDNotEmpty(id, "id"); err != nil {
		return nil, err
	}
	if err := guard.IDNotEmpty(userID, "userId"); err != nil {
		return nil, err
	}
	if err := guard.StringNotBlank(purpose, "purpose"); err != nil {
		return nil, err
	}
	if err := guard.NotZero(code, "verificationCode"); err != nil {
		return nil, err
	}
	if err := guard.UTC(createdAt, "createdAt"); err != nil {
		return nil, err
	}
	if err := guard.UTCNotBefore(expiresAt, createdAt, "expiresAt"); err != nil {
		return nil, err
	}

	return &UserVerification{
		id:        id,
		userID:    userID,
		purpose:   purpose,
		code:      code,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}, nil
}

// Consume transitions the verification to its terminal state. It fails when
// the verification was already consumed, and with an expiry-specific error
// when the instant is strictly after ExpiresAt.
func (v *UserVerification) Consume(timestamp time.Time) error {
	if v.consumedAt != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "the verification code has already been consumed")
	}
	if err := guard.UTCNotBefore(timestamp, v.createdAt, "timestamp"); err != nil {
		return err
	}
	if timestamp.After(v.expiresAt) {
		return dErrors.New(dErrors.CodeInvariantViolation, "the verification code has expired")
	}

	ts := timestamp
	v.consumedAt = &ts
	return nil
}

// IsConsumed reports whether the verification reached its terminal state.
func (v *UserVerification) IsConsumed() bool { return v.consumedAt != nil }

func (v *UserVerification) ID() domain.VerificationID { return v.id }
func (v *UserVerification) UserID() domain.UserID     { return v.userID }
func (v *UserVerification) Purpose() string           { return v.purpose }
func (v *UserVerification) Code() values.Code         { return v.code }
func (v *UserVerification) ExpiresAt() time.Time      { return v.expiresAt }
func (v *UserVerification) CreatedAt() time.Time      { return v.createdAt }

// ConsumedAt returns the consumption instant, or nil while pending.
func (v *UserVerification) ConsumedAt() *time.Time {
	if v.consumedAt == nil {
		return nil
	}
	ts := *v.consumedAt
	return &ts
}

// UserVerificationSnapshot is the persistence view of a UserVerification.
type UserVerificationSnapshot struct {
	ID         domain.VerificationID
	UserID     domain.UserID
	Purpose    string
	Code       values.Code
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Snapshot copies the verification's state for persistence.
func (v *UserVerification) Snapshot() UserVerificationSnapshot {
	return UserVerificationSnapshot{
		ID:         v.id,
		UserID:     v.userID,
		Purpose:    v.purpose,
		Code:       v.code,
		ExpiresAt:  v.expiresAt,
		ConsumedAt: v.ConsumedAt(),
		CreatedAt:  v.createdAt,
	}
}

// RestoreUserVerification rehydrates a verification from a trusted snapshot.
func RestoreUserVerification(s UserVerificationSnapshot) *UserVerification {
	v := &UserVerification{
		id:        s.ID,
		userID:    s.UserID,
		purpose:   s.Purpose,
		code:      s.Code,
		expiresAt: s.ExpiresAt,
		createdAt: s.CreatedAt,
	}
	if s.ConsumedAt != nil {
		ts := *s.ConsumedAt
		v.consumedAt = &ts
	}
	return v
}
