// Package models holds the identity aggregates. Every entity is constructed
// through a factory that validates the full invariant set and returns an
// already-valid instance; mutation happens only through methods that take the
// caller-supplied current instant. The package never reads the wall clock.
package models

import (
	"time"

	"terranova/internal/identity/values"
	"terranova/pkg/domain"
	"terranova/pkg/guard"
)

// User is the account aggregate.
//
// Invariants:
//   - ID, FirstName, LastName, PasswordHash, and Email are always set
//   - BirthDate is never after the date of the validating instant
//   - Gender is a single non-whitespace, initialized rune
//   - CreatedAt is immutable; UpdatedAt never precedes CreatedAt and
//     advances on every mutation, even a no-op Update
//   - Deletion is a soft flag; domain logic never destroys the record
type User struct {
	id           domain.UserID
	firstName    string
	lastName     string
	phoneNumber  *values.PhoneNumber
	birthDate    time.Time
	gender       rune
	passwordHash values.PasswordHash
	isActive     bool
	isDeleted    bool
	createdAt    time.Time
	updatedAt    time.Time
	email        values.Email
}

// NewUser validates all inputs and returns an active, non-deleted user with
// CreatedAt == UpdatedAt == timestamp. The birth date is checked against the
// calendar date of timestamp, keeping the factory deterministic.
// phoneNumber may be nil: a user without a phone is valid.
func NewUser(
	id domain.UserID,
	firstName string,
	lastName string,
	birthDate time.Time,
	gender rune,
	passwordHash values.PasswordHash,
	timestamp time.Time,
	email values.Email,
	phoneNumber *values.PhoneNumber,
) (*User, error) {
	if err := guard.IDNotEmpty(id, "id"); err != nil {
		return nil, err
	}
	if err := guard.StringNotBlank(firstName, "firstName"); err != nil {
		return nil, err
	}
	if err := guard.StringNotBlank(lastName, "lastName"); err != nil {
		return nil, err
	}
	if err := guard.RuneInitialized(gender, "gender"); err != nil {
		return nil, err
	}
	if err := guard.NotZero(passwordHash, "passwordHash"); err != nil {
		return nil, err
	}
	if err := guard.NotZero(email, "emailAddress"); err != nil {
		return nil, err
	}
	if err := guard.UTC(timestamp, "timestamp"); err != nil {
		return nil, err
	}
	if err := guard.DateNotFuture(birthDate, timestamp, "birthDate"); err != nil {
		return nil, err
	}

	return &User{
		id:           id,
		firstName:    firstName,
		lastName:     lastName,
		phoneNumber:  phoneNumber,
		birthDate:    birthDate,
		gender:       gender,
		passwordHash: passwordHash,
		isActive:     true,
		isDeleted:    false,
		createdAt:    timestamp,
		updatedAt:    timestamp,
		email:        email,
	}, nil
}

// Update applies the provided profile fields. Blank or zero-valued fields are
// silently ignored rather than rejected, so callers can pass only what
// changed. The timestamp is always validated and always advances UpdatedAt,
// even when every field was ignored.
func (u *User) Update(timestamp time.Time, firstName, lastName string, gender rune) error {
	if err := guard.UTCNotBefore(timestamp, u.createdAt, "timestamp"); err != nil {
		return err
	}
	if gender != 0 {
		if err := guard.RuneInitialized(gender, "gender"); err != nil {
			return err
		}
	}

	if err := guard.StringNotBlank(firstName, "firstName"); err == nil {
		u.firstName = firstName
	}
	if err := guard.StringNotBlank(lastName, "lastName"); err == nil {
		u.lastName = lastName
	}
	if gender != 0 {
		u.gender = gender
	}

	u.updatedAt = timestamp
	return nil
}

// SetPasswordHash replaces the credential hash.
func (u *User) SetPasswordHash(passwordHash values.PasswordHash, timestamp time.Time) error {
	if err := guard.NotZero(passwordHash, "passwordHash"); err != nil {
		return err
	}
	if err := guard.UTCNotBefore(timestamp, u.createdAt, "timestamp"); err != nil {
		return err
	}
	u.passwordHash = passwordHash
	u.updatedAt = timestamp
	return nil
}

// SetIsActive flips the activation flag.
func (u *User) SetIsActive(isActive bool, timestamp time.Time) error {
	if err := guard.UTCNotBefore(timestamp, u.createdAt, "timestamp"); err != nil {
		return err
	}
	u.isActive = isActive
	u.updatedAt = timestamp
	return nil
}

// SetIsDeleted flips the soft-delete flag.
func (u *User) SetIsDeleted(isDeleted bool, timestamp time.Time) error {
	if err := guard.UTCNotBefore(timestamp, u.createdAt, "timestamp"); err != nil {
		return err
	}
	u.isDeleted = isDeleted
	u.updatedAt = timestamp
	return nil
}

// SetEmailAddress replaces the email address.
func (u *User) SetEmailAddress(email values.Email, timestamp time.Time) error {
	if err := guard.NotZero(email, "emailAddress"); err != nil {
		return err
	}
	if err := guard.UTCNotBefore(timestamp, u.createdAt, "timestamp"); err != nil {
		return err
	}
	u.email = email
	u.updatedAt = timestamp
	return nil
}

// SetPhoneNumber replaces the phone number. nil clears it: unlike the
// required value objects, "no phone" is a legal state.
func (u *User) SetPhoneNumber(phoneNumber *values.PhoneNumber, timestamp time.Time) error {
	if err := guard.UTCNotBefore(timestamp, u.createdAt, "timestamp"); err != nil {
		return err
	}
	u.phoneNumber = phoneNumber
	u.updatedAt = timestamp
	return nil
}

// SetBirthDate replaces the birth date, checked against the calendar date of
// the mutation instant.
func (u *User) SetBirthDate(birthDate, timestamp time.Time) error {
	if err := guard.UTCNotBefore(timestamp, u.createdAt, "timestamp"); err != nil {
		return err
	}
	if err := guard.DateNotFuture(birthDate, timestamp, "birthDate"); err != nil {
		return err
	}
	u.birthDate = birthDate
	u.updatedAt = timestamp
	return nil
}

func (u *User) ID() domain.UserID                 { return u.id }
func (u *User) FirstName() string                 { return u.firstName }
func (u *User) LastName() string                  { return u.lastName }
func (u *User) PhoneNumber() *values.PhoneNumber  { return u.phoneNumber }
func (u *User) BirthDate() time.Time              { return u.birthDate }
func (u *User) Gender() rune                      { return u.gender }
func (u *User) PasswordHash() values.PasswordHash { return u.passwordHash }
func (u *User) IsActive() bool                    { return u.isActive }
func (u *User) IsDeleted() bool                   { return u.isDeleted }
func (u *User) CreatedAt() time.Time              { return u.createdAt }
func (u *User) UpdatedAt() time.Time              { return u.updatedAt }
func (u *User) EmailAddress() values.Email        { return u.email }

// UserSnapshot is the persistence view of a User. Stores read and write
// snapshots so aggregates are never shared across use cases.
type UserSnapshot struct {
	ID           domain.UserID
	FirstName    string
	LastName     string
	PhoneNumber  *values.PhoneNumber
	BirthDate    time.Time
	Gender       rune
	PasswordHash values.PasswordHash
	IsActive     bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Email        values.Email
}

// Snapshot copies the user's state for persistence.
func (u *User) Snapshot() UserSnapshot {
	var phone *values.PhoneNumber
	if u.phoneNumber != nil {
		p := *u.phoneNumber
		phone = &p
	}
	return UserSnapshot{
		ID:           u.id,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		PhoneNumber:  phone,
		BirthDate:    u.birthDate,
		Gender:       u.gender,
		PasswordHash: u.passwordHash,
		IsActive:     u.isActive,
		IsDeleted:    u.isDeleted,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
		Email:        u.email,
	}
}

// RestoreUser rehydrates a user from a trusted snapshot. Storage round-trips
// are not revalidated; factories remain the only construction path for new
// state.
func RestoreUser(s UserSnapshot) *User {
	var phone *values.PhoneNumber
	if s.PhoneNumber != nil {
		p := *s.PhoneNumber
		phone = &p
	}
	return &User{
		id:           s.ID,
		firstName:    s.FirstName,
		lastName:     s.LastName,
		phoneNumber:  phone,
		birthDate:    s.BirthDate,
		gender:       s.Gender,
		passwordHash: s.PasswordHash,
		isActive:     s.IsActive,
		isDeleted:    s.IsDeleted,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		email:        s.Email,
	}
}
