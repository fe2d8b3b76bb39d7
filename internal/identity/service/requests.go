package service

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	dErrors "terranova/pkg/domain-errors"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// RegisterRequest carries everything needed to create a user.
type RegisterRequest struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	BirthDate   time.Time
	Gender      rune
	PhoneNumber string
}

// Normalize trims the free-text fields before validation.
func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

func (r RegisterRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	)
	return wrapValidation(err)
}

type UpdateProfileRequest struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    rune
}

func (r *UpdateProfileRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r UpdateProfileRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	))
}

type ChangePasswordRequest struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

func (r ChangePasswordRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	))
}

type ChangeEmailRequest struct {
	UserID string
	Email  string
}

func (r *ChangeEmailRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r ChangeEmailRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
	))
}

// SetPhoneNumberRequest sets or, with an empty PhoneNumber, clears the user's
// phone number.
type SetPhoneNumberRequest struct {
	UserID      string
	PhoneNumber string
}

func (r *SetPhoneNumberRequest) Normalize() {
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

func (r SetPhoneNumberRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	))
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.UserAgent = strings.TrimSpace(r.UserAgent)
	r.IPAddress = strings.TrimSpace(r.IPAddress)
}

func (r LoginRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	))
}

// RefreshRequest rotates a refresh token presented by a client.
type RefreshRequest struct {
	Token     string
	UserAgent string
	IPAddress string
}

func (r *RefreshRequest) Normalize() {
	r.Token = strings.TrimSpace(r.Token)
	r.UserAgent = strings.TrimSpace(r.UserAgent)
	r.IPAddress = strings.TrimSpace(r.IPAddress)
}

func (r RefreshRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	))
}

type RevokeRequest struct {
	Token string
}

func (r *RevokeRequest) Normalize() {
	r.Token = strings.TrimSpace(r.Token)
}

func (r RevokeRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	))
}

type StartVerificationRequest struct {
	UserID  string
	Purpose string
}

func (r *StartVerificationRequest) Normalize() {
	r.Purpose = strings.TrimSpace(r.Purpose)
}

func (r StartVerificationRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Purpose, validation.Required),
	))
}

type ConfirmVerificationRequest struct {
	UserID  string
	Purpose string
	Code    string
}

func (r *ConfirmVerificationRequest) Normalize() {
	r.Purpose = strings.TrimSpace(r.Purpose)
	r.Code = strings.TrimSpace(r.Code)
}

func (r ConfirmVerificationRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Purpose, validation.Required),
		validation.Field(&r.Code, validation.Required),
	))
}

type CreateRoleRequest struct {
	Name        string
	Description string
}

func (r *CreateRoleRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

func (r CreateRoleRequest) Validate() error {
	return wrapValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	))
}

// wrapValidation converts ozzo validation output into a coded domain error so
// callers can branch on CodeBadRequest without knowing the validator.
func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request")
}
