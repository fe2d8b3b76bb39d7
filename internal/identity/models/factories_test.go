package models_test

import (
	"strings"
	"time"

	"terranova/internal/identity/models"
	"terranova/internal/identity/values"
	"terranova/pkg/domain"
)

// Fixed instants keep every entity test deterministic.
var (
	t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t5 = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	t6 = time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)

	tokenExpiry = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	birthDate   = time.Date(1990, 3, 2, 0, 0, 0, 0, time.UTC)
)

func mustEmail(raw string) values.Email {
	email, err := values.NewEmail(raw)
	if err != nil {
		panic(err)
	}
	return email
}

func mustPhone(raw string) *values.PhoneNumber {
	phone, err := values.NewPhoneNumber(raw)
	if err != nil {
		panic(err)
	}
	return &phone
}

func mustHash() values.PasswordHash {
	hash, err := values.PasswordHashFrom(strings.Repeat("h", 96))
	if err != nil {
		panic(err)
	}
	return hash
}

func mustCode(raw string) values.Code {
	code, err := values.CodeFrom(raw)
	if err != nil {
		panic(err)
	}
	return code
}

func newTestUser() (*models.User, error) {
	return models.NewUser(
		domain.NewUserID(),
		"Ada", "Lovelace",
		birthDate, 'F',
		mustHash(),
		t0,
		mustEmail("ada@terranova.io"),
		mustPhone("+18298091212"),
	)
}

func newTestToken() (*models.RefreshToken, error) {
	return models.NewRefreshToken(
		domain.NewRefreshTokenID(),
		domain.NewUserID(),
		"test-token-hash-001",
		"test-jwt-id-001",
		tokenExpiry,
		t0,
		"Mozilla/5.0 (X11; Linux x86_64)",
		"127.0.0.1",
	)
}

func newTestVerification() (*models.UserVerification, error) {
	return models.NewUserVerification(
		domain.NewVerificationID(),
		domain.NewUserID(),
		"email_verify",
		mustCode("483921"),
		tokenExpiry,
		t0,
	)
}
