package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"terranova/internal/identity/models"
	dErrors "terranova/pkg/domain-errors"
	"terranova/pkg/domain"
)

type UserSuite struct {
	suite.Suite
}

func TestUserSuite(t *testing.T) {
	suite.Run(t, new(UserSuite))
}

func (s *UserSuite) TestNewUser() {
	s.Run("valid construction starts active and not deleted", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		s.True(user.IsActive())
		s.False(user.IsDeleted())
		s.Equal("Ada", user.FirstName())
		s.Equal("Lovelace", user.LastName())
		s.Equal('F', user.Gender())
		s.Equal("ada@terranova.io", user.EmailAddress().String())
		s.Equal(t0, user.CreatedAt())
		s.Equal(t0, user.UpdatedAt())
	})

	s.Run("nil phone number is allowed", func() {
		user, err := models.NewUser(
			domain.NewUserID(), "Ada", "Lovelace", birthDate, 'F',
			mustHash(), t0, mustEmail("ada@terranova.io"), nil,
		)
		s.Require().NoError(err)
		s.Nil(user.PhoneNumber())
	})

	s.Run("blank first name fails", func() {
		_, err := models.NewUser(
			domain.NewUserID(), "  ", "Lovelace", birthDate, 'F',
			mustHash(), t0, mustEmail("ada@terranova.io"), nil,
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("uninitialized gender fails", func() {
		_, err := models.NewUser(
			domain.NewUserID(), "Ada", "Lovelace", birthDate, 0,
			mustHash(), t0, mustEmail("ada@terranova.io"), nil,
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("zero user id fails", func() {
		_, err := models.NewUser(
			domain.UserID{}, "Ada", "Lovelace", birthDate, 'F',
			mustHash(), t0, mustEmail("ada@terranova.io"), nil,
		)
		s.Require().Error(err)
	})

	s.Run("non-UTC timestamp fails", func() {
		est := time.FixedZone("EST", -5*3600)
		_, err := models.NewUser(
			domain.NewUserID(), "Ada", "Lovelace", birthDate, 'F',
			mustHash(), t0.In(est), mustEmail("ada@terranova.io"), nil,
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("zero timestamp fails", func() {
		_, err := models.NewUser(
			domain.NewUserID(), "Ada", "Lovelace", birthDate, 'F',
			mustHash(), time.Time{}, mustEmail("ada@terranova.io"), nil,
		)
		s.Require().Error(err)
	})

	s.Run("birth date after creation date fails", func() {
		_, err := models.NewUser(
			domain.NewUserID(), "Ada", "Lovelace",
			t0.AddDate(0, 0, 1), 'F',
			mustHash(), t0, mustEmail("ada@terranova.io"), nil,
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("birth date on creation date is allowed", func() {
		_, err := models.NewUser(
			domain.NewUserID(), "Ada", "Lovelace", t0, 'F',
			mustHash(), t0, mustEmail("ada@terranova.io"), nil,
		)
		s.Require().NoError(err)
	})
}

func (s *UserSuite) TestUpdate() {
	s.Run("applies provided fields and advances updatedAt", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		s.Require().NoError(user.Update(t5, "Grace", "Hopper", 'X'))
		s.Equal("Grace", user.FirstName())
		s.Equal("Hopper", user.LastName())
		s.Equal('X', user.Gender())
		s.Equal(t5, user.UpdatedAt())
	})

	s.Run("blank fields are ignored but updatedAt still advances", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		s.Require().NoError(user.Update(t5, "", "   ", 0))
		s.Equal("Ada", user.FirstName())
		s.Equal("Lovelace", user.LastName())
		s.Equal('F', user.Gender())
		s.Equal(t5, user.UpdatedAt())
	})

	s.Run("whitespace gender fails and changes nothing", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		err = user.Update(t5, "Grace", "Hopper", ' ')
		s.Require().Error(err)
		s.Equal("Ada", user.FirstName())
		s.Equal("Lovelace", user.LastName())
		s.Equal(t0, user.UpdatedAt())
	})

	s.Run("timestamp before createdAt fails", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		err = user.Update(t0.Add(-time.Hour), "Grace", "", 0)
		s.Require().Error(err)
		s.Equal(t0, user.UpdatedAt())
	})
}

func (s *UserSuite) TestSetters() {
	s.Run("SetPasswordHash replaces hash and advances updatedAt", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		s.Require().NoError(user.SetPasswordHash(mustHash(), t5))
		s.Equal(t5, user.UpdatedAt())
	})

	s.Run("SetIsActive toggles activation", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		s.Require().NoError(user.SetIsActive(false, t5))
		s.False(user.IsActive())
		s.Equal(t5, user.UpdatedAt())

		s.Require().NoError(user.SetIsActive(true, t6))
		s.True(user.IsActive())
	})

	s.Run("SetIsDeleted soft-deletes without erasing fields", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		s.Require().NoError(user.SetIsDeleted(true, t5))
		s.True(user.IsDeleted())
		s.Equal("Ada", user.FirstName())
		s.Equal("ada@terranova.io", user.EmailAddress().String())
	})

	s.Run("SetEmailAddress swaps the address", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		s.Require().NoError(user.SetEmailAddress(mustEmail("grace@terranova.io"), t5))
		s.Equal("grace@terranova.io", user.EmailAddress().String())
	})

	s.Run("SetPhoneNumber with nil clears the number", func() {
		user, err := newTestUser()
		s.Require().NoError(err)
		s.Require().NotNil(user.PhoneNumber())

		s.Require().NoError(user.SetPhoneNumber(nil, t5))
		s.Nil(user.PhoneNumber())
	})

	s.Run("setter with timestamp before createdAt fails and changes nothing", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		err = user.SetIsActive(false, t0.Add(-time.Minute))
		s.Require().Error(err)
		s.True(user.IsActive())
		s.Equal(t0, user.UpdatedAt())
	})

	s.Run("SetBirthDate rejects a future date", func() {
		user, err := newTestUser()
		s.Require().NoError(err)

		err = user.SetBirthDate(t5.AddDate(0, 0, 1), t5)
		s.Require().Error(err)
		s.Equal(birthDate, user.BirthDate())
	})
}

func (s *UserSuite) TestSnapshotRoundTrip() {
	user, err := newTestUser()
	s.Require().NoError(err)
	s.Require().NoError(user.SetIsActive(false, t5))

	restored := models.RestoreUser(user.Snapshot())

	s.Equal(user.ID(), restored.ID())
	s.Equal(user.FirstName(), restored.FirstName())
	s.Equal(user.LastName(), restored.LastName())
	s.Equal(user.Gender(), restored.Gender())
	s.Equal(user.EmailAddress(), restored.EmailAddress())
	s.Equal(user.PasswordHash(), restored.PasswordHash())
	s.Equal(user.IsActive(), restored.IsActive())
	s.Equal(user.IsDeleted(), restored.IsDeleted())
	s.Equal(user.CreatedAt(), restored.CreatedAt())
	s.Equal(user.UpdatedAt(), restored.UpdatedAt())
}
