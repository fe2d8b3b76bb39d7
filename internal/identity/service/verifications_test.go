package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"terranova/internal/identity/models"
	dErrors "terranova/pkg/domain-errors"
)

type VerificationsSuite struct {
	suite.Suite
	f    *fixture
	user *models.User
}

func TestVerificationsSuite(t *testing.T) {
	suite.Run(t, new(VerificationsSuite))
}

func (s *VerificationsSuite) SetupTest() {
	s.f = newFixture()
	user, err := s.f.register()
	s.Require().NoError(err)
	s.user = user
}

func (s *VerificationsSuite) start(purpose string) *models.UserVerification {
	verification, err := s.f.svc.StartVerification(context.Background(), StartVerificationRequest{
		UserID:  s.user.ID().String(),
		Purpose: purpose,
	})
	s.Require().NoError(err)
	return verification
}

func (s *VerificationsSuite) TestStartVerification() {
	verification := s.start(PurposeEmailVerify)

	s.Len(verification.Code().Value(), 6)
	s.Equal(startOfTest.Add(15*time.Minute), verification.ExpiresAt())
	s.False(verification.IsConsumed())
}

func (s *VerificationsSuite) TestReissueSupersedesPending() {
	first := s.start(PurposeEmailVerify)
	s.f.clock.Advance(time.Minute)
	second := s.start(PurposeEmailVerify)

	s.NotEqual(first.ID(), second.ID())

	// The first code is gone; only the reissued one can confirm.
	err := s.f.svc.ConfirmVerification(context.Background(), ConfirmVerificationRequest{
		UserID:  s.user.ID().String(),
		Purpose: PurposeEmailVerify,
		Code:    first.Code().Value(),
	})
	if first.Code().Value() != second.Code().Value() {
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
}

func (s *VerificationsSuite) TestConfirmVerification() {
	s.Run("wrong code is rejected and stays pending", func() {
		verification := s.start(PurposeEmailVerify)
		wrong := "000000"
		if verification.Code().Matches(wrong) {
			wrong = "000001"
		}

		err := s.f.svc.ConfirmVerification(context.Background(), ConfirmVerificationRequest{
			UserID:  s.user.ID().String(),
			Purpose: PurposeEmailVerify,
			Code:    wrong,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("matching code consumes the verification", func() {
		verification := s.start("phone_verify")
		s.f.clock.Advance(time.Minute)

		err := s.f.svc.ConfirmVerification(context.Background(), ConfirmVerificationRequest{
			UserID:  s.user.ID().String(),
			Purpose: "phone_verify",
			Code:    verification.Code().Value(),
		})
		s.Require().NoError(err)

		// Consumed means no longer pending.
		err = s.f.svc.ConfirmVerification(context.Background(), ConfirmVerificationRequest{
			UserID:  s.user.ID().String(),
			Purpose: "phone_verify",
			Code:    verification.Code().Value(),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("expired code cannot be consumed", func() {
		verification := s.start(PurposeEmailVerify)
		s.f.clock.Advance(16 * time.Minute)

		err := s.f.svc.ConfirmVerification(context.Background(), ConfirmVerificationRequest{
			UserID:  s.user.ID().String(),
			Purpose: PurposeEmailVerify,
			Code:    verification.Code().Value(),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *VerificationsSuite) TestEmailVerifyActivatesUser() {
	s.f.clock.Advance(time.Minute)
	s.Require().NoError(s.f.svc.Deactivate(context.Background(), s.user.ID().String()))

	verification := s.start(PurposeEmailVerify)
	s.f.clock.Advance(time.Minute)

	err := s.f.svc.ConfirmVerification(context.Background(), ConfirmVerificationRequest{
		UserID:  s.user.ID().String(),
		Purpose: PurposeEmailVerify,
		Code:    verification.Code().Value(),
	})
	s.Require().NoError(err)

	user, err := s.f.svc.GetUserByID(context.Background(), s.user.ID().String())
	s.Require().NoError(err)
	s.True(user.IsActive())
}
