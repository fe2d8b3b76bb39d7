package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"terranova/internal/audit"
	"terranova/internal/identity/models"
	"terranova/internal/identity/values"
	"terranova/pkg/domain"
	dErrors "terranova/pkg/domain-errors"
	"terranova/pkg/platform/sentinel"
)

// PurposeEmailVerify is the verification purpose that activates the account
// once confirmed.
const PurposeEmailVerify = "email_verify"

// StartVerification issues a fresh verification code for the user and
// purpose. Only one verification per (user, purpose) is pending at a time; a
// prior pending one is superseded by the new code.
func (s *Service) StartVerification(ctx context.Context, req StartVerificationRequest) (*models.UserVerification, error) {
	ctx, span := s.tracer.Start(ctx, "identity.StartVerification")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if pending, err := s.verifications.FindPendingByUserAndPurpose(ctx, user.ID(), req.Purpose); err == nil {
		if err := s.verifications.Delete(ctx, pending.ID()); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	rawCode, err := newNumericCode(s.opts.CodeLength)
	if err != nil {
		return nil, err
	}
	code, err := values.CodeFrom(rawCode)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	verification, err := models.NewUserVerification(
		domain.NewVerificationID(), user.ID(), req.Purpose, code,
		now.Add(s.opts.VerificationTTL), now,
	)
	if err != nil {
		return nil, err
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return nil, err
	}

	s.metrics.VerificationsStarted.Inc()
	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    user.ID(),
		Action:    audit.ActionVerificationStarted,
		Subject:   req.Purpose,
	})
	return verification, nil
}

// ConfirmVerification matches the submitted code against the pending
// verification and consumes it. Confirming an email_verify activates the
// account.
func (s *Service) ConfirmVerification(ctx context.Context, req ConfirmVerificationRequest) error {
	ctx, span := s.tracer.Start(ctx, "identity.ConfirmVerification")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	verification, err := s.verifications.FindPendingByUserAndPurpose(ctx, user.ID(), req.Purpose)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no pending verification for this purpose")
		}
		return err
	}

	if !verification.Code().Matches(req.Code) {
		return dErrors.New(dErrors.CodeUnauthorized, "the verification code does not match")
	}

	now := s.clock.Now()
	if err := verification.Consume(now); err != nil {
		return err
	}
	if err := s.verifications.Update(ctx, verification); err != nil {
		return err
	}

	if req.Purpose == PurposeEmailVerify && !user.IsActive() {
		if err := user.SetIsActive(true, now); err != nil {
			return err
		}
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
	}

	s.metrics.VerificationsConsumed.Inc()
	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    user.ID(),
		Action:    audit.ActionVerificationConsumed,
		Subject:   req.Purpose,
	})
	return nil
}

// newNumericCode generates length decimal digits with a uniform draw per
// digit.
func newNumericCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
