package service

import (
	"context"
	"errors"

	"terranova/internal/audit"
	"terranova/internal/identity/models"
	"terranova/internal/identity/values"
	"terranova/pkg/domain"
	dErrors "terranova/pkg/domain-errors"
	"terranova/pkg/passwords"
	"terranova/pkg/platform/sentinel"
)

// Register creates a new, active user. Email uniqueness is checked up front
// and again enforced by the store, so concurrent registrations cannot both
// win.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Register")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email, err := values.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}
	var phone *values.PhoneNumber
	if req.PhoneNumber != "" {
		p, err := values.NewPhoneNumber(req.PhoneNumber)
		if err != nil {
			return nil, err
		}
		phone = &p
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, dErrors.New(dErrors.CodeConflict, "the email address is already registered")
	}

	encoded, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	hash, err := values.PasswordHashFrom(encoded)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user, err := models.NewUser(
		domain.NewUserID(), req.FirstName, req.LastName,
		req.BirthDate, req.Gender, hash, now, email, phone,
	)
	if err != nil {
		return nil, err
	}

	if err := s.users.Register(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "the email address is already registered")
		}
		return nil, err
	}

	s.metrics.UsersRegistered.Inc()
	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    user.ID(),
		Action:    audit.ActionUserRegistered,
	})
	return user, nil
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, rawEmail string) (*models.User, error) {
	email, err := values.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "the user does not exist")
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) ExistsByEmail(ctx context.Context, rawEmail string) (bool, error) {
	email, err := values.NewEmail(rawEmail)
	if err != nil {
		return false, err
	}
	return s.users.ExistsByEmail(ctx, email)
}

// UpdateProfile applies the provided profile fields; blank fields keep their
// current value.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.UpdateProfile")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := user.Update(now, req.FirstName, req.LastName, req.Gender); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{Timestamp: now, UserID: user.ID(), Action: audit.ActionUserUpdated})
	return user, nil
}

// ChangePassword verifies the current password before accepting the new one.
func (s *Service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	ctx, span := s.tracer.Start(ctx, "identity.ChangePassword")
	defer span.End()

	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash().Value()); err != nil {
		if errors.Is(err, passwords.ErrMismatch) {
			return dErrors.New(dErrors.CodeUnauthorized, "the current password is incorrect")
		}
		return err
	}

	encoded, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	hash, err := values.PasswordHashFrom(encoded)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if err := user.SetPasswordHash(hash, now); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.audit.Emit(ctx, audit.Event{Timestamp: now, UserID: user.ID(), Action: audit.ActionPasswordChanged})
	return nil
}

func (s *Service) ChangeEmail(ctx context.Context, req ChangeEmailRequest) (*models.User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.ChangeEmail")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email, err := values.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := user.SetEmailAddress(email, now); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "the email address is already registered")
		}
		return nil, err
	}

	s.audit.Emit(ctx, audit.Event{Timestamp: now, UserID: user.ID(), Action: audit.ActionEmailChanged})
	return user, nil
}

func (s *Service) SetPhoneNumber(ctx context.Context, req SetPhoneNumberRequest) (*models.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var phone *values.PhoneNumber
	if req.PhoneNumber != "" {
		p, err := values.NewPhoneNumber(req.PhoneNumber)
		if err != nil {
			return nil, err
		}
		phone = &p
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := user.SetPhoneNumber(phone, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate suspends the account. The user's data and sessions survive;
// login is refused until reactivation.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "identity.Deactivate")
	defer span.End()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if err := user.SetIsActive(false, now); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.audit.Emit(ctx, audit.Event{Timestamp: now, UserID: user.ID(), Action: audit.ActionUserDeactivated})
	return nil
}

// SoftDelete tombstones the account and revokes every live session.
func (s *Service) SoftDelete(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "identity.SoftDelete")
	defer span.End()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if err := user.SetIsDeleted(true, now); err != nil {
		return err
	}
	if err := user.SetIsActive(false, now); err != nil {
		return err
	}
	if err := s.users.SoftDelete(ctx, user); err != nil {
		return err
	}

	if err := s.revokeAllSessions(ctx, user.ID(), now); err != nil {
		return err
	}

	s.audit.Emit(ctx, audit.Event{Timestamp: now, UserID: user.ID(), Action: audit.ActionUserDeleted})
	return nil
}

func (s *Service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, id)
}

func (s *Service) findUser(ctx context.Context, id domain.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "the user does not exist")
		}
		return nil, err
	}
	return user, nil
}
