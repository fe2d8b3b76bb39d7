package service

import (
	"context"
	"errors"
	"strings"

	"terranova/internal/audit"
	"terranova/internal/identity/models"
	"terranova/pkg/domain"
	dErrors "terranova/pkg/domain-errors"
	"terranova/pkg/platform/sentinel"
)

func (s *Service) CreateRole(ctx context.Context, req CreateRoleRequest) (*models.Role, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role, err := models.NewRole(domain.NewRoleID(), req.Name, req.Description, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "the role %q already exists", req.Name)
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) RenameRole(ctx context.Context, roleID, name string) (*models.Role, error) {
	role, err := s.loadRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := role.SetName(strings.TrimSpace(name)); err != nil {
		return nil, err
	}
	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "the role %q already exists", name)
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) SetRoleDescription(ctx context.Context, roleID, description string) (*models.Role, error) {
	role, err := s.loadRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	role.SetDescription(strings.TrimSpace(description))
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// AssignRole grants the role to the user. Assigning a role the user already
// holds is a conflict.
func (s *Service) AssignRole(ctx context.Context, userID, roleID string) error {
	ctx, span := s.tracer.Start(ctx, "identity.AssignRole")
	defer span.End()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	role, err := s.loadRole(ctx, roleID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	userRole, err := models.NewUserRole(user.ID(), role.ID(), now)
	if err != nil {
		return err
	}
	if err := s.roles.Assign(ctx, userRole); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeConflict, "the user already holds the role %q", role.Name())
		}
		return err
	}

	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    user.ID(),
		Action:    audit.ActionRoleAssigned,
		Subject:   role.Name(),
	})
	return nil
}

func (s *Service) ListUserRoles(ctx context.Context, userID string) ([]*models.Role, error) {
	id, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.roles.ListByUser(ctx, id)
}

func (s *Service) loadRole(ctx context.Context, roleID string) (*models.Role, error) {
	id, err := domain.ParseRoleID(roleID)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "the role does not exist")
		}
		return nil, err
	}
	return role, nil
}
