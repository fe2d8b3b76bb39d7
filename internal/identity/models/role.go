package models

import (
	"time"

	"terranova/pkg/domain"
	"terranova/pkg/guard"
)

// Role is a named role record. Description is free text with no invariant.
type Role struct {
	id          domain.RoleID
	name        string
	description string
	createdAt   time.Time
}

// NewRole validates and returns a role. description may be empty.
func NewRole(id domain.RoleID, name, description string, timestamp time.Time) (*Role, error) {
	if err := guard.IDNotEmpty(id, "id"); err != nil {
		return nil, err
	}
	if err := guard.StringNotBlank(name, "name"); err != nil {
		return nil, err
	}
	if err := guard.UTC(timestamp, "timestamp"); err != nil {
		return nil, err
	}

	return &Role{
		id:          id,
		name:        name,
		description: description,
		createdAt:   timestamp,
	}, nil
}

// SetName renames the role; the new name must be non-blank.
func (r *Role) SetName(name string) error {
	if err := guard.StringNotBlank(name, "name"); err != nil {
		return err
	}
	r.name = name
	return nil
}

// SetDescription replaces the description. Any value is accepted, including
// empty.
func (r *Role) SetDescription(description string) {
	r.description = description
}

func (r *Role) ID() domain.RoleID    { return r.id }
func (r *Role) Name() string         { return r.name }
func (r *Role) Description() string  { return r.description }
func (r *Role) CreatedAt() time.Time { return r.createdAt }

// RoleSnapshot is the persistence view of a Role.
type RoleSnapshot struct {
	ID          domain.RoleID
	Name        string
	Description string
	CreatedAt   time.Time
}

// Snapshot copies the role's state for persistence.
func (r *Role) Snapshot() RoleSnapshot {
	return RoleSnapshot{
		ID:          r.id,
		Name:        r.name,
		Description: r.description,
		CreatedAt:   r.createdAt,
	}
}

// RestoreRole rehydrates a role from a trusted snapshot.
func RestoreRole(s RoleSnapshot) *Role {
	return &Role{
		id:          s.ID,
		name:        s.Name,
		description: s.Description,
		createdAt:   s.CreatedAt,
	}
}

// UserRole is a pure membership association of a user and a role. It has no
// independent identity and is immutable once created.
type UserRole struct {
	userID    domain.UserID
	roleID    domain.RoleID
	createdAt time.Time
}

// NewUserRole validates and returns a membership record.
func NewUserRole(userID domain.UserID, roleID domain.RoleID, timestamp time.Time) (*UserRole, error) {
	if err := guard.IDNotEmpty(userID, "userId"); err != nil {
		return nil, err
	}
	if err := guard.IDNotEmpty(roleID, "roleId"); err != nil {
		return nil, err
	}
	if err := guard.UTC(timestamp, "timestamp"); err != nil {
		return nil, err
	}

	return &UserRole{userID: userID, roleID: roleID, createdAt: timestamp}, nil
}

func (ur *UserRole) UserID() domain.UserID { return ur.userID }
func (ur *UserRole) RoleID() domain.RoleID { return ur.roleID }
func (ur *UserRole) CreatedAt() time.Time  { return ur.createdAt }
