// Package store defines the persistence contracts for the identity
// aggregates. Implementations translate their backend failures into the
// sentinel errors from pkg/platform/sentinel so callers never depend on a
// driver.
package store

import (
	"context"
	"time"

	"terranova/internal/identity/models"
	"terranova/internal/identity/values"
	"terranova/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return sentinel.ErrConflict when a uniqueness constraint is violated
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

type UserStore interface {
	Register(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id domain.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email values.Email) (*models.User, error)
	ExistsByEmail(ctx context.Context, email values.Email) (bool, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, user *models.User) error
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByID(ctx context.Context, id domain.RefreshTokenID) (*models.RefreshToken, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]*models.RefreshToken, error)
	Update(ctx context.Context, token *models.RefreshToken) error
}

type VerificationStore interface {
	Create(ctx context.Context, verification *models.UserVerification) error
	FindByID(ctx context.Context, id domain.VerificationID) (*models.UserVerification, error)
	FindPendingByUserAndPurpose(ctx context.Context, userID domain.UserID, purpose string) (*models.UserVerification, error)
	Update(ctx context.Context, verification *models.UserVerification) error
	Delete(ctx context.Context, id domain.VerificationID) error
}

type RoleStore interface {
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id domain.RoleID) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Assign(ctx context.Context, userRole *models.UserRole) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]*models.Role, error)
}

// RevocationList is an optional shared cache of revoked token IDs. Token
// verifiers in other processes consult it before the relational store; the
// TTL bounds how long an entry needs to outlive the token itself.
type RevocationList interface {
	RevokeToken(ctx context.Context, tokenID domain.RefreshTokenID, ttl time.Duration) error
	RevokeChain(ctx context.Context, tokenIDs []domain.RefreshTokenID, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID domain.RefreshTokenID) (bool, error)
}
