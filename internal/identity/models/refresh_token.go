package models

import (
	"time"

	dErrors "terranova/pkg/domain-errors"

	"terranova/pkg/domain"
	"terranova/pkg/guard"
)

// RefreshToken is a session credential.
//
// State machine: Active (initial) -> Revoked (terminal), via Revoke or
// RevokeByRotation. Revocation is monotonic; revoking a revoked token is an
// invariant violation, not a no-op. Rotation records the successor token so
// a compromised chain can be walked forward: reuse of a revoked token that
// has a successor signals theft.
//
// Only the token hash is ever stored; the raw token never reaches the domain.
type RefreshToken struct {
	id                domain.RefreshTokenID
	userID            domain.UserID
	tokenHash         string
	jwtID             string
	expiresAt         time.Time
	isRevoked         bool
	revokedAt         *time.Time
	replacedByTokenID *domain.RefreshTokenID
	createdAt         time.Time
	userAgent         string
	ipAddress         string
}

// NewRefreshToken validates and returns an active token. jwtID, userAgent,
// and ipAddress are optional provenance; empty means absent.
func NewRefreshToken(
	id domain.RefreshTokenID,
	userID domain.UserID,
	tokenHash string,
	jwtID string,
	expiresAt time.Time,
	createdAt time.Time,
	userAgent string,
	ipAddress string,
) (*RefreshToken, error) {
	if err := guard.IDNotEmpty(id, "id"); err != nil {
		return nil, err
	}
	if err := guard.IDNotEmpty(userID, "userId"); err != nil {
		return nil, err
	}
	if err := guard.StringNotBlank(tokenHash, "tokenHash"); err != nil {
		return nil, err
	}
	if err := guard.UTC(createdAt, "createdAt"); err != nil {
		return nil, err
	}
	if err := guard.UTCNotBefore(expiresAt, createdAt, "expiresAt"); err != nil {
		return nil, err
	}

	return &RefreshToken{
		id:        id,
		userID:    userID,
		tokenHash: tokenHash,
		jwtID:     jwtID,
		expiresAt: expiresAt,
		createdAt: createdAt,
		userAgent: userAgent,
		ipAddress: ipAddress,
	}, nil
}

// Revoke transitions the token to its terminal state.
func (t *RefreshToken) Revoke(timestamp time.Time) error {
	if t.isRevoked {
		return dErrors.New(dErrors.CodeInvariantViolation, "the refresh token is already revoked")
	}
	if err := guard.UTCNotBefore(timestamp, t.createdAt, "timestamp"); err != nil {
		return err
	}

	t.isRevoked = true
	ts := timestamp
	t.revokedAt = &ts
	return nil
}

// RevokeByRotation revokes the token and records the successor that replaces
// it.
func (t *RefreshToken) RevokeByRotation(timestamp time.Time, newTokenID domain.RefreshTokenID) error {
	if t.isRevoked {
		return dErrors.New(dErrors.CodeInvariantViolation, "the refresh token is already revoked")
	}
	if err := guard.UTCNotBefore(timestamp, t.createdAt, "timestamp"); err != nil {
		return err
	}
	if err := guard.IDNotEmpty(newTokenID, "newTokenId"); err != nil {
		return err
	}

	t.isRevoked = true
	ts := timestamp
	t.revokedAt = &ts
	successor := newTokenID
	t.replacedByTokenID = &successor
	return nil
}

// IsExpired reports whether the token is expired at the given instant. The
// boundary is inclusive: a token is expired exactly at its expiry instant.
func (t *RefreshToken) IsExpired(timestamp time.Time) (bool, error) {
	if err := guard.UTCNotBefore(timestamp, t.createdAt, "timestamp"); err != nil {
		return false, err
	}
	return !timestamp.Before(t.expiresAt), nil
}

// IsActive reports whether the token is usable at the given instant: not
// revoked and not expired.
func (t *RefreshToken) IsActive(timestamp time.Time) (bool, error) {
	expired, err := t.IsExpired(timestamp)
	if err != nil {
		return false, err
	}
	return !t.isRevoked && !expired, nil
}

func (t *RefreshToken) ID() domain.RefreshTokenID { return t.id }
func (t *RefreshToken) UserID() domain.UserID     { return t.userID }
func (t *RefreshToken) TokenHash() string         { return t.tokenHash }
func (t *RefreshToken) JwtID() string             { return t.jwtID }
func (t *RefreshToken) ExpiresAt() time.Time      { return t.expiresAt }
func (t *RefreshToken) IsRevoked() bool           { return t.isRevoked }
func (t *RefreshToken) CreatedAt() time.Time      { return t.createdAt }
func (t *RefreshToken) UserAgent() string         { return t.userAgent }
func (t *RefreshToken) IPAddress() string         { return t.ipAddress }

// RevokedAt returns the revocation instant, or nil while active.
func (t *RefreshToken) RevokedAt() *time.Time {
	if t.revokedAt == nil {
		return nil
	}
	ts := *t.revokedAt
	return &ts
}

// ReplacedByTokenID returns the successor token's ID when the token was
// revoked by rotation, or nil otherwise.
func (t *RefreshToken) ReplacedByTokenID() *domain.RefreshTokenID {
	if t.replacedByTokenID == nil {
		return nil
	}
	id := *t.replacedByTokenID
	return &id
}

// RefreshTokenSnapshot is the persistence view of a RefreshToken.
type RefreshTokenSnapshot struct {
	ID                domain.RefreshTokenID
	UserID            domain.UserID
	TokenHash         string
	JwtID             string
	ExpiresAt         time.Time
	IsRevoked         bool
	RevokedAt         *time.Time
	ReplacedByTokenID *domain.RefreshTokenID
	CreatedAt         time.Time
	UserAgent         string
	IPAddress         string
}

// Snapshot copies the token's state for persistence.
func (t *RefreshToken) Snapshot() RefreshTokenSnapshot {
	return RefreshTokenSnapshot{
		ID:                t.id,
		UserID:            t.userID,
		TokenHash:         t.tokenHash,
		JwtID:             t.jwtID,
		ExpiresAt:         t.expiresAt,
		IsRevoked:         t.isRevoked,
		RevokedAt:         t.RevokedAt(),
		ReplacedByTokenID: t.ReplacedByTokenID(),
		CreatedAt:         t.createdAt,
		UserAgent:         t.userAgent,
		IPAddress:         t.ipAddress,
	}
}

// RestoreRefreshToken rehydrates a token from a trusted snapshot.
func RestoreRefreshToken(s RefreshTokenSnapshot) *RefreshToken {
	t := &RefreshToken{
		id:        s.ID,
		userID:    s.UserID,
		tokenHash: s.TokenHash,
		jwtID:     s.JwtID,
		expiresAt: s.ExpiresAt,
		isRevoked: s.IsRevoked,
		createdAt: s.CreatedAt,
		userAgent: s.UserAgent,
		ipAddress: s.IPAddress,
	}
	if s.RevokedAt != nil {
		ts := *s.RevokedAt
		t.revokedAt = &ts
	}
	if s.ReplacedByTokenID != nil {
		id := *s.ReplacedByTokenID
		t.replacedByTokenID = &id
	}
	return t
}
