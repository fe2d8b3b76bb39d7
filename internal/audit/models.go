// Package audit records the security-relevant actions of the identity core.
// Events flow through an in-process channel to a background worker, which
// persists them through the Store interface.
package audit

import (
	"time"

	"terranova/pkg/domain"
)

// Event is emitted from application logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    domain.UserID
	Action    Action
	Subject   string
	Reason    string
	IPAddress string
	UserAgent string
}

// Action names what happened. Values are stable identifiers for downstream
// consumers.
type Action string

const (
	ActionUserRegistered  Action = "user.registered"
	ActionUserUpdated     Action = "user.updated"
	ActionUserDeactivated Action = "user.deactivated"
	ActionUserDeleted     Action = "user.deleted"

	ActionPasswordChanged Action = "credentials.password_changed"
	ActionEmailChanged    Action = "credentials.email_changed"

	ActionLogin         Action = "token.issued"
	ActionTokenRotated  Action = "token.rotated"
	ActionTokenRevoked  Action = "token.revoked"
	ActionReuseDetected Action = "token.reuse_detected"

	ActionVerificationStarted  Action = "verification.started"
	ActionVerificationConsumed Action = "verification.consumed"

	ActionRoleAssigned Action = "role.assigned"
)
