// Package service orchestrates the identity use cases: registration, profile
// and credential changes, refresh token lifecycle, verification flows, and
// role assignment. It owns the clock; the domain layer below only ever sees
// explicit instants.
package service

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"terranova/internal/audit"
	"terranova/internal/identity/store"
	"terranova/internal/platform/clock"
	"terranova/internal/platform/metrics"
	"terranova/pkg/passwords"
)

// Options tunes the lifecycle policies of the service.
type Options struct {
	// RefreshTokenTTL is the lifetime of an issued refresh token.
	RefreshTokenTTL time.Duration
	// VerificationTTL is the lifetime of an issued verification code.
	VerificationTTL time.Duration
	// CodeLength is the number of digits in a verification code.
	CodeLength int
}

// DefaultOptions are used for any zero-valued Options field.
var DefaultOptions = Options{
	RefreshTokenTTL: 30 * 24 * time.Hour,
	VerificationTTL: 15 * time.Minute,
	CodeLength:      6,
}

type Service struct {
	users         store.UserStore
	tokens        store.RefreshTokenStore
	verifications store.VerificationStore
	roles         store.RoleStore

	hasher      passwords.Hasher
	clock       clock.Clock
	metrics     *metrics.Metrics
	audit       audit.Sink
	tracer      trace.Tracer
	revocations store.RevocationList

	opts Options
}

func New(
	users store.UserStore,
	tokens store.RefreshTokenStore,
	verifications store.VerificationStore,
	roles store.RoleStore,
	hasher passwords.Hasher,
	clk clock.Clock,
	m *metrics.Metrics,
	sink audit.Sink,
	opts Options,
) *Service {
	if opts.RefreshTokenTTL <= 0 {
		opts.RefreshTokenTTL = DefaultOptions.RefreshTokenTTL
	}
	if opts.VerificationTTL <= 0 {
		opts.VerificationTTL = DefaultOptions.VerificationTTL
	}
	if opts.CodeLength <= 0 {
		opts.CodeLength = DefaultOptions.CodeLength
	}
	if sink == nil {
		sink = audit.NopSink{}
	}

	return &Service{
		users:         users,
		tokens:        tokens,
		verifications: verifications,
		roles:         roles,
		hasher:        hasher,
		clock:         clk,
		metrics:       m,
		audit:         sink,
		tracer:        otel.Tracer("terranova/identity"),
		opts:          opts,
	}
}

// UseRevocationList attaches a shared revocation cache. Revocations are
// pushed to it best effort; the token store stays the source of truth.
func (s *Service) UseRevocationList(list store.RevocationList) {
	s.revocations = list
}
