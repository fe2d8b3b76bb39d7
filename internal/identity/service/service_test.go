package service

import (
	"context"
	"time"

	"terranova/internal/audit"
	"terranova/internal/identity/models"
	refreshtoken "terranova/internal/identity/store/refresh-token"
	"terranova/internal/identity/store/role"
	"terranova/internal/identity/store/user"
	"terranova/internal/identity/store/verification"
	"terranova/internal/platform/clock"
	"terranova/internal/platform/metrics"
	"terranova/pkg/passwords"
)

var startOfTest = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// promauto registers on the default registry, so the test binary shares one
// Metrics instance.
var testMetrics = metrics.New()

type fixture struct {
	svc        *Service
	clock      *clock.Fixed
	auditStore *audit.InMemoryStore
	users      *user.InMemoryUserStore
	tokens     *refreshtoken.InMemoryRefreshTokenStore
}

// syncSink stands in for the audit worker goroutine: events are appended
// inline so tests can assert on them immediately.
type syncSink struct {
	store *audit.InMemoryStore
}

func (s syncSink) Emit(ctx context.Context, event audit.Event) {
	_ = s.store.Append(ctx, event)
}

func newFixture() *fixture {
	users := user.New()
	tokens := refreshtoken.New()
	auditStore := audit.NewInMemoryStore()
	clk := &clock.Fixed{Instant: startOfTest}

	svc := New(
		users, tokens, verification.New(), role.New(),
		passwords.Argon2{}, clk, testMetrics, syncSink{store: auditStore},
		Options{
			RefreshTokenTTL: 9 * 24 * time.Hour,
			VerificationTTL: 15 * time.Minute,
			CodeLength:      6,
		},
	)
	return &fixture{
		svc:        svc,
		clock:      clk,
		auditStore: auditStore,
		users:      users,
		tokens:     tokens,
	}
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@terranova.io",
		Password:  "correct-horse-battery",
		BirthDate: time.Date(1990, 3, 2, 0, 0, 0, 0, time.UTC),
		Gender:    'F',
	}
}

func (f *fixture) register() (*models.User, error) {
	return f.svc.Register(context.Background(), validRegisterRequest())
}
