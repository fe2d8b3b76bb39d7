package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered       prometheus.Counter
	TokensIssued          prometheus.Counter
	TokensRotated         prometheus.Counter
	TokensRevoked         prometheus.Counter
	TokenReuseDetected    prometheus.Counter
	VerificationsStarted  prometheus.Counter
	VerificationsConsumed prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terranova_users_registered_total",
			Help: "Total number of users registered",
		}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terranova_refresh_tokens_issued_total",
			Help: "Total number of refresh tokens issued at login",
		}),
		TokensRotated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terranova_refresh_tokens_rotated_total",
			Help: "Total number of refresh tokens replaced by rotation",
		}),
		TokensRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terranova_refresh_tokens_revoked_total",
			Help: "Total number of refresh tokens explicitly revoked",
		}),
		TokenReuseDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terranova_refresh_token_reuse_detected_total",
			Help: "Total number of rotated-token reuse events flagged as theft",
		}),
		VerificationsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terranova_verifications_started_total",
			Help: "Total number of verification flows started",
		}),
		VerificationsConsumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "terranova_verifications_consumed_total",
			Help: "Total number of verification codes successfully consumed",
		}),
	}
}
