// Package revocation provides a fast shared is-revoked lookup for refresh
// tokens. The relational store stays the source of truth; this cache lets
// every instance reject a revoked token without a database round trip.
package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"terranova/internal/identity/store"
	"terranova/pkg/domain"
)

var (
	isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "terranova_is_token_revoked_duration_ms",
		Help:    "Latency of token revocation checks in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const (
	// Redis key prefix for revoked refresh tokens
	revokedTokenKeyPrefix = "trl:token:"
)

// RedisTRL is a Redis-backed token revocation list shared across instances.
type RedisTRL struct {
	client *redis.Client
}

var _ store.RevocationList = (*RedisTRL)(nil)

// NewRedisTRL constructs a Redis-backed token revocation list.
func NewRedisTRL(client *redis.Client) *RedisTRL {
	return &RedisTRL{client: client}
}

// RevokeToken adds a token to the revocation list with TTL. The TTL should
// cover the token's remaining lifetime; after that the relational row alone
// is authoritative.
func (t *RedisTRL) RevokeToken(ctx context.Context, tokenID domain.RefreshTokenID, ttl time.Duration) error {
	if tokenID.IsZero() || ttl <= 0 {
		return nil
	}
	key := revokedTokenKeyPrefix + tokenID.String()
	// Store "1" as a simple marker; the key existence is what matters
	return t.client.Set(ctx, key, "1", ttl).Err()
}

// IsRevoked checks if a token is in the revocation list. Returns false if the
// key doesn't exist (not revoked, or the marker already expired).
func (t *RedisTRL) IsRevoked(ctx context.Context, tokenID domain.RefreshTokenID) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if tokenID.IsZero() {
		return false, nil
	}
	key := revokedTokenKeyPrefix + tokenID.String()
	_, err := t.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RevokeChain revokes multiple tokens at once, typically a rotation chain
// flagged after reuse detection. Uses a Redis pipeline.
func (t *RedisTRL) RevokeChain(ctx context.Context, tokenIDs []domain.RefreshTokenID, ttl time.Duration) error {
	if len(tokenIDs) == 0 || ttl <= 0 {
		return nil
	}

	pipe := t.client.Pipeline()
	for _, tokenID := range tokenIDs {
		if !tokenID.IsZero() {
			pipe.Set(ctx, revokedTokenKeyPrefix+tokenID.String(), "1", ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}
