package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mssola/useragent"

	"terranova/internal/audit"
	"terranova/internal/identity/models"
	"terranova/pkg/domain"
	dErrors "terranova/pkg/domain-errors"
	"terranova/pkg/passwords"
	"terranova/pkg/platform/sentinel"
)

// IssuedToken pairs a persisted refresh token with the raw secret handed to
// the client. The raw secret exists only in this struct; stores only ever see
// its hash.
type IssuedToken struct {
	Raw   string
	Token *models.RefreshToken
}

// SessionSummary is the user-facing view of one refresh token.
type SessionSummary struct {
	TokenID   string    `json:"token_id"`
	Device    string    `json:"device"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
}

// Login verifies the credentials and issues a fresh refresh token recording
// the client's user agent and address.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*IssuedToken, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Login")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "the account is not active")
	}

	if err := s.hasher.Verify(req.Password, user.PasswordHash().Value()); err != nil {
		if errors.Is(err, passwords.ErrMismatch) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	now := s.clock.Now()
	issued, err := s.issueToken(ctx, domain.NewRefreshTokenID(), user.ID(), now, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}

	s.metrics.TokensIssued.Inc()
	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    user.ID(),
		Action:    audit.ActionLogin,
		Subject:   issued.Token.ID().String(),
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	})
	return issued, nil
}

// Refresh rotates a refresh token: the presented token is retired and a
// successor is issued in its place. Presenting a token that was already
// rotated is treated as theft; the whole successor chain is revoked.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*IssuedToken, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Refresh")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, err := s.tokens.FindByTokenHash(ctx, hashToken(req.Token))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "the refresh token is not recognized")
		}
		return nil, err
	}

	now := s.clock.Now()

	if token.IsRevoked() {
		if token.ReplacedByTokenID() != nil {
			if err := s.flagReuse(ctx, token, now); err != nil {
				return nil, err
			}
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "the refresh token is revoked")
	}

	expired, err := token.IsExpired(now)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "the refresh token is expired")
	}

	// Retire the presented token before creating its successor. If the
	// successor write fails the client re-authenticates; the reverse order
	// could leave two live tokens with no rotation link.
	successorID := domain.NewRefreshTokenID()
	if err := token.RevokeByRotation(now, successorID); err != nil {
		return nil, err
	}
	if err := s.tokens.Update(ctx, token); err != nil {
		return nil, err
	}

	issued, err := s.issueToken(ctx, successorID, token.UserID(), now, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}

	s.metrics.TokensRotated.Inc()
	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    token.UserID(),
		Action:    audit.ActionTokenRotated,
		Subject:   token.ID().String(),
		Reason:    fmt.Sprintf("replaced by %s", issued.Token.ID()),
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	})
	return issued, nil
}

// Revoke retires the presented token. Revoking an already-revoked token is
// reported as a conflict so clients notice double submission.
func (s *Service) Revoke(ctx context.Context, req RevokeRequest) error {
	ctx, span := s.tracer.Start(ctx, "identity.Revoke")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	token, err := s.tokens.FindByTokenHash(ctx, hashToken(req.Token))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "the refresh token is not recognized")
		}
		return err
	}

	now := s.clock.Now()
	if err := token.Revoke(now); err != nil {
		return err
	}
	if err := s.tokens.Update(ctx, token); err != nil {
		return err
	}

	s.pushRevoked(ctx, token.ID())

	s.metrics.TokensRevoked.Inc()
	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    token.UserID(),
		Action:    audit.ActionTokenRevoked,
		Subject:   token.ID().String(),
	})
	return nil
}

// ListSessions summarizes every token recorded for the user, newest first,
// with a human-readable device description parsed from the stored user agent.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]SessionSummary, error) {
	id, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokens.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	summaries := make([]SessionSummary, 0, len(tokens))
	for _, token := range tokens {
		active, err := token.IsActive(now)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SessionSummary{
			TokenID:   token.ID().String(),
			Device:    describeDevice(token.UserAgent()),
			IPAddress: token.IPAddress(),
			CreatedAt: token.CreatedAt(),
			ExpiresAt: token.ExpiresAt(),
			IsActive:  active,
		})
	}
	return summaries, nil
}

// flagReuse revokes every live successor of a rotated token that was
// presented again. The attacker and the legitimate client race on the same
// chain, so both lose their sessions and must re-authenticate.
func (s *Service) flagReuse(ctx context.Context, token *models.RefreshToken, now time.Time) error {
	var revoked []domain.RefreshTokenID
	successorID := token.ReplacedByTokenID()
	for successorID != nil {
		successor, err := s.tokens.FindByID(ctx, *successorID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				break
			}
			return err
		}
		if !successor.IsRevoked() {
			if err := successor.Revoke(now); err != nil {
				return err
			}
			if err := s.tokens.Update(ctx, successor); err != nil {
				return err
			}
			revoked = append(revoked, successor.ID())
		}
		successorID = successor.ReplacedByTokenID()
	}
	s.pushRevoked(ctx, revoked...)

	s.metrics.TokenReuseDetected.Inc()
	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		UserID:    token.UserID(),
		Action:    audit.ActionReuseDetected,
		Subject:   token.ID().String(),
		Reason:    "rotated token presented again",
	})
	return nil
}

func (s *Service) revokeAllSessions(ctx context.Context, userID domain.UserID, now time.Time) error {
	tokens, err := s.tokens.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	var revoked []domain.RefreshTokenID
	for _, token := range tokens {
		if token.IsRevoked() {
			continue
		}
		if err := token.Revoke(now); err != nil {
			return err
		}
		if err := s.tokens.Update(ctx, token); err != nil {
			return err
		}
		revoked = append(revoked, token.ID())
		s.metrics.TokensRevoked.Inc()
	}
	s.pushRevoked(ctx, revoked...)
	return nil
}

// pushRevoked mirrors fresh revocations into the shared cache when one is
// configured. Failures are swallowed: the store row is authoritative and the
// cache entry only spares other instances a database round trip.
func (s *Service) pushRevoked(ctx context.Context, tokenIDs ...domain.RefreshTokenID) {
	if s.revocations == nil || len(tokenIDs) == 0 {
		return
	}
	_ = s.revocations.RevokeChain(ctx, tokenIDs, s.opts.RefreshTokenTTL)
}

func (s *Service) issueToken(ctx context.Context, id domain.RefreshTokenID, userID domain.UserID, now time.Time, userAgent, ipAddress string) (*IssuedToken, error) {
	raw, err := newRawToken()
	if err != nil {
		return nil, err
	}

	jti, err := newJTI()
	if err != nil {
		return nil, err
	}
	token, err := models.NewRefreshToken(
		id, userID,
		hashToken(raw), jti,
		now.Add(s.opts.RefreshTokenTTL), now,
		userAgent, ipAddress,
	)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return &IssuedToken{Raw: raw, Token: token}, nil
}

// newRawToken generates the client-facing refresh token secret.
func newRawToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// newJTI generates the correlation ID tying a refresh token to the access
// token minted alongside it.
func newJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jti: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashToken derives the stored lookup key from a raw token. SHA-256 hex keeps
// the stored value fixed-length and useless to anyone who reads the table.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// describeDevice condenses a raw user agent into "Browser on OS".
func describeDevice(rawUA string) string {
	if rawUA == "" {
		return "Unknown device"
	}
	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	os := ua.OSInfo().Name
	switch {
	case name != "" && os != "":
		return fmt.Sprintf("%s on %s", name, os)
	case name != "":
		return name
	case os != "":
		return os
	default:
		return "Unknown device"
	}
}
