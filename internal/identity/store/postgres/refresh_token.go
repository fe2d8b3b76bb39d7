package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"terranova/internal/identity/models"
	"terranova/internal/identity/store"
	"terranova/pkg/domain"
)

const tokenColumns = `id, user_id, token_hash, jwt_id, expires_at, is_revoked,
	revoked_at, replaced_by_token_id, created_at, user_agent, ip_address`

type RefreshTokenStore struct {
	pool *pgxpool.Pool
}

var _ store.RefreshTokenStore = (*RefreshTokenStore)(nil)

func NewRefreshTokenStore(pool *pgxpool.Pool) *RefreshTokenStore {
	return &RefreshTokenStore{pool: pool}
}

func (s *RefreshTokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	snapshot := token.Snapshot()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (`+tokenColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		snapshot.ID.String(), snapshot.UserID.String(),
		snapshot.TokenHash, snapshot.JwtID, snapshot.ExpiresAt,
		snapshot.IsRevoked, snapshot.RevokedAt, tokenIDString(snapshot.ReplacedByTokenID),
		snapshot.CreatedAt, snapshot.UserAgent, snapshot.IPAddress,
	)
	return translate("create refresh token", err)
}

func (s *RefreshTokenStore) FindByID(ctx context.Context, id domain.RefreshTokenID) (*models.RefreshToken, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+tokenColumns+`
		FROM refresh_tokens
		WHERE id = $1
	`, id.String())
	return scanRefreshToken(row)
}

func (s *RefreshTokenStore) FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+tokenColumns+`
		FROM refresh_tokens
		WHERE token_hash = $1
	`, tokenHash)
	return scanRefreshToken(row)
}

func (s *RefreshTokenStore) ListByUser(ctx context.Context, userID domain.UserID) ([]*models.RefreshToken, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tokenColumns+`
		FROM refresh_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID.String())
	if err != nil {
		return nil, translate("list refresh tokens", err)
	}
	defer rows.Close()

	var tokens []*models.RefreshToken
	for rows.Next() {
		token, err := scanRefreshToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list refresh tokens", err)
	}
	return tokens, nil
}

func (s *RefreshTokenStore) Update(ctx context.Context, token *models.RefreshToken) error {
	snapshot := token.Snapshot()
	res, err := s.pool.Exec(ctx, `
		UPDATE refresh_tokens
		SET is_revoked = $2, revoked_at = $3, replaced_by_token_id = $4
		WHERE id = $1
	`,
		snapshot.ID.String(), snapshot.IsRevoked, snapshot.RevokedAt,
		tokenIDString(snapshot.ReplacedByTokenID),
	)
	if err != nil {
		return translate("update refresh token", err)
	}
	if res.RowsAffected() == 0 {
		return translate("update refresh token", pgx.ErrNoRows)
	}
	return nil
}

func tokenIDString(id *domain.RefreshTokenID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

func scanRefreshToken(row pgx.Row) (*models.RefreshToken, error) {
	var (
		id, userID, tokenHash, jwtID, userAgent, ipAddress string
		replacedBy                                         *string
		expiresAt, createdAt                               time.Time
		revokedAt                                          *time.Time
		isRevoked                                          bool
	)
	err := row.Scan(
		&id, &userID, &tokenHash, &jwtID, &expiresAt, &isRevoked,
		&revokedAt, &replacedBy, &createdAt, &userAgent, &ipAddress,
	)
	if err != nil {
		return nil, translate("scan refresh token", err)
	}

	tokenID, err := domain.ParseRefreshTokenID(id)
	if err != nil {
		return nil, translate("scan refresh token", err)
	}
	ownerID, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, translate("scan refresh token", err)
	}
	var successor *domain.RefreshTokenID
	if replacedBy != nil {
		parsed, err := domain.ParseRefreshTokenID(*replacedBy)
		if err != nil {
			return nil, translate("scan refresh token", err)
		}
		successor = &parsed
	}
	if revokedAt != nil {
		ts := revokedAt.UTC()
		revokedAt = &ts
	}

	return models.RestoreRefreshToken(models.RefreshTokenSnapshot{
		ID:                tokenID,
		UserID:            ownerID,
		TokenHash:         tokenHash,
		JwtID:             jwtID,
		ExpiresAt:         expiresAt.UTC(),
		IsRevoked:         isRevoked,
		RevokedAt:         revokedAt,
		ReplacedByTokenID: successor,
		CreatedAt:         createdAt.UTC(),
		UserAgent:         userAgent,
		IPAddress:         ipAddress,
	}), nil
}
