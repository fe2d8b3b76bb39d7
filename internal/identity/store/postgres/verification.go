package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"terranova/internal/identity/models"
	"terranova/internal/identity/store"
	"terranova/internal/identity/values"
	"terranova/pkg/domain"
)

const verificationColumns = `id, user_id, purpose, code, expires_at, consumed_at, created_at`

type VerificationStore struct {
	pool *pgxpool.Pool
}

var _ store.VerificationStore = (*VerificationStore)(nil)

func NewVerificationStore(pool *pgxpool.Pool) *VerificationStore {
	return &VerificationStore{pool: pool}
}

func (s *VerificationStore) Create(ctx context.Context, verification *models.UserVerification) error {
	snapshot := verification.Snapshot()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_verifications (`+verificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		snapshot.ID.String(), snapshot.UserID.String(), snapshot.Purpose,
		snapshot.Code.Value(), snapshot.ExpiresAt, snapshot.ConsumedAt,
		snapshot.CreatedAt,
	)
	return translate("create verification", err)
}

func (s *VerificationStore) FindByID(ctx context.Context, id domain.VerificationID) (*models.UserVerification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+verificationColumns+`
		FROM user_verifications
		WHERE id = $1
	`, id.String())
	return scanVerification(row)
}

func (s *VerificationStore) FindPendingByUserAndPurpose(ctx context.Context, userID domain.UserID, purpose string) (*models.UserVerification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+verificationColumns+`
		FROM user_verifications
		WHERE user_id = $1 AND purpose = $2 AND consumed_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, userID.String(), purpose)
	return scanVerification(row)
}

func (s *VerificationStore) Update(ctx context.Context, verification *models.UserVerification) error {
	snapshot := verification.Snapshot()
	res, err := s.pool.Exec(ctx, `
		UPDATE user_verifications
		SET consumed_at = $2
		WHERE id = $1
	`, snapshot.ID.String(), snapshot.ConsumedAt)
	if err != nil {
		return translate("update verification", err)
	}
	if res.RowsAffected() == 0 {
		return translate("update verification", pgx.ErrNoRows)
	}
	return nil
}

func (s *VerificationStore) Delete(ctx context.Context, id domain.VerificationID) error {
	res, err := s.pool.Exec(ctx, `
		DELETE FROM user_verifications WHERE id = $1
	`, id.String())
	if err != nil {
		return translate("delete verification", err)
	}
	if res.RowsAffected() == 0 {
		return translate("delete verification", pgx.ErrNoRows)
	}
	return nil
}

func scanVerification(row pgx.Row) (*models.UserVerification, error) {
	var (
		id, userID, purpose, code string
		expiresAt, createdAt      time.Time
		consumedAt                *time.Time
	)
	err := row.Scan(&id, &userID, &purpose, &code, &expiresAt, &consumedAt, &createdAt)
	if err != nil {
		return nil, translate("scan verification", err)
	}

	verificationID, err := domain.ParseVerificationID(id)
	if err != nil {
		return nil, translate("scan verification", err)
	}
	ownerID, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, translate("scan verification", err)
	}
	if consumedAt != nil {
		ts := consumedAt.UTC()
		consumedAt = &ts
	}

	return models.RestoreUserVerification(models.UserVerificationSnapshot{
		ID:         verificationID,
		UserID:     ownerID,
		Purpose:    purpose,
		Code:       values.RestoreCode(code),
		ExpiresAt:  expiresAt.UTC(),
		ConsumedAt: consumedAt,
		CreatedAt:  createdAt.UTC(),
	}), nil
}
