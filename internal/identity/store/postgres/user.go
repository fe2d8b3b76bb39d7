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

const userColumns = `id, first_name, last_name, email, phone_number, birth_date,
	gender, password_hash, is_active, is_deleted, created_at, updated_at`

type UserStore struct {
	pool *pgxpool.Pool
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Register(ctx context.Context, user *models.User) error {
	snapshot := user.Snapshot()
	var phone *string
	if snapshot.PhoneNumber != nil {
		v := snapshot.PhoneNumber.String()
		phone = &v
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		snapshot.ID.String(), snapshot.FirstName, snapshot.LastName,
		snapshot.Email.String(), phone, snapshot.BirthDate,
		int32(snapshot.Gender), snapshot.PasswordHash.Value(),
		snapshot.IsActive, snapshot.IsDeleted,
		snapshot.CreatedAt, snapshot.UpdatedAt,
	)
	return translate("register user", err)
}

func (s *UserStore) FindByID(ctx context.Context, id domain.UserID) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND NOT is_deleted
	`, id.String())
	return scanUser(row)
}

func (s *UserStore) FindByEmail(ctx context.Context, email values.Email) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND NOT is_deleted
	`, email.String())
	return scanUser(row)
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email values.Email) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE email = $1 AND NOT is_deleted
		)
	`, email.String()).Scan(&exists)
	if err != nil {
		return false, translate("user exists by email", err)
	}
	return exists, nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	snapshot := user.Snapshot()
	var phone *string
	if snapshot.PhoneNumber != nil {
		v := snapshot.PhoneNumber.String()
		phone = &v
	}

	res, err := s.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
		    birth_date = $6, gender = $7, password_hash = $8,
		    is_active = $9, is_deleted = $10, updated_at = $11
		WHERE id = $1
	`,
		snapshot.ID.String(), snapshot.FirstName, snapshot.LastName,
		snapshot.Email.String(), phone, snapshot.BirthDate,
		int32(snapshot.Gender), snapshot.PasswordHash.Value(),
		snapshot.IsActive, snapshot.IsDeleted, snapshot.UpdatedAt,
	)
	if err != nil {
		return translate("update user", err)
	}
	if res.RowsAffected() == 0 {
		return translate("update user", pgx.ErrNoRows)
	}
	return nil
}

func (s *UserStore) SoftDelete(ctx context.Context, user *models.User) error {
	snapshot := user.Snapshot()
	res, err := s.pool.Exec(ctx, `
		UPDATE users
		SET is_deleted = $2, is_active = $3, updated_at = $4
		WHERE id = $1
	`, snapshot.ID.String(), snapshot.IsDeleted, snapshot.IsActive, snapshot.UpdatedAt)
	if err != nil {
		return translate("soft delete user", err)
	}
	if res.RowsAffected() == 0 {
		return translate("soft delete user", pgx.ErrNoRows)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		id, firstName, lastName, email, passwordHash string
		phone                                        *string
		birthDate, createdAt, updatedAt              time.Time
		gender                                       int32
		isActive, isDeleted                          bool
	)
	err := row.Scan(
		&id, &firstName, &lastName, &email, &phone, &birthDate,
		&gender, &passwordHash, &isActive, &isDeleted, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, translate("scan user", err)
	}

	userID, err := domain.ParseUserID(id)
	if err != nil {
		return nil, translate("scan user", err)
	}
	var phoneNumber *values.PhoneNumber
	if phone != nil {
		p := values.RestorePhoneNumber(*phone)
		phoneNumber = &p
	}

	return models.RestoreUser(models.UserSnapshot{
		ID:           userID,
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  phoneNumber,
		BirthDate:    birthDate.UTC(),
		Gender:       rune(gender),
		PasswordHash: values.RestorePasswordHash(passwordHash),
		IsActive:     isActive,
		IsDeleted:    isDeleted,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
		Email:        values.RestoreEmail(email),
	}), nil
}
