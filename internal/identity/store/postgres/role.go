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

type RoleStore struct {
	pool *pgxpool.Pool
}

var _ store.RoleStore = (*RoleStore)(nil)

func NewRoleStore(pool *pgxpool.Pool) *RoleStore {
	return &RoleStore{pool: pool}
}

func (s *RoleStore) Create(ctx context.Context, role *models.Role) error {
	snapshot := role.Snapshot()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO roles (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`, snapshot.ID.String(), snapshot.Name, snapshot.Description, snapshot.CreatedAt)
	return translate("create role", err)
}

func (s *RoleStore) FindByID(ctx context.Context, id domain.RoleID) (*models.Role, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM roles
		WHERE id = $1
	`, id.String())
	return scanRole(row)
}

func (s *RoleStore) FindByName(ctx context.Context, name string) (*models.Role, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM roles
		WHERE name = $1
	`, name)
	return scanRole(row)
}

func (s *RoleStore) Update(ctx context.Context, role *models.Role) error {
	snapshot := role.Snapshot()
	res, err := s.pool.Exec(ctx, `
		UPDATE roles
		SET name = $2, description = $3
		WHERE id = $1
	`, snapshot.ID.String(), snapshot.Name, snapshot.Description)
	if err != nil {
		return translate("update role", err)
	}
	if res.RowsAffected() == 0 {
		return translate("update role", pgx.ErrNoRows)
	}
	return nil
}

func (s *RoleStore) Assign(ctx context.Context, userRole *models.UserRole) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, created_at)
		VALUES ($1, $2, $3)
	`, userRole.UserID().String(), userRole.RoleID().String(), userRole.CreatedAt())
	return translate("assign role", err)
}

func (s *RoleStore) ListByUser(ctx context.Context, userID domain.UserID) ([]*models.Role, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.name, r.description, r.created_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`, userID.String())
	if err != nil {
		return nil, translate("list user roles", err)
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list user roles", err)
	}
	return roles, nil
}

func scanRole(row pgx.Row) (*models.Role, error) {
	var (
		id, name, description string
		createdAt             time.Time
	)
	if err := row.Scan(&id, &name, &description, &createdAt); err != nil {
		return nil, translate("scan role", err)
	}

	roleID, err := domain.ParseRoleID(id)
	if err != nil {
		return nil, translate("scan role", err)
	}

	return models.RestoreRole(models.RoleSnapshot{
		ID:          roleID,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt.UTC(),
	}), nil
}
