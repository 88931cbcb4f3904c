package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RoleRepository reads seeded role reference data.
type RoleRepository interface {
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	GetByID(ctx context.Context, id string) (*domain.Role, error)
}

type roleRepository struct {
	db DB
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(db DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	const query = `SELECT id, name FROM roles WHERE name=$1`

	var role domain.Role
	if err := r.db.QueryRow(ctx, query, string(name)).Scan(&role.ID, &role.Name); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	const query = `SELECT id, name FROM roles WHERE id=$1`

	var role domain.Role
	if err := r.db.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name); err != nil {
		return nil, err
	}
	return &role, nil
}
