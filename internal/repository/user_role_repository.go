package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRoleRepository manages user-role assignments.
type UserRoleRepository interface {
	Create(ctx context.Context, assignment *domain.UserRole) error
	ListRoleNames(ctx context.Context, userID string) ([]domain.RoleName, error)
}

type userRoleRepository struct {
	db DB
}

// NewUserRoleRepository returns a Postgres-backed implementation.
func NewUserRoleRepository(db DB) UserRoleRepository {
	return &userRoleRepository{db: db}
}

func (r *userRoleRepository) Create(ctx context.Context, assignment *domain.UserRole) error {
	const query = `
        INSERT INTO user_roles (user_id, role_id)
        VALUES ($1, $2)
        RETURNING assigned_at`
	return r.db.QueryRow(ctx, query,
		assignment.UserID,
		assignment.RoleID,
	).Scan(&assignment.AssignedAt)
}

func (r *userRoleRepository) ListRoleNames(ctx context.Context, userID string) ([]domain.RoleName, error) {
	const query = `
        SELECT r.name
        FROM user_roles ur
        JOIN roles r ON r.id = ur.role_id
        WHERE ur.user_id = $1
        ORDER BY r.name`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []domain.RoleName
	for rows.Next() {
		var name domain.RoleName
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
