package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, name, password_hash FROM users WHERE lower(email) = lower($1)`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetMembership(ctx context.Context, userID uuid.UUID, tenantSlug string) (*domain.Membership, error) {
	var m domain.Membership
	query := `
		SELECT tu.tenant_id, tu.user_id, tu.role
		FROM tenant_users tu
		JOIN tenants t ON t.id = tu.tenant_id
		WHERE tu.user_id = $1 AND t.slug = $2
	`
	if err := r.db.GetContext(ctx, &m, query, userID, tenantSlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return &m, nil
}
