package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserSummary is the sanitized view of an account; it never carries the
// password hash.
type UserSummary struct {
	UserID   string
	Username string
	Email    string
}

// LoginResult is the outcome of a successful authentication.
type LoginResult struct {
	UserID    string
	Username  string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	tx         repository.TxManager
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, tx repository.TxManager) *AuthService {
	return &AuthService{
		tx:         tx,
		tokenMgr:   auth.NewTokenManager(cfg),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account with the default role. The user row
// and the role assignment commit together or not at all.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*UserSummary, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		if _, err := uow.Users.GetByEmail(ctx, email); err == nil {
			return apperrors.NewDuplicateEmail(email)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		defaultRole, err := uow.Roles.GetByName(ctx, domain.RoleUser)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewConfigurationError("default role is not seeded; contact the administrator")
		} else if err != nil {
			return err
		}

		if err := uow.Users.Create(ctx, user); err != nil {
			return err
		}
		return uow.UserRoles.Create(ctx, &domain.UserRole{
			UserID: user.ID,
			RoleID: defaultRole.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return &UserSummary{UserID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// Login verifies credentials and issues a role-bearing token. Unknown
// email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var (
		user  *domain.User
		roles []domain.RoleName
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow *repository.UnitOfWork) error {
		found, err := uow.Users.GetByEmail(ctx, email)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidCredentials()
		} else if err != nil {
			return err
		}
		if err := auth.ComparePassword(found.PasswordHash, password); err != nil {
			return apperrors.NewInvalidCredentials()
		}

		names, err := uow.UserRoles.ListRoleNames(ctx, found.ID)
		if err != nil {
			return err
		}
		user = found
		roles = names
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user, roles)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
