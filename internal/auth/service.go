package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/pkg/auth"
	"github.com/jcastellanos/marketcart-backend/pkg/auth/session"
	"github.com/jcastellanos/marketcart-backend/pkg/config"
	"github.com/jcastellanos/marketcart-backend/pkg/db"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
	"github.com/jcastellanos/marketcart-backend/pkg/security"
)

// accountStore is the slice of the users repository that authentication needs.
type accountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// sessionManager is satisfied by *session.Manager.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service defines authentication operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, input RefreshInput) (*TokenPair, error)
	Logout(ctx context.Context, input LogoutInput) error
}

type service struct {
	store    accountStore
	sessions sessionManager
	jwt      config.JWTConfig
	password config.PasswordConfig
	now      func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(store accountStore, sessions sessionManager, jwt config.JWTConfig, password config.PasswordConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("account store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		store:    store,
		sessions: sessions,
		jwt:      jwt,
		password: password,
		now:      time.Now,
	}, nil
}

// Register creates a customer account and opens a session for it.
// Self-registration never yields an admin.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         enums.RoleCustomer,
	}
	created, err := s.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.openSession(ctx, created)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	return s.openSession(ctx, user)
}

// Refresh rotates the refresh token and re-mints the access token. The
// presented access token may already be expired; its signature still has to
// check out.
func (s *service) Refresh(ctx context.Context, input RefreshInput) (*TokenPair, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwt, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	accessToken, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// Logout revokes the session behind the presented access token. Expired
// tokens are accepted so a stale client can still log out cleanly.
func (s *service) Logout(ctx context.Context, input LogoutInput) error {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwt, input.AccessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessID := session.NewAccessID()

	accessToken, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &AuthResult{
		User:   toAccountView(user),
		Tokens: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}
