package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/config"
	"github.com/jcastellanos/marketcart-backend/pkg/db"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
	"github.com/jcastellanos/marketcart-backend/pkg/security"
)

// nameRe accepts letters (with combining marks) and spaces.
var nameRe = regexp.MustCompile(`^[\p{L}\p{M} ]+$`)

// Service defines user management operations.
type Service interface {
	List(ctx context.Context, actor policy.Actor, input ListUsersInput) (*UserList, error)
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*UserView, error)
	Create(ctx context.Context, actor policy.Actor, input CreateUserInput) (*UserView, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateUserInput) (*UserView, error)
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type service struct {
	repo     Repository
	password config.PasswordConfig
}

// NewService builds a user service with the required dependencies.
func NewService(repo Repository, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, password: password}, nil
}

func (s *service) List(ctx context.Context, actor policy.Actor, input ListUsersInput) (*UserList, error) {
	if err := policy.User(actor, nil, policy.ActionIndex).Err(); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, actor, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*UserView, error) {
	user, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := policy.User(actor, user, policy.ActionShow).Err(); err != nil {
		return nil, err
	}
	view := toView(user)
	return &view, nil
}

func (s *service) Create(ctx context.Context, actor policy.Actor, input CreateUserInput) (*UserView, error) {
	if err := policy.User(actor, nil, policy.ActionCreate).Err(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !nameRe.MatchString(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name may only contain letters and spaces")
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	role := enums.RoleCustomer
	if input.Role != "" {
		parsed, err := enums.ParseRole(input.Role)
		if err != nil || !parsed.IsStorable() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be customer or admin")
		}
		role = parsed
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if isEmailConflict(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	view := toView(created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateUserInput) (*UserView, error) {
	user, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := policy.User(actor, user, policy.ActionUpdate).Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		if !nameRe.MatchString(name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name may only contain letters and spaces")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		updates["email"] = email
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}
	if input.Role != nil {
		// Self-service updates cannot escalate; only admins touch roles.
		if !actor.IsAdmin() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you are not allowed to change roles")
		}
		parsed, err := enums.ParseRole(*input.Role)
		if err != nil || !parsed.IsStorable() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be customer or admin")
		}
		updates["role"] = parsed
	}

	if len(updates) == 0 {
		view := toView(user)
		return &view, nil
	}

	if err := s.repo.Update(ctx, user.ID, updates); err != nil {
		if isEmailConflict(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	updated, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	view := toView(updated)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	user, err := s.find(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := policy.User(actor, user, policy.ActionDestroy).Err(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) find(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isEmailConflict(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err, "idx_users_email")
}
