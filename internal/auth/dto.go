package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutInput struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// AccountView mirrors the user shape returned alongside tokens.
type AccountView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// TokenPair is returned by every operation that establishes a session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResult struct {
	User   AccountView `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

func toAccountView(user *models.User) AccountView {
	return AccountView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
