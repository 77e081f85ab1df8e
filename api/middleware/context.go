package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxAccessID contextKey = "access_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// ActorFromContext reconstructs the policy actor seeded by the auth
// middleware. Requests that never passed authentication come back as guests.
func ActorFromContext(ctx context.Context) policy.Actor {
	rawID := UserIDFromContext(ctx)
	rawRole := RoleFromContext(ctx)
	if rawID == "" || rawRole == "" {
		return policy.Guest()
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return policy.Guest()
	}
	role, err := enums.ParseRole(rawRole)
	if err != nil || !role.IsStorable() {
		return policy.Guest()
	}

	if role == enums.RoleAdmin {
		return policy.Admin(id)
	}
	return policy.Customer(id)
}
