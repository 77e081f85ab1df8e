package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jcastellanos/marketcart-backend/api/responses"
	pkgAuth "github.com/jcastellanos/marketcart-backend/pkg/auth"
	"github.com/jcastellanos/marketcart-backend/pkg/auth/session"
	"github.com/jcastellanos/marketcart-backend/pkg/config"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
	"github.com/jcastellanos/marketcart-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			ctx, err := authenticate(r.Context(), cfg, verifier, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the context for requests that carry a valid bearer
// token and lets everyone else through as a guest. Catalog reads are public,
// but authenticated admins still need their role visible to controllers.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := authenticate(r.Context(), cfg, verifier, logg, token)
			if err != nil {
				// A presented-but-invalid token is rejected, not demoted.
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func authenticate(ctx context.Context, cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger, token string) (context.Context, error) {
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(ctx, claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	ctx = context.WithValue(ctx, ctxUserID, claims.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
	ctx = context.WithValue(ctx, ctxAccessID, claims.ID)

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"user_id":    claims.UserID.String(),
			"actor_role": string(claims.Role),
		})
	}

	return ctx, nil
}
