package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dermalink/dermalink-backend/api/responses"
	"github.com/dermalink/dermalink-backend/internal/users"
	pkgAuth "github.com/dermalink/dermalink-backend/pkg/auth"
	"github.com/dermalink/dermalink-backend/pkg/config"
	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
	"github.com/dermalink/dermalink-backend/pkg/logger"
	"github.com/google/uuid"
)

// UserResolver loads the identity behind a token subject. The token carries
// only the user id, so the role has to come from the store.
type UserResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Auth validates a bearer access token and seeds the request context with
// the user's id and role.
func Auth(cfg config.JWTConfig, resolver UserResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			id, err := uuid.Parse(claims.UserID())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token subject"))
				return
			}

			user, err := resolver.Get(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve user"))
				return
			}
			if user == nil || !user.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account unavailable"))
				return
			}

			ctx := WithUserID(r.Context(), user.ID.String())
			ctx = WithRole(ctx, string(user.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": user.ID.String(),
					"role":    string(user.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
