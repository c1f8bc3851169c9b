package middleware

import (
	"net/http"

	"github.com/dermalink/dermalink-backend/api/responses"
	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
	"github.com/dermalink/dermalink-backend/pkg/logger"
)

func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
