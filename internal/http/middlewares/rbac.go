package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	httperrors "github.com/dropDatabas3/mentorlink/internal/http/errors"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// RequireRole exige que el Principal tenga alguno de los roles.
// Debe usarse después de RequireAuth.
func RequireRole(roles ...types.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if err := authz.RequireAnyRole(p, roles...); err != nil {
				logger.From(r.Context()).Debug("role gate denied",
					logger.Component("rbac"),
					logger.UserID(p.ID),
					logger.Role(string(p.Role)),
				)
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
