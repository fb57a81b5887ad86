package middleware

import (
	"net/http"

	"github.com/ardidrizi/inventory-saas/api/responses"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
)

// Allow reports whether a role satisfies the required set. An empty
// required set admits any authenticated role.
func Allow(role enums.UserRole, required ...enums.UserRole) bool {
	if !role.IsValid() {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, candidate := range required {
		if role == candidate {
			return true
		}
	}
	return false
}

// RequireRoles rejects requests whose authenticated role is outside the
// required set.
func RequireRoles(logg *logger.Logger, required ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Allow(RoleFromContext(r.Context()), required...) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
