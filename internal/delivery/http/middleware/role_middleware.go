package middleware

import (
	"net/http"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles.
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !HasRole(role, allowedRoles...) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HasRole reports whether role is one of allowed
func HasRole(role entity.Role, allowed ...entity.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

func RequireReception(next http.Handler) http.Handler {
	return RequireRole(entity.RoleReception)(next)
}
