package middleware

import (
	"net/http"

	"github.com/go-banking-api/internal/domain"
	jwtinfra "github.com/go-banking-api/internal/infrastructure/jwt"
)

// RequireRole allows access only to sessions whose role name matches one of
// the provided role names (e.g. domain.RoleAdmin).
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range allowedRoles {
				if claims.RoleName == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}

// IsAdmin reports whether the session belongs to an administrator.
func IsAdmin(claims *jwtinfra.Claims) bool {
	return claims != nil && claims.RoleName == domain.RoleAdmin
}

// IsOwnerOrAdmin reports whether the session may act on the given user's
// resources.
func IsOwnerOrAdmin(claims *jwtinfra.Claims, targetUserID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == targetUserID || claims.RoleName == domain.RoleAdmin
}
