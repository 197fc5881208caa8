package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin ensures the authenticated user carries adminRole.
// Must run after AuthMiddleware.
func RequireAdmin(adminRole string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if role != adminRole {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("role", role),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
