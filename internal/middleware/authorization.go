package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin guards administrative endpoints: the caller is authenticated
// (AuthMiddleware ran first) but must also carry the admin role, otherwise
// the request is forbidden rather than unauthorized.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok || role != "admin" {
				logger.Warn("Non-admin access to admin endpoint",
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
