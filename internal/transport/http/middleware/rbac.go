package middleware

import (
	"context"
	"net/http"

	"workpulse/internal/transport/http/api"
)

type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) string
}

// RequireRole gates a route on the role stored in the database. The token's
// role claim is ignored here: the resolver re-reads it, and anything that
// cannot be resolved counts as guest.
func RequireRole(resolver RoleResolver, roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			role := resolver.ResolveRole(r.Context(), user.UserID)
			if !allowed[role] {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
