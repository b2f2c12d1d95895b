// Package middleware guards the relay's admin surface.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lotwire-systems/lotwire-relay/common/httputil"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/tokens"
)

type contextKey string

// ClaimsKey stores the validated token claims in the request context.
const ClaimsKey contextKey = "claims"

// AdminAuth validates bearer tokens against the shared secret.
type AdminAuth struct {
	secret string
}

// NewAdminAuth constructs the middleware. An empty secret disables the
// admin surface rather than leaving it open.
func NewAdminAuth(secret string) *AdminAuth {
	return &AdminAuth{secret: secret}
}

// RequireAdmin admits only requests carrying a valid token with the
// admin role.
func (m *AdminAuth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			httputil.WriteError(w, http.StatusServiceUnavailable, "admin endpoints disabled: no jwt secret configured")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := tokens.Validate(m.secret, parts[1])
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if !claims.HasRole(tokens.RoleAdmin) {
			httputil.WriteError(w, http.StatusForbidden, "admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the claims RequireAdmin stored, nil outside
// an authenticated request.
func ClaimsFromContext(ctx context.Context) *tokens.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*tokens.Claims)
	return claims
}
