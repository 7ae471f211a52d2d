package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const GrantKey contextKey = "grant"

// TokenFromRequest reads a bearer token from the Authorization header, or
// from the "token" query parameter for WebSocket upgrades where browsers
// cannot set headers.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// RequirePlan only lets requests through whose token grants at least role
// on the plan named by the {planId} route variable.
func (s *Service) RequirePlan(role Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing share token"})
				return
			}

			grant, err := s.Validate(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}
			if grant.PlanID != mux.Vars(r)["planId"] || !grant.Role.Allows(role) {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
				return
			}

			ctx := context.WithValue(r.Context(), GrantKey, grant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GrantFromContext(ctx context.Context) (Grant, bool) {
	g, ok := ctx.Value(GrantKey).(Grant)
	return g, ok
}
