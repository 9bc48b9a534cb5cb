package httpx

import (
	"net/http"
)

// RequireAMR only lets through sessions established with the given
// authentication method, e.g. jwtx.AMRMFA.
func RequireAMR(method string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := ClaimsFromContext(r.Context())
			if !ok || !c.HasAMR(method) {
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "insufficient_authentication",
					"error_description": "this action requires a session established with " + method,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
