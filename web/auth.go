// ABOUTME: Bearer token middleware guarding the API when remote access is enabled.
// ABOUTME: Accepts the token as an Authorization header or a token query parameter.
package web

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireToken wraps next so API requests must present the configured
// token, either as "Authorization: Bearer <token>" or as a ?token= query
// parameter. The query form exists because EventSource and iframe
// requests cannot carry headers. The shell page, its static assets, the
// guide, and the health check pass through unprotected; everything that
// can read or mutate the workspace is guarded.
func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// Exempt paths that don't need auth
			if path == "/" || path == "/health" || path == "/guide" ||
				strings.HasPrefix(path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			got := presentedToken(r)
			if got == "" || !tokenMatches(got, token) {
				writeError(w, http.StatusUnauthorized, "missing or invalid auth token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// presentedToken extracts the client's token from the request.
func presentedToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// tokenMatches compares tokens in constant time.
func tokenMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
