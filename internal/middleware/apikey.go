// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the client's API key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns a middleware that rejects requests whose X-API-Key
// header does not match key. An empty key disables the check. Paths listed
// in public are served without a key.
func APIKeyAuth(key string, public ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" || open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get(APIKeyHeader)
			if got == "" {
				http.Error(w, "no api key provided", http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "invalid api key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
