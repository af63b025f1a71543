package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKey gates pre-authentication endpoints on the x-api-key header.
// A missing header is an authentication failure; a present but wrong key
// is a forbidden request. Comparison is constant time.
func APIKey(key string) func(http.Handler) http.Handler {
	expected := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("x-api-key")
			if got == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing api key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				writeJSONError(w, http.StatusForbidden, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
