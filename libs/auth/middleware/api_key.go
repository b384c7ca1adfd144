package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the header used for service-to-service calls
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware validates the X-API-Key header against the configured key.
// An empty configured key rejects every request.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := r.Header.Get(APIKeyHeader)

			if apiKey == "" || providedKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid or missing API key"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HasValidAPIKey reports whether the request carries the configured API key
func HasValidAPIKey(r *http.Request, apiKey string) bool {
	providedKey := r.Header.Get(APIKeyHeader)
	return apiKey != "" && providedKey != "" && subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) == 1
}

// APIKeyOrRoleMiddleware lets service calls with a valid API key through and
// falls back to RoleMiddleware for browser callers
func APIKeyOrRoleMiddleware(apiKey string, validator TokenValidator, requiredRole int) func(http.Handler) http.Handler {
	roleMiddleware := RoleMiddleware(validator, requiredRole)
	return func(next http.Handler) http.Handler {
		withRole := roleMiddleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if HasValidAPIKey(r, apiKey) {
				next.ServeHTTP(w, r)
				return
			}
			withRole.ServeHTTP(w, r)
		})
	}
}
