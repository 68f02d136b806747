package util

import (
	"net/http"

	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins is the browser allow-list used when none is configured.
var DefaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:1234",
	"http://movies.com",
}

// WithCORS admits same-origin/non-browser requests (no Origin header) and
// browser requests from origins. Other origins receive no CORS headers.
func WithCORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         600,
	})
}
