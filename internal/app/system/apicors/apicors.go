// Package apicors provides CORS middleware for the bearer-token JSON API.
//
// The API never relies on cookies, so credentials are not allowed and any
// origin may be permitted without exposing a session.
package apicors

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// maxAgeSeconds is how long browsers may cache a preflight response.
const maxAgeSeconds = 86400

var (
	allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	allowedHeaders = []string{"Authorization", "Content-Type", "Accept"}
)

// Middleware returns CORS middleware that allows any origin.
func Middleware() func(http.Handler) http.Handler {
	return MiddlewareWithOrigins("*")
}

// MiddlewareWithOrigins returns CORS middleware restricted to the given
// origins. No origins, or a "*" entry, allows every origin.
func MiddlewareWithOrigins(allowedOrigins ...string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   []string{"WWW-Authenticate"},
		AllowCredentials: false,
		MaxAge:           maxAgeSeconds,
	})
}

// ParseOrigins splits a comma-separated origin list from configuration.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
