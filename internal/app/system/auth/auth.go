// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratapage/internal/domain/models"
)

type ctxKey string

const (
	currentAdminKey ctxKey = "currentAdmin"
	bearerTokenKey  ctxKey = "bearerToken"
)

// CurrentAdmin returns the authenticated admin placed in the request
// context by BearerAuth.
func CurrentAdmin(r *http.Request) (*models.AdminUser, bool) {
	u, ok := r.Context().Value(currentAdminKey).(*models.AdminUser)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}

// BearerToken returns the raw bearer token accepted for this request.
func BearerToken(r *http.Request) string {
	tok, _ := r.Context().Value(bearerTokenKey).(string)
	return tok
}

func withAdmin(r *http.Request, u *models.AdminUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentAdminKey, u))
}

func withToken(r *http.Request, token string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), bearerTokenKey, token))
}

// WithTestAdmin is exported for tests that bypass the middleware.
func WithTestAdmin(r *http.Request, u *models.AdminUser) *http.Request {
	return withAdmin(r, u)
}

// WithTestToken is exported for tests that bypass the middleware.
func WithTestToken(r *http.Request, token string) *http.Request {
	return withToken(r, token)
}
