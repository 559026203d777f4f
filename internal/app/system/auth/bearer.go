package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapage/internal/app/system/network"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"go.uber.org/zap"
)

// InvalidTokenMessage is the body of every 401 produced by BearerAuth.
const InvalidTokenMessage = "Invalid or expired token"

// MissingTokenMessage is the body of a 401 from RequireBearer.
const MissingTokenMessage = "Not authenticated"

// TokenVerifier resolves a bearer token to its admin. A nil admin means the
// token is not acceptable.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.AdminUser, error)
}

// ParseBearer extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func ParseBearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// RequireBearer only checks that a bearer token is present and stores it in
// the request context. Use it where the token is consumed without being
// verified first (logout).
func RequireBearer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := ParseBearer(r)
			if !ok {
				logger.Debug("request rejected: missing bearer token", zap.String("path", r.URL.Path))
				jsonutil.Unauthorized(w, MissingTokenMessage)
				return
			}
			next.ServeHTTP(w, withToken(r, tok))
		})
	}
}

// BearerAuth returns middleware that requires a valid admin bearer token.
//
// Any failure (missing header, bad token, revoked session, inactive admin,
// storage error) yields 401 {"error":"Invalid or expired token"} with
// WWW-Authenticate: Bearer.
func BearerAuth(v TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := ParseBearer(r)
			if !ok {
				logger.Debug("request rejected: missing bearer token", zap.String("path", r.URL.Path))
				jsonutil.Unauthorized(w, InvalidTokenMessage)
				return
			}

			u, err := v.VerifyToken(r.Context(), tok)
			if err != nil {
				logger.Warn("token verification failed",
					zap.String("path", r.URL.Path),
					zap.Error(err))
			}
			if u == nil {
				logger.Debug("request rejected: invalid token",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", network.ClientIP(r)))
				jsonutil.Unauthorized(w, InvalidTokenMessage)
				return
			}

			next.ServeHTTP(w, withAdmin(withToken(r, tok), u))
		})
	}
}
