// internal/app/system/authutil/token.go
package authutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenType is the "type" claim carried by admin bearer tokens.
const AccessTokenType = "access_token"

// DefaultTokenTTL is the validity window of a freshly issued token.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken covers malformed, badly signed and wrong-type tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for a well-formed token past its exp.
	ErrExpiredToken = errors.New("token expired")
	ErrEmptySecret  = errors.New("token signing secret is empty")
)

// Claims are the JWT claims of an admin access token.
// Subject holds the admin id; ID is a random jti so every token is distinct.
type Claims struct {
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 access tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner returns a Signer. A non-positive ttl selects DefaultTokenTTL.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the token validity window.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Sign issues a token for the admin id and username, valid from now for TTL.
func (s *Signer) Sign(id, username string, now time.Time) (string, time.Time, error) {
	now = now.UTC().Truncate(time.Second)
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Username: username,
		Type:     AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAt verifies signature, algorithm, expiry (relative to now) and type.
func (s *Signer) ParseAt(token string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Type != AccessTokenType || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
