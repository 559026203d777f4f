// internal/app/system/authutil/password.go
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password validation constants.
// MaxPasswordLength is bcrypt's input limit in bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	BcryptCost        = 12
)

// Password validation errors
var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrPasswordCommon   = errors.New("password is too common, choose a different one")
)

// commonPasswords is a list of very common passwords that are blocked.
var commonPasswords = map[string]bool{
	"123456":        true,
	"1234567":       true,
	"12345678":      true,
	"123456789":     true,
	"password":      true,
	"password1":     true,
	"qwerty":        true,
	"qwerty123":     true,
	"abc123":        true,
	"abcdef":        true,
	"111111":        true,
	"000000":        true,
	"123123":        true,
	"654321":        true,
	"iloveyou":      true,
	"letmein":       true,
	"welcome":       true,
	"changeme":      true,
	"administrator": true,
	"passw0rd":      true,
}

// ValidatePassword checks a new admin password.
// It is applied to setup and password changes, never to login.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
// A malformed or empty hash never matches.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsPasswordError reports whether err is one of ValidatePassword's errors.
func IsPasswordError(err error) bool {
	return errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrPasswordTooLong) ||
		errors.Is(err, ErrPasswordCommon)
}
