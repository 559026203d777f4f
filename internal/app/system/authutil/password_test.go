package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid short", "abc123x", nil},
		{"valid setup default", "admin123", nil},
		{"valid with spaces", "my secret password", nil},
		{"valid at max", strings.Repeat("a", MaxPasswordLength), nil},

		{"too short 5 chars", "abcde", ErrPasswordTooShort},
		{"too short empty", "", ErrPasswordTooShort},
		{"short common", "admin", ErrPasswordTooShort},

		{"too long", strings.Repeat("a", MaxPasswordLength+1), ErrPasswordTooLong},

		{"common 123456", "123456", ErrPasswordCommon},
		{"common password", "password", ErrPasswordCommon},
		{"common uppercase", "PASSWORD", ErrPasswordCommon},
		{"common mixed case", "ChangeMe", ErrPasswordCommon},
		{"common administrator", "administrator", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword_BoundaryLengths(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr error
	}{
		{"min-1", MinPasswordLength - 1, ErrPasswordTooShort},
		{"min", MinPasswordLength, nil},
		{"max", MaxPasswordLength, nil},
		{"max+1", MaxPasswordLength + 1, ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pwd := strings.Repeat("x", tt.length)
			if err := ValidatePassword(pwd); err != tt.wantErr {
				t.Errorf("ValidatePassword(len=%d) = %v, want %v", tt.length, err, tt.wantErr)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	password := "mySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == password {
		t.Errorf("HashPassword() returned %q", hash)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("HashPassword() hash does not appear to be bcrypt: %s", hash)
	}

	// Salted: same input, different hash
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() second call error = %v", err)
	}
	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes for the same password")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "mySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", password, hash, true},
		{"wrong password", "wrongPassword456", hash, false},
		{"password with suffix", password + "x", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", password, "", false},
		{"both empty", "", "", false},
		{"invalid hash format", password, "not-a-valid-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword(%q, hash) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestConstants(t *testing.T) {
	if MinPasswordLength != 6 {
		t.Errorf("MinPasswordLength = %d, want 6", MinPasswordLength)
	}
	if BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", BcryptCost)
	}
}

func TestIsPasswordError(t *testing.T) {
	for _, err := range []error{ErrPasswordTooShort, ErrPasswordTooLong, ErrPasswordCommon, ValidatePassword("abc")} {
		if !IsPasswordError(err) {
			t.Errorf("IsPasswordError(%v) = false, want true", err)
		}
	}
	if IsPasswordError(nil) {
		t.Error("IsPasswordError(nil) = true")
	}
	if IsPasswordError(ErrInvalidToken) {
		t.Error("IsPasswordError(ErrInvalidToken) = true")
	}
}
