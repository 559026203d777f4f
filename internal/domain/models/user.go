// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SingletonPrimary marks the identity created by first-run setup.
// A unique sparse index on "singleton" lets only one such record exist.
const SingletonPrimary = "primary"

// TokenTypeBearer is the token_type reported in login responses.
const TokenTypeBearer = "bearer"

// AdminUser is an administrator account.
//
// ID is the public identifier (UUID string) carried in token subjects.
// Username is stored as given and is unique.
type AdminUser struct {
	MongoID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID           string             `bson:"id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"` // bcrypt hash (never in JSON)
	IsActive     bool               `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	LastLogin    *time.Time         `bson:"last_login" json:"last_login"`
	Singleton    string             `bson:"singleton,omitempty" json:"-"`
}

// Info returns the redacted view of the identity.
func (u AdminUser) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// UserInfo is the identity as exposed to API callers.
type UserInfo struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// AdminSession mirrors an issued bearer token so it can be revoked.
type AdminSession struct {
	MongoID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID           string             `bson:"id" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Token        string             `bson:"token" json:"-"`
	ExpiresAt    time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	LastAccessed time.Time          `bson:"last_accessed" json:"last_accessed"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserInfo    UserInfo  `json:"user_info"`
}
