// internal/app/store/users/userstore.go
package userstore

// Terminology: Admin Identifiers
//   - ID / id: the public UUID string carried as the token subject
//   - Username: the name an administrator types to log in, stored as given

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stratapage/internal/app/system/normalize"
	"github.com/dalemusser/stratapage/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the MongoDB collection for administrator identities.
const CollectionName = "admin_users"

// singletonIndex must match the index created by system/indexes.
const singletonIndex = "idx_admin_singleton"

var (
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("an admin with this username already exists")
	// ErrPrimaryExists is returned when a primary (first-run) admin already exists.
	ErrPrimaryExists = errors.New("primary admin already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a new active admin with the given bcrypt hash.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (models.AdminUser, error) {
	return s.insert(ctx, username, passwordHash, "")
}

// CreatePrimary inserts the first-run admin. Only one primary can ever exist;
// a second attempt fails with ErrPrimaryExists even under concurrent calls.
func (s *Store) CreatePrimary(ctx context.Context, username, passwordHash string) (models.AdminUser, error) {
	return s.insert(ctx, username, passwordHash, models.SingletonPrimary)
}

func (s *Store) insert(ctx context.Context, username, passwordHash, singleton string) (models.AdminUser, error) {
	u := models.AdminUser{
		ID:           uuid.NewString(),
		Username:     normalize.Username(username),
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		Singleton:    singleton,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			if strings.Contains(err.Error(), singletonIndex) {
				return models.AdminUser{}, ErrPrimaryExists
			}
			return models.AdminUser{}, ErrDuplicateUsername
		}
		return models.AdminUser{}, err
	}
	return u, nil
}

// GetByUsername returns the admin with the exact username, or nil.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return s.findOne(ctx, bson.M{"username": normalize.Username(username)})
}

// GetByID returns the admin with the given id, or nil.
func (s *Store) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	if id == "" {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.AdminUser, error) {
	var u models.AdminUser
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetLastLogin stamps last_login.
func (s *Store) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

// SetPasswordHash replaces the password hash. Returns false when id is unknown.
func (s *Store) SetPasswordHash(ctx context.Context, id, passwordHash string) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"password_hash": passwordHash}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SetActive enables or disables an admin.
func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"is_active": active}})
	return err
}

// Count returns the number of admin identities.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
