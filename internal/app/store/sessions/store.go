// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"time"

	"github.com/dalemusser/stratapage/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the MongoDB collection mirroring issued bearer tokens.
const CollectionName = "admin_sessions"

// Store manages admin session records in MongoDB.
//
// A session exists for every issued token. Deleting it revokes the token
// even though the token's signature and expiry remain valid.
type Store struct {
	c *mongo.Collection
}

// New creates a new session Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create records a session for token, owned by userID, valid until expiresAt.
func (s *Store) Create(ctx context.Context, userID, token string, expiresAt, now time.Time) (models.AdminSession, error) {
	sess := models.AdminSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		Token:        token,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
		LastAccessed: now,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return models.AdminSession{}, err
	}
	return sess, nil
}

// GetActive returns the session for token and userID that has not expired
// at now, or nil.
func (s *Store) GetActive(ctx context.Context, token, userID string, now time.Time) (*models.AdminSession, error) {
	var sess models.AdminSession
	err := s.c.FindOne(ctx, bson.M{
		"token":      token,
		"user_id":    userID,
		"expires_at": bson.M{"$gt": now},
	}).Decode(&sess)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Touch updates last_accessed for the session holding token.
func (s *Store) Touch(ctx context.Context, token string, now time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"token": token}, bson.M{"$set": bson.M{"last_accessed": now}})
	return err
}

// Delete removes the session holding token. Returns true if one existed.
func (s *Store) Delete(ctx context.Context, token string) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteByUserExcept removes all sessions for a user except the one holding
// exceptToken. An empty exceptToken removes every session of the user.
func (s *Store) DeleteByUserExcept(ctx context.Context, userID, exceptToken string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"user_id": userID,
		"token":   bson.M{"$ne": exceptToken},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteExpired removes sessions whose expires_at is before now.
// The TTL index does the same lazily; this makes purges deterministic.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
