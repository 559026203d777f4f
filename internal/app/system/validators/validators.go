// internal/app/system/validators/validators.go
package validators

// Identifiers: every document carries a string `id` (UUID) that the API
// uses; the MongoDB `_id` never leaves the store.

import (
	"context"
	"errors"
	"strings"

	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/store/sessions"
	userstore "github.com/dalemusser/stratapage/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(contentstore.CollectionName, contentSchema())
	ensure(userstore.CollectionName, adminUsersSchema())
	ensure(sessions.CollectionName, adminSessionsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// sectionNames are the content sections every document stores as objects.
var sectionNames = []string{
	"hero", "about", "social", "expectations", "contact_preview",
	"footer", "contact_info", "studio_address", "social_links",
}

func nonBlank() bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
}

func contentSchema() bson.M {
	required := bson.A{"id", "version", "is_published", "created_at", "updated_at", "created_by", "updated_by"}
	props := bson.M{
		"id":           nonBlank(),
		"version":      nonBlank(),
		"is_published": bson.M{"bsonType": "bool"},
		"created_at":   bson.M{"bsonType": "date"},
		"updated_at":   bson.M{"bsonType": "date"},
		"created_by":   bson.M{"bsonType": "string"},
		"updated_by":   bson.M{"bsonType": "string"},
	}
	for _, name := range sectionNames {
		required = append(required, name)
		props[name] = bson.M{"bsonType": "object"}
	}
	props["expectations"] = bson.M{
		"bsonType": "object",
		"properties": bson.M{
			"items": bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string"}},
		},
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func adminUsersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"id", "username", "password_hash", "is_active", "created_at"},
			"properties": bson.M{
				"id":            nonBlank(),
				"username":      nonBlank(),
				"password_hash": nonBlank(),
				"is_active":     bson.M{"bsonType": "bool"},
				"created_at":    bson.M{"bsonType": "date"},
				"last_login":    bson.M{"bsonType": bson.A{"date", "null"}},
				"singleton":     bson.M{"enum": bson.A{"primary"}},
			},
		},
	}
}

func adminSessionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"id", "user_id", "token", "expires_at", "created_at"},
			"properties": bson.M{
				"id":            nonBlank(),
				"user_id":       nonBlank(),
				"token":         nonBlank(),
				"expires_at":    bson.M{"bsonType": "date"},
				"created_at":    bson.M{"bsonType": "date"},
				"last_accessed": bson.M{"bsonType": "date"},
			},
		},
	}
}
