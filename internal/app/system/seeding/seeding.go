// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"

	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/system/adminauth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Admin is an optional first administrator created at startup.
// An empty Username disables admin seeding.
type Admin struct {
	Username string
	Password string
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return seedContent(ctx, db, logger)
}

// seedContent makes sure a published landing page exists.
func seedContent(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	doc, err := contentstore.New(db, logger).BootstrapDefault(ctx)
	if err != nil {
		logger.Error("failed to seed landing page content", zap.Error(err))
		return err
	}
	logger.Debug("published content present",
		zap.String("content_id", doc.ID),
		zap.String("version", doc.Version))
	return nil
}

// SeedAdmin creates the first administrator from configuration. It is a
// no-op when admin.Username is empty or any admin already exists.
func SeedAdmin(ctx context.Context, svc *adminauth.Service, admin Admin, logger *zap.Logger) error {
	if admin.Username == "" {
		return nil
	}
	u, err := svc.SetupFirstAdmin(ctx, admin.Username, admin.Password)
	if errors.Is(err, adminauth.ErrSetupComplete) {
		logger.Debug("admin seeding skipped; an admin already exists")
		return nil
	}
	if err != nil {
		logger.Error("failed to seed admin", zap.String("username", admin.Username), zap.Error(err))
		return err
	}
	logger.Info("seeded admin", zap.String("username", u.Username))
	return nil
}
