// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/system/seeding"
	"github.com/dalemusser/stratapage/internal/app/system/tasks"
	"github.com/dalemusser/stratapage/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error aborts startup. The context is cancelled if the
// process is asked to shut down while Startup is running.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short: coreCfg.DBConnectTimeout,
		Batch: coreCfg.IndexBootTimeout,
	})

	seedCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), logger, "seed admin")
	defer cancel()
	admin := seeding.Admin{
		Username: appCfg.SeedAdminUsername,
		Password: appCfg.SeedAdminPassword,
	}
	if err := seeding.SeedAdmin(seedCtx, deps.AdminAuth, admin, logger); err != nil {
		return err
	}

	startTaskRunner(appCfg, deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	taskRunner.Register(tasks.SessionPurgeJob(deps.AdminAuth, appCfg.SessionPurgeInterval, deps.Metrics, logger))
	taskRunner.Register(tasks.PublishedContentCheckJob(
		contentstore.New(deps.MongoDatabase, logger),
		appCfg.PublishedCheckInterval,
		logger,
	))

	taskRunner.Start()
	logger.Info("background task runner started", zap.Strings("jobs", taskRunner.Jobs()))
}
