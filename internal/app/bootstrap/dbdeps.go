// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stratapage/internal/app/system/adminauth"
	"github.com/dalemusser/stratapage/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. The Shutdown
// hook is responsible for closing these connections gracefully.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// AdminAuth issues and verifies admin bearer tokens. It is shared by
	// the admin routes, the content preview route and the purge job.
	AdminAuth *adminauth.Service

	// Metrics is the Prometheus registry for this process.
	Metrics *metrics.ServerMetrics
}
