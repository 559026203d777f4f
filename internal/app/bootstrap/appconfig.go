// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, body limits, database
// timeouts); AppConfig carries everything specific to the landing-page CMS.
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Admin bearer tokens
	JWTSecret string        // HS256 signing secret (must be changed in production)
	TokenTTL  time.Duration // Lifetime of issued tokens (default: 24h)

	// Admin sessions
	SessionPurgeInterval           time.Duration // How often expired session rows are purged (default: 1h)
	RevokeSessionsOnPasswordChange bool          // Drop an admin's other sessions when the password changes

	// Content checks
	PublishedCheckInterval time.Duration // How often the published document count is checked (default: 15m)

	// Admin seeding configuration
	SeedAdminUsername string // Username of the first admin to create on startup (if set)
	SeedAdminPassword string // Password for the seeded admin

	// API surface
	CORSAllowedOrigins []string // Origins allowed on /api (empty means any)
	MetricsEnabled     bool     // Serve Prometheus metrics at /metrics
}
