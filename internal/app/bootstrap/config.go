// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/dalemusser/stratapage/internal/app/system/apicors"
	"github.com/dalemusser/stratapage/internal/app/system/authutil"
	"github.com/dalemusser/stratapage/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATAPAGE"

// defaultJWTSecret is only acceptable outside prod.
const defaultJWTSecret = "dev-only-jwt-secret-change-me-0123456789ABCDEF"

// ErrDefaultJWTSecret is returned when prod runs with the built-in secret.
var ErrDefaultJWTSecret = errors.New("jwt_secret must be set in production")

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: STRATAPAGE_MONGO_URI, STRATAPAGE_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratapage", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Admin bearer tokens
	{Name: "jwt_secret", Default: defaultJWTSecret, Desc: "Admin token signing secret (must be strong in production)"},
	{Name: "token_ttl", Default: "24h", Desc: "Admin token lifetime (e.g., 24h, 30m)"},

	// Admin sessions
	{Name: "session_purge_interval", Default: "1h", Desc: "How often expired admin sessions are purged"},
	{Name: "revoke_sessions_on_password_change", Default: false, Desc: "Revoke an admin's other sessions when the password changes"},

	// Content checks
	{Name: "published_check_interval", Default: "15m", Desc: "How often the number of published content documents is checked"},

	// Admin seeding configuration
	{Name: "seed_admin_username", Default: "", Desc: "Username of admin to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of admin to create on startup"},

	// API surface
	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated origins allowed on /api (blank means any)"},
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, STRATAPAGE_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", authutil.DefaultTokenTTL),

		SessionPurgeInterval:           appValues.Duration("session_purge_interval", tasks.DefaultSessionPurgeInterval),
		RevokeSessionsOnPasswordChange: appValues.Bool("revoke_sessions_on_password_change"),

		PublishedCheckInterval: appValues.Duration("published_check_interval", tasks.DefaultPublishedCheckInterval),

		SeedAdminUsername: appValues.String("seed_admin_username"),
		SeedAdminPassword: appValues.String("seed_admin_password"),

		CORSAllowedOrigins: apicors.ParseOrigins(appValues.String("cors_allowed_origins")),
		MetricsEnabled:     appValues.Bool("metrics_enabled"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(coreCfg.Env, appCfg, logger)
}

func validateAppConfig(env string, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.JWTSecret == "" {
		return authutil.ErrEmptySecret
	}
	if appCfg.JWTSecret == defaultJWTSecret {
		if env == "prod" {
			logger.Error("refusing to start with the default jwt_secret")
			return ErrDefaultJWTSecret
		}
		logger.Warn("using the default jwt_secret; set STRATAPAGE_JWT_SECRET before deploying")
	}
	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", appCfg.TokenTTL)
	}
	if appCfg.SessionPurgeInterval <= 0 {
		return fmt.Errorf("session_purge_interval must be positive, got %s", appCfg.SessionPurgeInterval)
	}
	if appCfg.PublishedCheckInterval <= 0 {
		return fmt.Errorf("published_check_interval must be positive, got %s", appCfg.PublishedCheckInterval)
	}
	if appCfg.SeedAdminUsername != "" {
		if err := authutil.ValidatePassword(appCfg.SeedAdminPassword); err != nil {
			return fmt.Errorf("seed_admin_password: %w", err)
		}
	}
	return nil
}
