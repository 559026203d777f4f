// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	adminfeature "github.com/dalemusser/stratapage/internal/app/features/admin"
	contentfeature "github.com/dalemusser/stratapage/internal/app/features/content"
	errorsfeature "github.com/dalemusser/stratapage/internal/app/features/errors"
	healthfeature "github.com/dalemusser/stratapage/internal/app/features/health"
	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/system/apicors"
	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestTimeout bounds every request.
const requestTimeout = 30 * time.Second

// rootMessage is the body of GET /api/.
const rootMessage = "Stratapage CMS API"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return newRouter(appCfg, deps, logger, middleware.SecurityHeadersFromConfig(coreCfg)), nil
}

// newRouter assembles the middleware stack and mounts every feature.
// Extra global middleware (security headers) is passed in by the caller.
func newRouter(appCfg AppConfig, deps DBDeps, logger *zap.Logger, extra ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	if appCfg.MetricsEnabled && deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	for _, mw := range extra {
		r.Use(mw)
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	// ─────────────────────────────────────────────────────────────────────────────
	// JSON API
	// ─────────────────────────────────────────────────────────────────────────────

	contentHandler := contentfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	adminHandler := adminfeature.NewHandler(deps.MongoDatabase, deps.AdminAuth, deps.Metrics, errLog, logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(apicors.MiddlewareWithOrigins(appCfg.CORSAllowedOrigins...))

		api.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			jsonutil.OK(w, map[string]string{"message": rootMessage})
		})
		api.Mount("/content", contentfeature.Routes(contentHandler, deps.AdminAuth, logger))
		api.Mount("/admin", adminfeature.Routes(adminHandler, logger))
	})

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, contentstore.New(deps.MongoDatabase, logger), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	if appCfg.MetricsEnabled && deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r
}
