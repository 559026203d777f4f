// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapage/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// PublishedCounter reports how many content documents are published.
type PublishedCounter interface {
	CountPublished(ctx context.Context) (int64, error)
}

// Handler provides health check endpoints.
type Handler struct {
	mongoClient *mongo.Client
	content     PublishedCounter
	logger      *zap.Logger
}

// NewHandler creates a new health check Handler. content may be nil, in
// which case the content service is not reported.
func NewHandler(mongoClient *mongo.Client, content PublishedCounter, logger *zap.Logger) *Handler {
	return &Handler{
		mongoClient: mongoClient,
		content:     content,
		logger:      logger,
	}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds /ready, /readyz and /livez directly on the root router.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check pings MongoDB and reports whether any content is published.
// Nothing published is not a failure; the first landing-page read
// bootstraps the defaults.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:   "ok",
		Services: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		resp.Status = "degraded"
		resp.Services["mongodb"] = "unavailable"
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
	} else {
		resp.Services["mongodb"] = "ok"
	}

	if h.content != nil && resp.Services["mongodb"] == "ok" {
		n, err := h.content.CountPublished(ctx)
		switch {
		case err != nil:
			resp.Status = "degraded"
			resp.Services["content"] = "unavailable"
			h.logger.Warn("health check: content count failed", zap.Error(err))
		case n == 0:
			resp.Services["content"] = "unpublished"
		default:
			resp.Services["content"] = "published"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready checks if the service is ready to accept requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live checks if the service is alive.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
