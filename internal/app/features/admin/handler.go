// Package admin provides the authenticated content management API.
//
// Endpoints (mounted at /api/admin):
//   - POST   /auth/login               - exchange credentials for a bearer token
//   - POST   /auth/logout              - revoke the presented token
//   - GET    /auth/me                  - current admin
//   - POST   /auth/change-password     - replace the current admin's password
//   - POST   /setup                    - create the first admin (only while none exists)
//   - GET    /content/published        - published content (public)
//   - GET    /content/all              - every version, newest first
//   - GET    /content/summary          - version counts and published info
//   - GET    /content/{id}             - one version
//   - POST   /content/draft            - new draft (?base_content_id=)
//   - PUT    /content/{id}             - partial section update
//   - POST   /content/{id}/publish     - make a version live
//   - DELETE /content/{id}             - delete an unpublished version
package admin

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratapage/internal/app/features/errors"
	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/system/adminauth"
	"github.com/dalemusser/stratapage/internal/app/system/auth"
	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapage/internal/app/system/metrics"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin API.
type Handler struct {
	auth    *adminauth.Service
	content *contentstore.Store
	metrics *metrics.ServerMetrics
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger
}

// NewHandler creates a new admin Handler. m may be nil when metrics are disabled.
func NewHandler(db *mongo.Database, svc *adminauth.Service, m *metrics.ServerMetrics, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		auth:    svc,
		content: contentstore.New(db, logger),
		metrics: m,
		errLog:  errLog,
		logger:  logger,
	}
}

// currentAdmin returns the admin placed in context by auth.BearerAuth.
// Routes using it are always behind that middleware; a missing admin is
// answered with 401 and false.
func currentAdmin(w http.ResponseWriter, r *http.Request) (*models.AdminUser, bool) {
	u, ok := auth.CurrentAdmin(r)
	if !ok {
		jsonutil.Unauthorized(w, auth.InvalidTokenMessage)
		return nil, false
	}
	return u, true
}
