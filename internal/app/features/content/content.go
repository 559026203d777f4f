// Package content serves the public landing-page content.
//
// Endpoints (mounted at /api/content):
//   - GET /landing-page  - the published document, bootstrapped from defaults when none exists
//   - GET /preview/{id}  - any document by id (bearer token required)
package content

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratapage/internal/app/features/errors"
	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Messages shared with the admin content endpoints.
const (
	MsgNotFound       = "Content not found"
	MsgRetrieveFailed = "Failed to retrieve content"
)

// Handler provides public content handlers.
type Handler struct {
	store  *contentstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a new content Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		store:  contentstore.New(db, logger),
		errLog: errLog,
		logger: logger,
	}
}

// LandingPage returns the published content. When nothing is published the
// built-in defaults are stored as the published version and returned.
func (h *Handler) LandingPage(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.BootstrapDefault(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to load landing page content", err)
		jsonutil.InternalError(w, MsgRetrieveFailed)
		return
	}
	jsonutil.OK(w, doc)
}

// Preview returns the document with the given id, published or not.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.errLog.LogWithFields(r, "failed to load content for preview", err, zap.String("content_id", id))
		jsonutil.InternalError(w, MsgRetrieveFailed)
		return
	}
	if doc == nil {
		jsonutil.NotFound(w, MsgNotFound)
		return
	}
	jsonutil.OK(w, doc)
}
