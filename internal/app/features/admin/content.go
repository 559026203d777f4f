package admin

import (
	"errors"
	"net/http"

	contentfeature "github.com/dalemusser/stratapage/internal/app/features/content"
	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Published handles GET /content/published.
func (h *Handler) Published(w http.ResponseWriter, r *http.Request) {
	doc, err := h.content.BootstrapDefault(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to load published content", err)
		jsonutil.InternalError(w, contentfeature.MsgRetrieveFailed)
		return
	}
	jsonutil.OK(w, doc)
}

// ListAll handles GET /content/all.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	docs, err := h.content.ListAll(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list content", err)
		jsonutil.InternalError(w, "Failed to retrieve content versions")
		return
	}
	jsonutil.OK(w, docs)
}

// Summary handles GET /content/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.content.Summary(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to build content summary", err)
		jsonutil.InternalError(w, "Failed to get content summary")
		return
	}
	jsonutil.OK(w, summary)
}

// Get handles GET /content/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.content.GetByID(r.Context(), id)
	if err != nil {
		h.errLog.LogWithFields(r, "failed to load content", err, zap.String("content_id", id))
		jsonutil.InternalError(w, contentfeature.MsgRetrieveFailed)
		return
	}
	if doc == nil {
		jsonutil.NotFound(w, contentfeature.MsgNotFound)
		return
	}
	jsonutil.OK(w, doc)
}

// CreateDraft handles POST /content/draft?base_content_id=.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	u, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	baseID := r.URL.Query().Get("base_content_id")
	draft, err := h.content.CreateDraft(r.Context(), baseID, u.Username)
	if err != nil {
		h.errLog.LogWithFields(r, "failed to create draft", err, zap.String("base_content_id", baseID))
		jsonutil.InternalError(w, "Failed to create draft")
		return
	}
	h.metrics.IncDraft()
	jsonutil.OK(w, draft)
}

// Update handles PUT /content/{id}. The body names the sections to replace;
// sections it omits are left untouched.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var upd models.ContentUpdate
	if err := jsonutil.Decode(r, &upd); err != nil {
		jsonutil.BadRequest(w, "Invalid request body")
		return
	}

	doc, err := h.content.UpdatePartial(r.Context(), id, upd, u.Username)
	if errors.Is(err, contentstore.ErrNotFound) {
		jsonutil.NotFound(w, contentfeature.MsgNotFound)
		return
	}
	if errors.Is(err, contentstore.ErrMarkup) {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		h.errLog.LogWithFields(r, "failed to update content", err, zap.String("content_id", id))
		jsonutil.InternalError(w, "Failed to update content")
		return
	}
	jsonutil.OK(w, doc)
}

// Publish handles POST /content/{id}/publish.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	u, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	published, err := h.content.Publish(r.Context(), id, u.Username)
	if err != nil {
		h.errLog.LogWithFields(r, "failed to publish content", err, zap.String("content_id", id))
		jsonutil.InternalError(w, "Failed to publish content")
		return
	}
	if !published {
		jsonutil.NotFound(w, "Content not found or already published")
		return
	}
	h.metrics.IncPublish()
	jsonutil.Success(w, "Content published successfully")
}

// Delete handles DELETE /content/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.content.Delete(r.Context(), id)
	if errors.Is(err, contentstore.ErrPublished) {
		jsonutil.Conflict(w, "Cannot delete published content")
		return
	}
	if err != nil {
		h.errLog.LogWithFields(r, "failed to delete content", err, zap.String("content_id", id))
		jsonutil.InternalError(w, "Failed to delete content")
		return
	}
	if !deleted {
		jsonutil.NotFound(w, "Content not found or cannot be deleted")
		return
	}
	h.logger.Info("content deleted", zap.String("content_id", id))
	jsonutil.Success(w, "Content deleted successfully")
}
