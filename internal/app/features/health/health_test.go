package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type failingCounter struct{}

func (failingCounter) CountPublished(ctx context.Context) (int64, error) {
	return 0, errors.New("count failed")
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandler_Check(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	store := contentstore.New(db, logger)
	h := NewHandler(db.Client(), store, logger)

	t.Run("nothing published", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusOK)
		}
		resp := decodeResponse(t, rec)
		if resp.Status != "ok" {
			t.Errorf("status = %q, want ok", resp.Status)
		}
		if resp.Services["mongodb"] != "ok" {
			t.Errorf("mongodb = %q, want ok", resp.Services["mongodb"])
		}
		if resp.Services["content"] != "unpublished" {
			t.Errorf("content = %q, want unpublished", resp.Services["content"])
		}
	})

	t.Run("published", func(t *testing.T) {
		ctx, cancel := testutil.TestContext()
		defer cancel()
		if _, err := store.BootstrapDefault(ctx); err != nil {
			t.Fatalf("BootstrapDefault() error = %v", err)
		}

		rec := httptest.NewRecorder()
		h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if resp := decodeResponse(t, rec); resp.Services["content"] != "published" {
			t.Errorf("content = %q, want published", resp.Services["content"])
		}
	})
}

func TestHandler_Check_ContentFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), failingCounter{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	resp := decodeResponse(t, rec)
	if resp.Status != "degraded" || resp.Services["content"] != "unavailable" {
		t.Errorf("resp = %+v, want degraded with content unavailable", resp)
	}
}

func TestHandler_Check_NoContentReporter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := decodeResponse(t, rec)
	if _, ok := resp.Services["content"]; ok {
		t.Error("content should not be reported without a counter")
	}
}

func TestHandler_Ready(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resp := decodeResponse(t, rec); resp.Status != "ready" {
		t.Errorf("Ready() status = %q, want ready", resp.Status)
	}
}

func TestHandler_Live(t *testing.T) {
	// Live doesn't need DB
	h := NewHandler(nil, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resp := decodeResponse(t, rec); resp.Status != "alive" {
		t.Errorf("Live() status = %q, want alive", resp.Status)
	}
}

func TestMountRootEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), nil, zap.NewNop())
	r := chi.NewRouter()
	MountRootEndpoints(r, h)
	r.Mount("/health", Routes(h))

	for _, path := range []string{"/ready", "/readyz", "/livez", "/health", "/health/live"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
			}
		})
	}
}
