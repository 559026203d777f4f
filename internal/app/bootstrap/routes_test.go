package bootstrap

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stratapage/internal/app/system/adminauth"
	"github.com/dalemusser/stratapage/internal/app/system/metrics"
	"github.com/dalemusser/stratapage/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, appCfg AppConfig) chi.Router {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc, err := adminauth.New(db, adminauth.Config{
		Secret:   "routes-test-secret-0123456789abcdef",
		TokenTTL: time.Hour,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("adminauth.New() error = %v", err)
	}
	deps := DBDeps{
		MongoClient:   db.Client(),
		MongoDatabase: db,
		AdminAuth:     svc,
		Metrics:       metrics.New(),
	}
	return newRouter(appCfg, deps, zap.NewNop())
}

func TestRouter_APIRoot(t *testing.T) {
	r := newTestRouter(t, AppConfig{})

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/"))

	rec.AssertStatus(t, http.StatusOK)
	var body map[string]string
	rec.DecodeJSON(t, &body)
	if body["message"] != rootMessage {
		t.Errorf("message = %q, want %q", body["message"], rootMessage)
	}
}

func TestRouter_LandingPageBootstraps(t *testing.T) {
	r := newTestRouter(t, AppConfig{})

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/content/landing-page"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"is_published":true`)
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	r := newTestRouter(t, AppConfig{})

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/admin/content/all"))

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestRouter_NotFoundIsJSON(t *testing.T) {
	r := newTestRouter(t, AppConfig{})

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/nowhere"))

	rec.AssertStatus(t, http.StatusNotFound)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t, AppConfig{CORSAllowedOrigins: []string{"https://site.example.com"}})

	req := testutil.NewRequest(http.MethodOptions, "/api/content/landing-page")
	req.Header.Set("Origin", "https://site.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://site.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = testutil.NewRequest(http.MethodOptions, "/api/content/landing-page")
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t, AppConfig{MetricsEnabled: true})

	r.ServeHTTP(testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/livez"))

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/metrics"))
	rec.AssertStatus(t, http.StatusOK)

	body := rec.Body.String()
	if !strings.Contains(body, "http_requests_total") {
		t.Error("metrics output should contain http_requests_total")
	}
	if !strings.Contains(body, `route="/livez"`) {
		t.Error("metrics output should label the /livez request by route pattern")
	}
}

func TestRouter_MetricsDisabled(t *testing.T) {
	r := newTestRouter(t, AppConfig{MetricsEnabled: false})

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/metrics"))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, AppConfig{})

	for _, path := range []string{"/livez", "/readyz", "/health/live"} {
		rec := testutil.NewRecorder()
		r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, path))
		rec.AssertStatus(t, http.StatusOK)
	}
}
