package admin

import (
	"net/http"
	"testing"

	errorsfeature "github.com/dalemusser/stratapage/internal/app/features/errors"
	contentstore "github.com/dalemusser/stratapage/internal/app/store/content"
	"github.com/dalemusser/stratapage/internal/app/system/adminauth"
	"github.com/dalemusser/stratapage/internal/app/system/metrics"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"github.com/dalemusser/stratapage/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	testUsername = "admin"
	testPassword = "s3cret-pass"
)

type testEnv struct {
	db      *mongo.Database
	router  http.Handler
	handler *Handler
	svc     *adminauth.Service
	store   *contentstore.Store
	metrics *metrics.ServerMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, adminauth.Config{Secret: "admin-handler-test-secret"})
}

func newTestEnvWithConfig(t *testing.T, cfg adminauth.Config) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	svc, err := adminauth.New(db, cfg, logger)
	if err != nil {
		t.Fatalf("adminauth.New() error = %v", err)
	}
	m := metrics.New()
	h := NewHandler(db, svc, m, errorsfeature.NewErrorLogger(logger), logger)
	return &testEnv{
		db:      db,
		router:  Routes(h, logger),
		handler: h,
		svc:     svc,
		store:   contentstore.New(db, logger),
		metrics: m,
	}
}

// do serves req through the admin router.
func (e *testEnv) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// createAdmin creates the standard test admin.
func (e *testEnv) createAdmin(t *testing.T) *models.AdminUser {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := e.svc.CreateIdentity(ctx, testUsername, testPassword)
	if err != nil {
		t.Fatalf("CreateIdentity() error = %v", err)
	}
	return u
}

// login creates the test admin and returns a bearer token for it.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	e.createAdmin(t)
	rec := e.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{
		Username: testUsername,
		Password: testPassword,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp models.LoginResponse
	rec.DecodeJSON(t, &resp)
	return resp.AccessToken
}

func authed(req *http.Request, token string) *http.Request {
	return testutil.WithBearer(req, token)
}
