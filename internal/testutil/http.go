package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dalemusser/stratapage/internal/app/system/auth"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"github.com/google/uuid"
)

// AdminUser returns an active admin for handler tests.
func AdminUser() *models.AdminUser {
	return &models.AdminUser{
		ID:        uuid.NewString(),
		Username:  "testadmin",
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// WithAdmin adds an admin to the request context for testing authenticated
// handlers. This bypasses the bearer middleware.
func WithAdmin(r *http.Request, u *models.AdminUser) *http.Request {
	return auth.WithTestAdmin(r, u)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(method, target string, v any) *http.Request {
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with an admin in context.
func NewAuthenticatedRequest(method, target string, u *models.AdminUser) *http.Request {
	return WithAdmin(httptest.NewRequest(method, target, nil), u)
}

// WithBearer sets the Authorization header.
func WithBearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// DecodeJSON decodes the response body into v.
func (r *ResponseRecorder) DecodeJSON(t interface{ Fatalf(string, ...any) }, v any) {
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response body %q: %v", r.Body.String(), err)
	}
}
