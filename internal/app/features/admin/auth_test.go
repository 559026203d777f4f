package admin

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stratapage/internal/app/system/adminauth"
	"github.com/dalemusser/stratapage/internal/app/system/auth"
	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"github.com/dalemusser/stratapage/internal/testutil"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin(t)

	t.Run("valid credentials", func(t *testing.T) {
		rec := env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{
			Username: testUsername,
			Password: testPassword,
		}))
		rec.AssertStatus(t, http.StatusOK)

		var resp models.LoginResponse
		rec.DecodeJSON(t, &resp)
		if resp.AccessToken == "" {
			t.Error("access_token should be set")
		}
		if resp.TokenType != "bearer" {
			t.Errorf("token_type = %q, want bearer", resp.TokenType)
		}
		if resp.UserInfo.Username != testUsername {
			t.Errorf("user_info.username = %q, want %q", resp.UserInfo.Username, testUsername)
		}
		if d := time.Until(resp.ExpiresAt); d < 23*time.Hour || d > 25*time.Hour {
			t.Errorf("expires_at = %v, want about 24h from now", resp.ExpiresAt)
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Error("login response must not contain password data")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{
			Username: testUsername,
			Password: "not-the-password",
		}))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertContains(t, "Invalid username or password")
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{
			Username: "nobody",
			Password: testPassword,
		}))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertContains(t, "Invalid username or password")
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{Username: testUsername}))
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := testutil.NewRequest(http.MethodPost, "/auth/login")
		req.Body = http.NoBody
		rec := env.do(req)
		rec.AssertStatus(t, http.StatusBadRequest)
	})
}

func TestLogin_RecordsMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{
		Username: testUsername,
		Password: "wrong-password",
	}))

	rec := testutil.NewRecorder()
	env.metrics.Handler().ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/metrics"))
	body := rec.Body.String()
	for _, want := range []string{
		`admin_logins_total{result="success"} 1`,
		`admin_logins_total{result="failure"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	t.Run("with token", func(t *testing.T) {
		rec := env.do(authed(testutil.NewRequest(http.MethodGet, "/auth/me"), token))
		rec.AssertStatus(t, http.StatusOK)

		var info models.UserInfo
		rec.DecodeJSON(t, &info)
		if info.Username != testUsername {
			t.Errorf("username = %q, want %q", info.Username, testUsername)
		}
		if info.LastLogin == nil {
			t.Error("last_login should be set after login")
		}
	})

	t.Run("without token", func(t *testing.T) {
		rec := env.do(testutil.NewRequest(http.MethodGet, "/auth/me"))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertContains(t, auth.InvalidTokenMessage)
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Errorf("WWW-Authenticate = %q, want Bearer", rec.Header().Get("WWW-Authenticate"))
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := env.do(authed(testutil.NewRequest(http.MethodGet, "/auth/me"), "not-a-token"))
		rec.AssertStatus(t, http.StatusUnauthorized)
	})
}

func TestMe_HandlerWithoutMiddleware(t *testing.T) {
	env := newTestEnv(t)

	rec := testutil.NewRecorder()
	env.handler.Me(rec, testutil.NewRequest(http.MethodGet, "/auth/me"))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = testutil.NewRecorder()
	u := testutil.AdminUser()
	env.handler.Me(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/auth/me", u))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, u.ID)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(authed(testutil.NewRequest(http.MethodPost, "/auth/logout"), token))
	rec.AssertStatus(t, http.StatusOK)
	var resp jsonutil.SuccessResponse
	rec.DecodeJSON(t, &resp)
	if !resp.Success || resp.Message != "Logged out successfully" {
		t.Errorf("logout = %+v", resp)
	}

	// the token no longer authenticates
	rec = env.do(authed(testutil.NewRequest(http.MethodGet, "/auth/me"), token))
	rec.AssertStatus(t, http.StatusUnauthorized)

	// a second logout reports success=false
	rec = env.do(authed(testutil.NewRequest(http.MethodPost, "/auth/logout"), token))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &resp)
	if resp.Success {
		t.Error("second logout should report success=false")
	}
}

func TestLogout_MissingToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(testutil.NewRequest(http.MethodPost, "/auth/logout"))
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, auth.MissingTokenMessage)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	tests := []struct {
		name       string
		body       changePasswordRequest
		wantStatus int
		wantBody   string
	}{
		{"wrong current password", changePasswordRequest{"nope-nope", "brand-new-pass"}, http.StatusBadRequest, "Current password is incorrect"},
		{"too short", changePasswordRequest{testPassword, "abc"}, http.StatusBadRequest, "at least 6"},
		{"common password", changePasswordRequest{testPassword, "password"}, http.StatusBadRequest, "too common"},
		{"success", changePasswordRequest{testPassword, "brand-new-pass"}, http.StatusOK, "Password changed successfully"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(authed(testutil.NewJSONRequest(http.MethodPost, "/auth/change-password", tt.body), token))
			rec.AssertStatus(t, tt.wantStatus)
			rec.AssertContains(t, tt.wantBody)
		})
	}

	// existing sessions survive a password change
	rec := env.do(authed(testutil.NewRequest(http.MethodGet, "/auth/me"), token))
	rec.AssertStatus(t, http.StatusOK)

	// the new password logs in, the old one does not
	rec = env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{testUsername, "brand-new-pass"}))
	rec.AssertStatus(t, http.StatusOK)
	rec = env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{testUsername, testPassword}))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	env := newTestEnvWithConfig(t, adminauth.Config{
		Secret:                         "admin-handler-test-secret",
		RevokeSessionsOnPasswordChange: true,
	})
	token := env.login(t)

	rec := env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{testUsername, testPassword}))
	rec.AssertStatus(t, http.StatusOK)
	var other models.LoginResponse
	rec.DecodeJSON(t, &other)

	rec = env.do(authed(testutil.NewJSONRequest(http.MethodPost, "/auth/change-password",
		changePasswordRequest{testPassword, "brand-new-pass"}), token))
	rec.AssertStatus(t, http.StatusOK)

	rec = env.do(authed(testutil.NewRequest(http.MethodGet, "/auth/me"), token))
	rec.AssertStatus(t, http.StatusOK)
	rec = env.do(authed(testutil.NewRequest(http.MethodGet, "/auth/me"), other.AccessToken))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestSetup(t *testing.T) {
	t.Run("defaults when nothing supplied", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(testutil.NewRequest(http.MethodPost, "/setup"))
		rec.AssertStatus(t, http.StatusOK)

		var resp setupResponse
		rec.DecodeJSON(t, &resp)
		if !resp.Success || resp.Username != "admin" || resp.Message != "Admin user created successfully" {
			t.Errorf("setup = %+v", resp)
		}

		rec = env.do(testutil.NewJSONRequest(http.MethodPost, "/auth/login", loginRequest{"admin", "admin123"}))
		rec.AssertStatus(t, http.StatusOK)
	})

	t.Run("json body", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(testutil.NewJSONRequest(http.MethodPost, "/setup", setupRequest{"owner", "owner-pass-1"}))
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, `"username":"owner"`)
	})

	t.Run("query parameters", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(testutil.NewRequest(http.MethodPost, "/setup?username=queryadmin&password=query-pass-1"))
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, `"username":"queryadmin"`)
	})

	t.Run("rejected once an admin exists", func(t *testing.T) {
		env := newTestEnv(t)
		env.createAdmin(t)
		rec := env.do(testutil.NewRequest(http.MethodPost, "/setup"))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, "Admin user already exists")
	})

	t.Run("weak password", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(testutil.NewJSONRequest(http.MethodPost, "/setup", setupRequest{"owner", "12345"}))
		rec.AssertStatus(t, http.StatusBadRequest)
	})
}
