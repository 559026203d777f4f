package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/stratapage/internal/app/system/adminauth"
	"github.com/dalemusser/stratapage/internal/app/system/auth"
	"github.com/dalemusser/stratapage/internal/app/system/authutil"
	"github.com/dalemusser/stratapage/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapage/internal/app/system/metrics"
	"github.com/dalemusser/stratapage/internal/app/system/network"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		jsonutil.BadRequest(w, "Username and password are required")
		return
	}

	u, err := h.auth.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		h.metrics.IncLogin(metrics.LoginError)
		h.errLog.Log(r, "login failed", err)
		jsonutil.InternalError(w, "Login failed")
		return
	}
	if u == nil {
		h.metrics.IncLogin(metrics.LoginFailure)
		h.logger.Info("admin login rejected",
			zap.String("username", in.Username),
			zap.String("client_ip", network.ClientIP(r)))
		jsonutil.Unauthorized(w, "Invalid username or password")
		return
	}

	resp, err := h.auth.IssueToken(r.Context(), u)
	if err != nil {
		h.metrics.IncLogin(metrics.LoginError)
		h.errLog.Log(r, "token issue failed", err)
		jsonutil.InternalError(w, "Login failed")
		return
	}
	h.metrics.IncLogin(metrics.LoginSuccess)
	h.logger.Info("admin logged in",
		zap.String("admin_id", u.ID),
		zap.String("client_ip", network.ClientIP(r)))
	jsonutil.OK(w, resp)
}

// Logout handles POST /auth/logout. Success is false when the token had no
// session, which still answers 200.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ok, err := h.auth.Revoke(r.Context(), auth.BearerToken(r))
	if err != nil {
		h.errLog.Log(r, "logout failed", err)
		jsonutil.InternalError(w, "Logout failed")
		return
	}
	jsonutil.OK(w, jsonutil.SuccessResponse{Success: ok, Message: "Logged out successfully"})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	jsonutil.OK(w, u.Info())
}

// ChangePassword handles POST /auth/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	var in changePasswordRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body")
		return
	}

	changed, err := h.auth.ChangePassword(r.Context(), u.ID, auth.BearerToken(r), in.OldPassword, in.NewPassword)
	switch {
	case authutil.IsPasswordError(err):
		jsonutil.BadRequest(w, err.Error())
		return
	case err != nil:
		h.errLog.Log(r, "password change failed", err)
		jsonutil.InternalError(w, "Failed to change password")
		return
	case !changed:
		jsonutil.BadRequest(w, "Current password is incorrect")
		return
	}
	jsonutil.Success(w, "Password changed successfully")
}

type setupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Default credentials for Setup when the request names none.
const (
	defaultSetupUsername = "admin"
	defaultSetupPassword = "admin123"
)

type setupResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

// Setup handles POST /setup. Credentials come from the JSON body, else the
// username/password query parameters, else the built-in defaults.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	var in setupRequest
	if err := jsonutil.DecodeOptional(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body")
		return
	}
	q := r.URL.Query()
	username := firstNonEmpty(in.Username, q.Get("username"), defaultSetupUsername)
	password := firstNonEmpty(in.Password, q.Get("password"), defaultSetupPassword)

	u, err := h.auth.SetupFirstAdmin(r.Context(), username, password)
	switch {
	case errors.Is(err, adminauth.ErrSetupComplete):
		jsonutil.BadRequest(w, "Admin user already exists")
		return
	case errors.Is(err, adminauth.ErrUsernameRequired):
		jsonutil.BadRequest(w, "Username is required")
		return
	case authutil.IsPasswordError(err):
		jsonutil.BadRequest(w, err.Error())
		return
	case err != nil:
		h.errLog.Log(r, "admin setup failed", err)
		jsonutil.InternalError(w, "Setup failed")
		return
	}
	jsonutil.OK(w, setupResponse{
		Success:  true,
		Message:  "Admin user created successfully",
		Username: u.Username,
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
