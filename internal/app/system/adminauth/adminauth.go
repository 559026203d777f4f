// Package adminauth manages administrator credentials and bearer tokens.
//
// Tokens are HS256 JWTs mirrored by a row in admin_sessions. A token is
// accepted only while its signature, expiry, session row and identity are
// all valid, so deleting the session revokes the token early.
package adminauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/stratapage/internal/app/store/sessions"
	userstore "github.com/dalemusser/stratapage/internal/app/store/users"
	"github.com/dalemusser/stratapage/internal/app/system/authutil"
	"github.com/dalemusser/stratapage/internal/app/system/normalize"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyExists is returned when creating an admin whose username is taken.
	ErrAlreadyExists = errors.New("admin already exists")
	// ErrSetupComplete is returned by SetupFirstAdmin once any admin exists.
	ErrSetupComplete = errors.New("admin user already exists")
	// ErrUsernameRequired is returned for a blank username.
	ErrUsernameRequired = errors.New("username is required")
)

// Config holds the token settings.
type Config struct {
	Secret   string
	TokenTTL time.Duration
	// RevokeSessionsOnPasswordChange drops every session of an admin
	// whose password changes.
	RevokeSessionsOnPasswordChange bool
}

// Service is the credential store and token issuer.
type Service struct {
	users    *userstore.Store
	sessions *sessions.Store
	signer   *authutil.Signer
	log      *zap.Logger
	now      func() time.Time

	revokeOnPasswordChange bool
}

// New creates a Service over db.
func New(db *mongo.Database, cfg Config, logger *zap.Logger) (*Service, error) {
	signer, err := authutil.NewSigner(cfg.Secret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &Service{
		users:                  userstore.New(db),
		sessions:               sessions.New(db),
		signer:                 signer,
		log:                    logger,
		now:                    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		revokeOnPasswordChange: cfg.RevokeSessionsOnPasswordChange,
	}, nil
}

// TokenTTL returns the lifetime of issued tokens.
func (s *Service) TokenTTL() time.Duration { return s.signer.TTL() }

// CreateIdentity stores a new active admin with a bcrypt hash of password.
func (s *Service) CreateIdentity(ctx context.Context, username, password string) (*models.AdminUser, error) {
	if normalize.Username(username) == "" {
		return nil, ErrUsernameRequired
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, username, hash)
	if errors.Is(err, userstore.ErrDuplicateUsername) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("admin created", zap.String("admin_id", u.ID), zap.String("username", u.Username))
	return &u, nil
}

var (
	dummyHash     string
	dummyHashOnce sync.Once
)

// burnCompare spends a bcrypt comparison so unknown usernames take as long
// as wrong passwords.
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = authutil.HashPassword("not-a-real-password")
	})
	authutil.CheckPassword(password, dummyHash)
}

// Authenticate returns the admin for valid credentials, or nil when the
// username is unknown, the admin is inactive, or the password is wrong.
// On success last_login is stamped.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.AdminUser, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		burnCompare(password)
		s.log.Debug("login rejected: unknown username", zap.String("username", username))
		return nil, nil
	}
	if !authutil.CheckPassword(password, u.PasswordHash) {
		s.log.Debug("login rejected: wrong password", zap.String("admin_id", u.ID))
		return nil, nil
	}
	if !u.IsActive {
		s.log.Debug("login rejected: inactive admin", zap.String("admin_id", u.ID))
		return nil, nil
	}

	now := s.now()
	if err := s.users.SetLastLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLogin = &now
	return u, nil
}

// IssueToken signs a token for u and records its session.
func (s *Service) IssueToken(ctx context.Context, u *models.AdminUser) (models.LoginResponse, error) {
	now := s.now()
	token, expiresAt, err := s.signer.Sign(u.ID, u.Username, now)
	if err != nil {
		return models.LoginResponse{}, err
	}
	if _, err := s.sessions.Create(ctx, u.ID, token, expiresAt, now); err != nil {
		return models.LoginResponse{}, fmt.Errorf("record session: %w", err)
	}
	s.log.Info("admin token issued",
		zap.String("admin_id", u.ID),
		zap.Time("expires_at", expiresAt))
	return models.LoginResponse{
		AccessToken: token,
		TokenType:   models.TokenTypeBearer,
		ExpiresAt:   expiresAt,
		UserInfo:    u.Info(),
	}, nil
}

// VerifyToken resolves a bearer token to its admin.
//
// It returns nil for a malformed, badly signed, expired or wrong-type token,
// a missing or expired session, and a missing or inactive admin. Storage
// errors are logged and returned with a nil admin; callers treat every nil
// admin as unauthenticated. On success the session's last_accessed is updated.
func (s *Service) VerifyToken(ctx context.Context, token string) (*models.AdminUser, error) {
	now := s.now()
	claims, err := s.signer.ParseAt(token, now)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return nil, nil
	}

	sess, err := s.sessions.GetActive(ctx, token, claims.Subject, now)
	if err != nil {
		s.log.Error("session lookup failed", zap.String("admin_id", claims.Subject), zap.Error(err))
		return nil, err
	}
	if sess == nil {
		s.log.Debug("token rejected: no active session", zap.String("admin_id", claims.Subject))
		return nil, nil
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		s.log.Error("admin lookup failed", zap.String("admin_id", claims.Subject), zap.Error(err))
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, nil
	}

	if err := s.sessions.Touch(ctx, token, now); err != nil {
		// Non-fatal: the token itself is valid.
		s.log.Warn("session touch failed", zap.String("admin_id", u.ID), zap.Error(err))
	}
	return u, nil
}

// Revoke deletes the session holding token. Returns true iff one existed.
func (s *Service) Revoke(ctx context.Context, token string) (bool, error) {
	ok, err := s.sessions.Delete(ctx, token)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("admin session revoked")
	}
	return ok, nil
}

// PurgeExpired deletes every session whose expiry has passed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

// ChangePassword replaces the password of admin id after checking oldPassword.
//
// Returns false when the admin does not exist or oldPassword is wrong, and a
// validation error from authutil when newPassword is unacceptable. Existing
// sessions remain valid unless RevokeSessionsOnPasswordChange is set; then
// every session of the admin except the one holding keepToken is revoked.
func (s *Service) ChangePassword(ctx context.Context, id, keepToken, oldPassword, newPassword string) (bool, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if u == nil || !authutil.CheckPassword(oldPassword, u.PasswordHash) {
		return false, nil
	}
	if err := authutil.ValidatePassword(newPassword); err != nil {
		return false, err
	}

	hash, err := authutil.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	ok, err := s.users.SetPasswordHash(ctx, id, hash)
	if err != nil || !ok {
		return false, err
	}

	if s.revokeOnPasswordChange {
		n, err := s.sessions.DeleteByUserExcept(ctx, id, keepToken)
		if err != nil {
			return false, fmt.Errorf("revoke sessions: %w", err)
		}
		s.log.Info("other admin sessions revoked after password change",
			zap.String("admin_id", id), zap.Int64("count", n))
	}
	s.log.Info("admin password changed", zap.String("admin_id", id))
	return true, nil
}

// SetupFirstAdmin creates the first admin. It fails with ErrSetupComplete
// when any admin already exists, including when a concurrent setup wins.
func (s *Service) SetupFirstAdmin(ctx context.Context, username, password string) (*models.AdminUser, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrSetupComplete
	}
	if normalize.Username(username) == "" {
		return nil, ErrUsernameRequired
	}
	if err := authutil.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.CreatePrimary(ctx, username, hash)
	if errors.Is(err, userstore.ErrPrimaryExists) || errors.Is(err, userstore.ErrDuplicateUsername) {
		return nil, ErrSetupComplete
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("initial admin created", zap.String("admin_id", u.ID), zap.String("username", u.Username))
	return &u, nil
}

// Count returns the number of admins.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
