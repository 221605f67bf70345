package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"backoffice/internal/activity"
	"backoffice/internal/backend"
	apierrors "backoffice/internal/errors"
	"backoffice/internal/helpers"
	"backoffice/internal/models"
	"backoffice/internal/toast"

	"go.uber.org/zap"
)

const (
	msgLoginSuccess  = "Login Successfully"
	msgNotAdmin      = "You are not an admin"
	msgLoginFailed   = "Login failed. Please try again."
	msgLogoutSuccess = "Logout Successfully"
)

// ErrNotAdmin is returned when valid credentials belong to a non-admin account.
var ErrNotAdmin = apierrors.NewAPIError(http.StatusForbidden, msgNotAdmin)

// Authenticator is the part of the backend that issues tokens.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.AuthLoginResponse, error)
}

// Manager owns the administrator session for the lifetime of the process.
type Manager struct {
	mu      sync.RWMutex
	current models.Session

	store    IStore
	auth     Authenticator
	toaster  toast.IToaster
	activity activity.IActivityLogger
	now      func() time.Time

	onChange []func(authenticated bool)
}

func NewManager(
	store IStore,
	auth Authenticator,
	toaster toast.IToaster,
	activityLogger activity.IActivityLogger,
) *Manager {
	return &Manager{
		store:    store,
		auth:     auth,
		toaster:  toaster,
		activity: activityLogger,
		now:      time.Now,
	}
}

// SetAuthenticator is used when the backend client needs the manager as its token source.
func (m *Manager) SetAuthenticator(auth Authenticator) {
	m.mu.Lock()
	m.auth = auth
	m.mu.Unlock()
}

// OnSessionChanged registers a callback run after every successful login and
// every logout. Callbacks must be registered before the manager is shared.
func (m *Manager) OnSessionChanged(fn func(authenticated bool)) {
	m.onChange = append(m.onChange, fn)
}

func (m *Manager) notifyChanged(authenticated bool) {
	for _, fn := range m.onChange {
		fn(authenticated)
	}
}

// Restore loads the stored session. A stored token whose exp claim has passed
// is discarded and cleared from the store.
func (m *Manager) Restore(ctx context.Context) (models.Session, error) {
	stored, err := m.store.Load(ctx)
	if err != nil {
		return models.Session{}, err
	}

	if stored.Token != "" && helpers.TokenExpired(stored.Token, m.now()) {
		zap.L().Info("Stored session has expired, discarding it")
		if err = m.store.Clear(ctx); err != nil {
			zap.L().Warn("Failed to clear expired session", zap.Error(err))
		}
		stored = models.Session{}
	}

	m.mu.Lock()
	m.current = stored
	m.mu.Unlock()

	zap.L().Info("Session restored", zap.Bool("authenticated", stored.Authenticated()))
	return stored, nil
}

// Login authenticates against the backend. Only admin accounts are stored.
func (m *Manager) Login(ctx context.Context, email, password string) (models.Session, error) {
	m.mu.RLock()
	auth := m.auth
	m.mu.RUnlock()

	resp, err := auth.Login(ctx, email, password)
	if err != nil {
		zap.L().Warn("Login request failed", zap.Error(err))
		m.toaster.Error(apierrors.MessageOr(err, msgLoginFailed))
		return models.Session{}, err
	}

	if !resp.Success {
		message := resp.Message
		if message == "" {
			message = msgLoginFailed
		}
		m.toaster.Error(message)
		return models.Session{}, apierrors.NewAPIError(http.StatusUnauthorized, message)
	}

	if resp.Role != models.RoleAdmin {
		zap.L().Info("Rejected login of non-admin account", zap.String("role", resp.Role))
		m.toaster.Error(msgNotAdmin)
		return models.Session{}, ErrNotAdmin
	}

	session := models.Session{Token: resp.Token, IsAdmin: true}
	if err = m.store.Save(ctx, session); err != nil {
		zap.L().Error("Failed to persist session", zap.Error(err))
		m.toaster.Error(msgLoginFailed)
		return models.Session{}, err
	}

	m.mu.Lock()
	m.current = session
	m.mu.Unlock()

	m.notifyChanged(true)
	m.toaster.Success(msgLoginSuccess)
	activity.Record(m.activity, activity.NewActivity(
		models.ActivityLogin, "session", email, "Administrator logged in", nil))

	return session, nil
}

// Logout destroys the session in memory and in the store.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = models.Session{}
	m.mu.Unlock()

	err := m.store.Clear(ctx)
	if err != nil {
		zap.L().Warn("Failed to clear stored session", zap.Error(err))
	}

	m.notifyChanged(false)
	m.toaster.Success(msgLogoutSuccess)
	activity.Record(m.activity, activity.NewActivity(
		models.ActivityLogout, "session", "", "Administrator logged out", nil))

	return err
}

func (m *Manager) Current() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token is the bearer token source of the backend client.
func (m *Manager) Token() string {
	return m.Current().Token
}

func (m *Manager) Authenticated() bool {
	return m.Current().Authenticated()
}

// IsNotAdmin reports whether err is the non-admin rejection.
func IsNotAdmin(err error) bool {
	return errors.Is(err, ErrNotAdmin)
}

var _ Authenticator = (*backend.Client)(nil)
