// Package session derives the authentication state from the session store
// and owns every transition into and out of it.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/errs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/security"
)

// Store is the subset of store.SessionStore the manager needs.
type Store interface {
	SetAuthToken(token string) bool
	AuthToken() (string, bool)
	SetUser(user any) bool
	User() any
	ClearAuth() bool
}

// AuthAPI is the subset of remote.Client used for sign-in flows.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) remote.Result[remote.AuthPayload]
	Register(ctx context.Context, reg models.Registration) remote.Result[remote.AuthPayload]
	FetchProfile(ctx context.Context, token string) remote.Result[models.UserProfile]
}

// Navigator surfaces the gate to the user.
type Navigator interface {
	Notify(message string)
	RedirectToLogin()
}

type Manager struct {
	store Store
	api   AuthAPI
	nav   Navigator
	log   zerolog.Logger
	now   func() time.Time

	mu        sync.Mutex
	listeners []func()
}

func NewManager(store Store, api AuthAPI, nav Navigator, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		api:   api,
		nav:   nav,
		log:   log.With().Str("component", "session").Logger(),
		now:   time.Now,
	}
}

// OnChange registers fn to run after every sign-in and sign-out.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notifyChange() {
	m.mu.Lock()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// load returns the stored session when both halves are present and sane.
// Anything half-written, malformed or expired is cleared on the spot.
func (m *Manager) load() (string, models.UserProfile, bool) {
	token, hasToken := m.store.AuthToken()
	raw := m.store.User()

	if !hasToken && raw == nil {
		return "", models.UserProfile{}, false
	}
	if !hasToken || raw == nil {
		m.log.Warn().Bool("token", hasToken).Bool("user", raw != nil).Msg("partial session, clearing")
		m.store.ClearAuth()
		return "", models.UserProfile{}, false
	}

	profile, ok := decodeProfile(raw)
	if !ok {
		m.log.Warn().Msg("malformed stored profile, clearing session")
		m.store.ClearAuth()
		return "", models.UserProfile{}, false
	}

	if exp, ok := security.TokenExpiry(token); ok && !m.now().Before(exp) {
		m.log.Info().Time("expired_at", exp).Msg("stored token expired, clearing session")
		m.store.ClearAuth()
		return "", models.UserProfile{}, false
	}

	return token, profile, true
}

func decodeProfile(raw any) (models.UserProfile, bool) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return models.UserProfile{}, false
	}

	var profile models.UserProfile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &profile,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return models.UserProfile{}, false
	}
	if err := decoder.Decode(fields); err != nil {
		return models.UserProfile{}, false
	}
	if profile.ID == "" || profile.Email == "" {
		return models.UserProfile{}, false
	}
	return profile, true
}

func (m *Manager) IsAuthenticated() bool {
	_, _, ok := m.load()
	return ok
}

func (m *Manager) CurrentUser() (models.UserProfile, bool) {
	_, profile, ok := m.load()
	return profile, ok
}

// Token returns the bearer token of a valid session.
func (m *Manager) Token() (string, bool) {
	token, _, ok := m.load()
	return token, ok
}

// RequireAuthentication is the purchase gate. When it returns false the
// reason has already been shown and the user pointed at sign-in; the caller
// must abandon the action.
func (m *Manager) RequireAuthentication(reason string) bool {
	if m.IsAuthenticated() {
		return true
	}
	m.nav.Notify(reason)
	m.nav.RedirectToLogin()
	return false
}

func (m *Manager) Logout() {
	if !m.store.ClearAuth() {
		m.log.Warn().Msg("session clear reported a storage failure")
	}
	m.notifyChange()
}

func (m *Manager) Login(ctx context.Context, creds models.Credentials) (models.UserProfile, error) {
	res := m.api.Login(ctx, creds)
	if !res.Success {
		return models.UserProfile{}, errs.Remote(authFailureMessage(res.Error, "Login failed. Please try again."), res.Error)
	}
	return m.establish(res.Data)
}

// Register creates the account and, when the backend signs the user in
// straight away, stores the session. The bool reports whether it did.
func (m *Manager) Register(ctx context.Context, reg models.Registration) (models.UserProfile, bool, error) {
	res := m.api.Register(ctx, reg)
	if !res.Success {
		return models.UserProfile{}, false, errs.Remote(authFailureMessage(res.Error, "Registration failed. Please try again."), res.Error)
	}
	if !res.Data.HasSession() {
		return models.UserProfile{}, false, nil
	}
	profile, err := m.establish(res.Data)
	return profile, err == nil, err
}

// Refresh re-reads the profile from the server. A token the server refuses
// ends the session; a network failure leaves it alone.
func (m *Manager) Refresh(ctx context.Context) (models.UserProfile, error) {
	token, _, ok := m.load()
	if !ok {
		return models.UserProfile{}, errs.Gate("Please login to continue")
	}

	res := m.api.FetchProfile(ctx, token)
	if !res.Success {
		if res.Error != nil && res.Error.Kind == remote.ErrStatus &&
			(res.Error.Status == http.StatusUnauthorized || res.Error.Status == http.StatusForbidden) {
			m.store.ClearAuth()
			m.notifyChange()
			return models.UserProfile{}, errs.Gate("Your session has expired. Please login again.")
		}
		return models.UserProfile{}, errs.Remote("Could not refresh your profile. Please try again.", res.Error)
	}

	if !m.store.SetUser(res.Data) {
		m.store.ClearAuth()
		m.notifyChange()
		return models.UserProfile{}, errs.Storage("Could not save your session.", nil)
	}
	return res.Data, nil
}

// establish writes token and profile together; if either write fails both
// are removed so no half session is left behind.
func (m *Manager) establish(payload remote.AuthPayload) (models.UserProfile, error) {
	if !m.store.SetAuthToken(payload.Token) || !m.store.SetUser(payload.User) {
		m.store.ClearAuth()
		return models.UserProfile{}, errs.Storage("Could not save your session. You will need to login again.", nil)
	}
	m.log.Info().Str("user_id", payload.User.ID).Msg("session established")
	m.notifyChange()
	return *payload.User, nil
}

func authFailureMessage(info *remote.ErrorInfo, fallback string) string {
	if info != nil && info.Kind != remote.ErrNetwork && info.Message != "" && info.Status < 500 {
		return info.Message
	}
	return fallback
}
