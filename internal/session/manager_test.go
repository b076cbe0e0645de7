package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/errs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/security"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/store"
)

type fakeNav struct {
	notices   []string
	redirects int
}

func (n *fakeNav) Notify(message string) { n.notices = append(n.notices, message) }
func (n *fakeNav) RedirectToLogin()      { n.redirects++ }

type fakeAuth struct {
	login    remote.Result[remote.AuthPayload]
	register remote.Result[remote.AuthPayload]
	profile  remote.Result[models.UserProfile]
	calls    int
}

func (f *fakeAuth) Login(context.Context, models.Credentials) remote.Result[remote.AuthPayload] {
	f.calls++
	return f.login
}

func (f *fakeAuth) Register(context.Context, models.Registration) remote.Result[remote.AuthPayload] {
	f.calls++
	return f.register
}

func (f *fakeAuth) FetchProfile(context.Context, string) remote.Result[models.UserProfile] {
	f.calls++
	return f.profile
}

// flakyStore fails the user write so half-written sessions can be observed.
type flakyStore struct {
	*store.SessionStore
}

func (flakyStore) SetUser(any) bool { return false }

var ama = models.UserProfile{ID: "u1", Email: "a@b.com", FirstName: "Ama"}

func newManager(t *testing.T) (*Manager, *store.SessionStore, *fakeAuth, *fakeNav) {
	t.Helper()
	s := store.New(store.NewMemoryBackend(), zerolog.Nop())
	auth := &fakeAuth{}
	nav := &fakeNav{}
	return NewManager(s, auth, nav, zerolog.Nop()), s, auth, nav
}

func TestAuthenticatedOnlyWithBothHalves(t *testing.T) {
	m, s, _, _ := newManager(t)
	assert.False(t, m.IsAuthenticated())

	require.True(t, s.SetAuthToken("opaque"))
	assert.False(t, m.IsAuthenticated())
	_, ok := s.AuthToken()
	assert.False(t, ok, "partial session is cleared")

	require.True(t, s.SetAuthToken("opaque"))
	require.True(t, s.SetUser(ama))
	assert.True(t, m.IsAuthenticated())

	user, ok := m.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, ama, user)

	token, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "opaque", token)
}

func TestMalformedProfileClearsSession(t *testing.T) {
	tests := []struct {
		name string
		user any
	}{
		{"not json", "{broken"},
		{"json array", []string{"u1"}},
		{"missing id", map[string]any{"email": "a@b.com"}},
		{"wrong type", map[string]any{"id": "u1", "email": "a@b.com", "is_admin": map[string]any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s, _, _ := newManager(t)
			require.True(t, s.SetAuthToken("tok"))
			require.True(t, s.SetUser(tt.user))

			assert.False(t, m.IsAuthenticated())
			_, ok := m.CurrentUser()
			assert.False(t, ok)

			_, ok = s.AuthToken()
			assert.False(t, ok)
			assert.Nil(t, s.User())
		})
	}
}

func TestExpiredJWTIsLoggedOut(t *testing.T) {
	m, s, _, _ := newManager(t)
	expired, err := security.IssueAccessToken("k", models.User{ID: "u1", Email: "a@b.com"}, "s1", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	require.True(t, s.SetAuthToken(expired))
	require.True(t, s.SetUser(ama))

	assert.False(t, m.IsAuthenticated())
	_, ok := s.AuthToken()
	assert.False(t, ok)
}

func TestLiveJWTIsAccepted(t *testing.T) {
	m, s, _, _ := newManager(t)
	live, err := security.IssueAccessToken("k", models.User{ID: "u1", Email: "a@b.com"}, "s1", time.Hour, time.Now())
	require.NoError(t, err)

	require.True(t, s.SetAuthToken(live))
	require.True(t, s.SetUser(ama))
	assert.True(t, m.IsAuthenticated())
}

func TestLogoutIsUnconditional(t *testing.T) {
	m, s, _, _ := newManager(t)
	require.True(t, s.SetAuthToken("tok"))
	require.True(t, s.SetUser(ama))

	changes := 0
	m.OnChange(func() { changes++ })

	m.Logout()
	assert.False(t, m.IsAuthenticated())
	_, ok := m.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, 1, changes)

	m.Logout()
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, 2, changes)
}

func TestRequireAuthentication(t *testing.T) {
	m, s, _, nav := newManager(t)

	assert.False(t, m.RequireAuthentication("Please login or register to purchase workflows"))
	assert.Equal(t, []string{"Please login or register to purchase workflows"}, nav.notices)
	assert.Equal(t, 1, nav.redirects)

	require.True(t, s.SetAuthToken("tok"))
	require.True(t, s.SetUser(ama))
	assert.True(t, m.RequireAuthentication("unused"))
	assert.Len(t, nav.notices, 1)
}

func TestLoginStoresSession(t *testing.T) {
	m, s, auth, _ := newManager(t)
	user := ama
	auth.login = remote.Result[remote.AuthPayload]{Success: true, Data: remote.AuthPayload{Token: "tok", User: &user}}

	changes := 0
	m.OnChange(func() { changes++ })

	got, err := m.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, ama, got)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, 1, changes)

	token, _ := s.AuthToken()
	assert.Equal(t, "tok", token)
}

func TestLoginFailureSurfacesServerDetail(t *testing.T) {
	m, _, auth, _ := newManager(t)
	auth.login = remote.Result[remote.AuthPayload]{Error: &remote.ErrorInfo{
		Kind: remote.ErrStatus, Status: http.StatusUnauthorized, Message: "Invalid email or password",
	}}

	_, err := m.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "bad"})
	require.Error(t, err)
	assert.True(t, errs.IsRemote(err))
	assert.Equal(t, "Invalid email or password", errs.UserMessage(err))
	assert.False(t, m.IsAuthenticated())
}

func TestLoginNetworkFailureUsesGenericMessage(t *testing.T) {
	m, _, auth, _ := newManager(t)
	auth.login = remote.Result[remote.AuthPayload]{Error: &remote.ErrorInfo{Kind: remote.ErrNetwork, Message: "dial tcp"}}

	_, err := m.Login(context.Background(), models.Credentials{})
	assert.Equal(t, "Login failed. Please try again.", errs.UserMessage(err))
}

func TestHalfWrittenSessionIsRolledBack(t *testing.T) {
	backing := store.New(store.NewMemoryBackend(), zerolog.Nop())
	auth := &fakeAuth{}
	user := ama
	auth.login = remote.Result[remote.AuthPayload]{Success: true, Data: remote.AuthPayload{Token: "tok", User: &user}}
	m := NewManager(flakyStore{backing}, auth, &fakeNav{}, zerolog.Nop())

	_, err := m.Login(context.Background(), models.Credentials{})
	require.Error(t, err)
	assert.True(t, errs.IsStorage(err))

	_, ok := backing.AuthToken()
	assert.False(t, ok)
	assert.False(t, m.IsAuthenticated())
}

func TestRegisterWithoutSessionLeavesUserSignedOut(t *testing.T) {
	m, _, auth, _ := newManager(t)
	auth.register = remote.Result[remote.AuthPayload]{Success: true, Data: remote.AuthPayload{Message: "User registered successfully"}}

	_, signedIn, err := m.Register(context.Background(), models.Registration{})
	require.NoError(t, err)
	assert.False(t, signedIn)
	assert.False(t, m.IsAuthenticated())
}

func TestRegisterWithSession(t *testing.T) {
	m, _, auth, _ := newManager(t)
	user := ama
	auth.register = remote.Result[remote.AuthPayload]{Success: true, Data: remote.AuthPayload{Token: "tok", User: &user}}

	got, signedIn, err := m.Register(context.Background(), models.Registration{})
	require.NoError(t, err)
	assert.True(t, signedIn)
	assert.Equal(t, "Ama", got.DisplayName())
	assert.True(t, m.IsAuthenticated())
}

func TestRefresh(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		m, _, auth, _ := newManager(t)
		_, err := m.Refresh(context.Background())
		assert.True(t, errs.IsGate(err))
		assert.Zero(t, auth.calls)
	})

	t.Run("updates stored profile", func(t *testing.T) {
		m, s, auth, _ := newManager(t)
		require.True(t, s.SetAuthToken("tok"))
		require.True(t, s.SetUser(ama))

		updated := ama
		updated.IsAdmin = true
		auth.profile = remote.Result[models.UserProfile]{Success: true, Data: updated}

		got, err := m.Refresh(context.Background())
		require.NoError(t, err)
		assert.True(t, got.IsAdmin)

		current, ok := m.CurrentUser()
		require.True(t, ok)
		assert.True(t, current.IsAdmin)
	})

	t.Run("rejected token ends session", func(t *testing.T) {
		m, s, auth, _ := newManager(t)
		require.True(t, s.SetAuthToken("tok"))
		require.True(t, s.SetUser(ama))
		auth.profile = remote.Result[models.UserProfile]{Error: &remote.ErrorInfo{Kind: remote.ErrStatus, Status: http.StatusUnauthorized}}

		_, err := m.Refresh(context.Background())
		assert.True(t, errs.IsGate(err))
		assert.False(t, m.IsAuthenticated())
	})

	t.Run("network failure keeps session", func(t *testing.T) {
		m, s, auth, _ := newManager(t)
		require.True(t, s.SetAuthToken("tok"))
		require.True(t, s.SetUser(ama))
		auth.profile = remote.Result[models.UserProfile]{Error: &remote.ErrorInfo{Kind: remote.ErrNetwork}}

		_, err := m.Refresh(context.Background())
		assert.True(t, errs.IsRemote(err))
		assert.True(t, m.IsAuthenticated())
	})
}
