package signout

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/identity"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/storage/memory"
	"github.com/eventdeck/eventdeck/internal/web/handler/login"
	"github.com/eventdeck/eventdeck/internal/web/notify"
)

type fakeIdentity struct {
	endSessionErr error
}

func (f *fakeIdentity) Authenticate(_ context.Context, _ identity.Credentials) (*identity.User, *identity.Credential, error) {
	return &identity.User{ID: "1", Name: "Alice"}, &identity.Credential{Source: identity.SourceLocal, Subject: "1"}, nil
}

func (f *fakeIdentity) Resolve(_ context.Context, _ *identity.Credential) (*identity.User, error) {
	return &identity.User{ID: "1", Name: "Alice"}, nil
}

func (f *fakeIdentity) EndSession(_ context.Context, _ *identity.Credential) error {
	return f.endSessionErr
}

type stubViews struct{}

func (stubViews) Load() error { return nil }

func (stubViews) Render(w io.Writer, name string, _ interface{}, _ ...string) error {
	_, _ = io.WriteString(w, name)
	return nil
}

func newSignOutApp(t *testing.T, client session.IdentityClient) (*fiber.App, *session.Manager, *notify.Flash) {
	t.Helper()

	m, err := session.NewManager(memory.New(), client, time.Hour)
	require.NoError(t, err)

	flash := notify.NewFlash(memory.New(), time.Hour)

	cfg := &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    8080,
			Session: config.Session{ExpiryTime: time.Hour},
		},
	}

	app := fiber.New(fiber.Config{Views: stubViews{}})

	var s Service
	s.controls = make(map[string]*Control)
	s.Init(app, cfg, m, flash)

	return app, m, flash
}

func signOutRequest(cookie string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, Path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}

	return req
}

func authenticate(t *testing.T, m *session.Manager, sessionID string) {
	t.Helper()
	require.NoError(t, m.Store(sessionID).Login(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))
}

func TestSignOutWithoutCookieRedirects(t *testing.T) {
	app, _, _ := newSignOutApp(t, &fakeIdentity{})

	resp, err := app.Test(signOutRequest(""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, login.Path, resp.Header.Get("Location"))
}

func TestSignOutClearsSessionAndCookie(t *testing.T) {
	app, m, _ := newSignOutApp(t, &fakeIdentity{})
	authenticate(t, m, "s1")

	resp, err := app.Test(signOutRequest("s1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, login.Path, resp.Header.Get("Location"))

	// Cookie is expired on success.
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)

	// The credential is gone, so a fresh store resolves unauthenticated.
	cred, err := m.Credential("s1")
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestSignOutRemoteFailureKeepsCookieAndNotifies(t *testing.T) {
	client := &fakeIdentity{endSessionErr: errors.New("provider unreachable")}
	app, m, flash := newSignOutApp(t, client)
	authenticate(t, m, "s1")

	resp, err := app.Test(signOutRequest("s1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, login.Path, resp.Header.Get("Location"))

	// No cookie clearing on failure; the login page still sees the session
	// and can render the queued notification.
	assert.Empty(t, resp.Cookies())

	got := flash.Pop("s1")
	require.Len(t, got, 1)
	assert.Equal(t, "Sign-out failed", got[0].Title)
	assert.Equal(t, notify.SeverityDestructive, got[0].Severity)

	// Local state was cleared regardless of the remote outcome.
	snap := m.Store("s1").Snapshot()
	assert.False(t, snap.Authenticated)
}

func TestSignOutTwiceIsHarmless(t *testing.T) {
	app, m, _ := newSignOutApp(t, &fakeIdentity{})
	authenticate(t, m, "s1")

	resp, err := app.Test(signOutRequest("s1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	// Second sign-out finds an unauthenticated store; still a clean redirect.
	resp, err = app.Test(signOutRequest("s1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, login.Path, resp.Header.Get("Location"))
}
