package callback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventdeck/eventdeck/internal/identity"
	"github.com/eventdeck/eventdeck/internal/session"
)

func TestFlowWaitsUntilInitialized(t *testing.T) {
	f := NewFlow()

	assert.Equal(t, StateWaiting, f.Observe(session.Snapshot{}))
	assert.Equal(t, StateWaiting, f.Observe(session.Snapshot{Loading: true}))
	assert.Equal(t, StateWaiting, f.Observe(session.Snapshot{Initialized: true, Loading: true}))
	assert.Equal(t, StateWaiting, f.State())
}

func TestFlowRedirectsHomeOnAuthenticated(t *testing.T) {
	f := NewFlow()

	state := f.Observe(session.Snapshot{
		Initialized:   true,
		Authenticated: true,
		User:          &identity.User{ID: "1"},
	})

	assert.Equal(t, StateRedirectHome, state)
}

func TestFlowRedirectsLoginOnUnauthenticated(t *testing.T) {
	f := NewFlow()

	assert.Equal(t, StateRedirectLogin, f.Observe(session.Snapshot{Initialized: true}))
}

func TestFlowDecisionIsTerminal(t *testing.T) {
	f := NewFlow()

	state := f.Observe(session.Snapshot{Initialized: true, Authenticated: true, User: &identity.User{ID: "1"}})
	assert.Equal(t, StateRedirectHome, state)

	// Later snapshots cannot overturn the decision.
	assert.Equal(t, StateRedirectHome, f.Observe(session.Snapshot{Initialized: true}))
	assert.Equal(t, StateRedirectHome, f.Observe(session.Snapshot{}))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "waiting", StateWaiting.String())
	assert.Equal(t, "redirect-home", StateRedirectHome.String())
	assert.Equal(t, "redirect-login", StateRedirectLogin.String())
	assert.Equal(t, "unknown", State(99).String())
}
