package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdeck/eventdeck/internal/identity"
	"github.com/eventdeck/eventdeck/internal/storage/memory"
)

// fakeIdentity is a scriptable IdentityClient.
type fakeIdentity struct {
	mu sync.Mutex

	authenticateFn func(ctx context.Context, creds identity.Credentials) (*identity.User, *identity.Credential, error)
	resolveFn      func(ctx context.Context, cred *identity.Credential) (*identity.User, error)
	endSessionFn   func(ctx context.Context, cred *identity.Credential) error

	endSessionCalls int
}

func (f *fakeIdentity) Authenticate(ctx context.Context, creds identity.Credentials) (*identity.User, *identity.Credential, error) {
	if f.authenticateFn == nil {
		return nil, nil, identity.ErrInvalidCredentials
	}

	return f.authenticateFn(ctx, creds)
}

func (f *fakeIdentity) Resolve(ctx context.Context, cred *identity.Credential) (*identity.User, error) {
	if f.resolveFn == nil {
		return nil, identity.ErrCredentialExpired
	}

	return f.resolveFn(ctx, cred)
}

func (f *fakeIdentity) EndSession(ctx context.Context, cred *identity.Credential) error {
	f.mu.Lock()
	f.endSessionCalls++
	f.mu.Unlock()

	if f.endSessionFn == nil {
		return nil
	}

	return f.endSessionFn(ctx, cred)
}

func (f *fakeIdentity) endSessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.endSessionCalls
}

var testUser = &identity.User{ID: "1", Name: "Alice", Roles: []string{"organizer"}}

func acceptingClient() *fakeIdentity {
	return &fakeIdentity{
		authenticateFn: func(_ context.Context, _ identity.Credentials) (*identity.User, *identity.Credential, error) {
			return testUser, &identity.Credential{Source: identity.SourceLocal, Subject: "1"}, nil
		},
		resolveFn: func(_ context.Context, _ *identity.Credential) (*identity.User, error) {
			return testUser, nil
		},
	}
}

func newTestManager(t *testing.T, client IdentityClient) *Manager {
	t.Helper()

	m, err := NewManager(memory.New(), client, time.Hour)
	require.NoError(t, err)

	return m
}

func TestNewStoreIsUninitialized(t *testing.T) {
	m := newTestManager(t, acceptingClient())

	snap := m.Store("s1").Snapshot()
	assert.False(t, snap.Initialized)
	assert.False(t, snap.Authenticated)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
}

func TestLoginSuccess(t *testing.T) {
	m := newTestManager(t, acceptingClient())
	st := m.Store("s1")

	require.NoError(t, st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))

	snap := st.Snapshot()
	assert.True(t, snap.Initialized)
	assert.True(t, snap.Authenticated)
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Alice", snap.User.Name)

	cred, err := m.Credential("s1")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, identity.SourceLocal, cred.Source)
}

func TestLoginFailureKeepsState(t *testing.T) {
	client := acceptingClient()
	client.authenticateFn = func(_ context.Context, _ identity.Credentials) (*identity.User, *identity.Credential, error) {
		return nil, nil, identity.ErrInvalidCredentials
	}

	m := newTestManager(t, client)
	st := m.Store("s1")

	err := st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	snap := st.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
}

func TestConcurrentMutationRejected(t *testing.T) {
	unblock := make(chan struct{})
	started := make(chan struct{})

	client := acceptingClient()
	client.authenticateFn = func(_ context.Context, _ identity.Credentials) (*identity.User, *identity.Credential, error) {
		close(started)
		<-unblock

		return testUser, &identity.Credential{Source: identity.SourceLocal, Subject: "1"}, nil
	}

	m := newTestManager(t, client)
	st := m.Store("s1")

	done := make(chan error, 1)

	go func() {
		done <- st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "secret"})
	}()

	<-started

	assert.True(t, st.Snapshot().Loading)
	assert.ErrorIs(t, st.Refresh(context.Background()), ErrOperationInFlight)
	assert.ErrorIs(t, st.Logout(context.Background()), ErrOperationInFlight)
	assert.ErrorIs(t, st.Login(context.Background(), identity.Credentials{}), ErrOperationInFlight)

	close(unblock)
	require.NoError(t, <-done)

	// The rejected calls must not have corrupted the winning login.
	snap := st.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.False(t, snap.Loading)
}

func TestLogoutWhenUnauthenticatedIsNoOp(t *testing.T) {
	client := acceptingClient()
	m := newTestManager(t, client)
	st := m.Store("s1")

	require.NoError(t, st.Logout(context.Background()))
	assert.Zero(t, client.endSessionCount())
}

func TestLogoutClearsStateAndCredential(t *testing.T) {
	client := acceptingClient()
	m := newTestManager(t, client)
	st := m.Store("s1")

	require.NoError(t, st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))
	require.NoError(t, st.Logout(context.Background()))

	snap := st.Snapshot()
	assert.True(t, snap.Initialized)
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, 1, client.endSessionCount())

	cred, err := m.Credential("s1")
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestLogoutClearsStateDespiteRemoteFailure(t *testing.T) {
	remoteErr := errors.New("provider unreachable")

	client := acceptingClient()
	client.endSessionFn = func(_ context.Context, _ *identity.Credential) error {
		return remoteErr
	}

	m := newTestManager(t, client)
	st := m.Store("s1")

	require.NoError(t, st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))

	err := st.Logout(context.Background())
	assert.ErrorIs(t, err, remoteErr)

	// Local state is gone even though the remote call failed.
	snap := st.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)

	cred, loadErr := m.Credential("s1")
	require.NoError(t, loadErr)
	assert.Nil(t, cred)
}

func TestRefreshWithoutCredential(t *testing.T) {
	m := newTestManager(t, acceptingClient())
	st := m.Store("s1")

	require.NoError(t, st.Refresh(context.Background()))

	snap := st.Snapshot()
	assert.True(t, snap.Initialized)
	assert.False(t, snap.Authenticated)
}

func TestRefreshResolvesPersistedCredential(t *testing.T) {
	m := newTestManager(t, acceptingClient())

	require.NoError(t, m.SaveCredential("s1", &identity.Credential{Source: identity.SourceLocal, Subject: "1"}))

	st := m.Store("s1")
	require.NoError(t, st.Refresh(context.Background()))

	snap := st.Snapshot()
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Alice", snap.User.Name)
}

func TestRefreshDropsRejectedCredential(t *testing.T) {
	client := acceptingClient()
	client.resolveFn = func(_ context.Context, _ *identity.Credential) (*identity.User, error) {
		return nil, identity.ErrCredentialExpired
	}

	m := newTestManager(t, client)

	require.NoError(t, m.SaveCredential("s1", &identity.Credential{Source: identity.SourceLocal, Subject: "1"}))

	st := m.Store("s1")

	// A dead credential settles to unauthenticated without error.
	require.NoError(t, st.Refresh(context.Background()))

	snap := st.Snapshot()
	assert.True(t, snap.Initialized)
	assert.False(t, snap.Authenticated)

	cred, err := m.Credential("s1")
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestRefreshReturnsTransientError(t *testing.T) {
	transient := errors.New("identity provider timeout")

	client := acceptingClient()
	client.resolveFn = func(_ context.Context, _ *identity.Credential) (*identity.User, error) {
		return nil, transient
	}

	m := newTestManager(t, client)

	require.NoError(t, m.SaveCredential("s1", &identity.Credential{Source: identity.SourceLocal, Subject: "1"}))

	st := m.Store("s1")

	err := st.Refresh(context.Background())
	assert.ErrorIs(t, err, transient)

	// Initialized regardless, so guards do not loop forever.
	snap := st.Snapshot()
	assert.True(t, snap.Initialized)
	assert.False(t, snap.Authenticated)

	// The credential survives a transient failure.
	cred, loadErr := m.Credential("s1")
	require.NoError(t, loadErr)
	assert.NotNil(t, cred)
}

func TestInitializedIsMonotonic(t *testing.T) {
	client := acceptingClient()
	m := newTestManager(t, client)
	st := m.Store("s1")

	require.NoError(t, st.Refresh(context.Background()))
	require.True(t, st.Snapshot().Initialized)

	client.authenticateFn = func(_ context.Context, _ identity.Credentials) (*identity.User, *identity.Credential, error) {
		return nil, nil, identity.ErrInvalidCredentials
	}

	_ = st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "wrong"})
	assert.True(t, st.Snapshot().Initialized)

	require.NoError(t, st.Logout(context.Background()))
	assert.True(t, st.Snapshot().Initialized)
}

func TestWatchSeedsAndFollows(t *testing.T) {
	m := newTestManager(t, acceptingClient())
	st := m.Store("s1")

	ch, cancel := st.Watch()
	defer cancel()

	seed := <-ch
	assert.False(t, seed.Initialized)

	require.NoError(t, st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))

	// Snapshots coalesce, so drain until the settled state arrives.
	deadline := time.After(time.Second)

	for {
		select {
		case snap := <-ch:
			if snap.Authenticated && !snap.Loading {
				return
			}
		case <-deadline:
			t.Fatal("never observed the authenticated snapshot")
		}
	}
}

func TestWatchCancelStopsDelivery(t *testing.T) {
	m := newTestManager(t, acceptingClient())
	st := m.Store("s1")

	ch, cancel := st.Watch()
	<-ch
	cancel()

	require.NoError(t, st.Login(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("canceled watcher still received a snapshot")
		}
	default:
	}
}
