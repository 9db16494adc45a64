package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eventdeck/eventdeck/internal/identity"
)

// IdentityClient is the slice of the identity service the store consumes.
type IdentityClient interface {
	Authenticate(ctx context.Context, creds identity.Credentials) (*identity.User, *identity.Credential, error)
	Resolve(ctx context.Context, cred *identity.Credential) (*identity.User, error)
	EndSession(ctx context.Context, cred *identity.Credential) error
}

// Snapshot is an immutable view of a store's state at one point in time.
type Snapshot struct {
	// Initialized is true once the store has made its first determination of
	// auth status. It never transitions back to false.
	Initialized bool
	// Authenticated is meaningful only when Initialized is true.
	Authenticated bool
	// Loading is true while a login, logout or refresh is in flight.
	Loading bool
	// User is present iff Authenticated is true.
	User *identity.User
}

// Store holds the authentication state for a single browser session.
// All fields are guarded by mu; consumers read through Snapshot and mutate
// only through Login, Logout and Refresh.
type Store struct {
	mu            sync.Mutex
	initialized   bool
	authenticated bool
	loading       bool
	user          *identity.User

	client IdentityClient
	creds  *credentialStore

	watchers  map[uint64]chan Snapshot
	nextWatch uint64
}

func newStore(client IdentityClient, creds *credentialStore) *Store {
	return &Store{
		client:   client,
		creds:    creds,
		watchers: make(map[uint64]chan Snapshot),
	}
}

// Snapshot returns the current state. The contained user pointer is shared
// and must be treated as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Watch subscribes to state changes. The returned channel carries coalesced
// snapshots (latest wins) starting with the current state. The cancel
// function must be called when the observer goes away; after cancel no
// further sends happen, so a torn-down observer is never mutated.
func (s *Store) Watch() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextWatch
	s.nextWatch++

	ch := make(chan Snapshot, 1)
	ch <- s.snapshotLocked()
	s.watchers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}

	return ch, cancel
}

// Login authenticates interactively, persists the resulting credential and
// transitions the store to authenticated. On failure the store keeps its
// previous auth state and the typed error is returned to the caller.
func (s *Store) Login(ctx context.Context, creds identity.Credentials) error {
	if err := s.begin(); err != nil {
		return err
	}

	user, cred, err := s.client.Authenticate(ctx, creds)
	if err != nil {
		s.apply(func() { s.loading = false })
		return err
	}

	if err = s.creds.Save(cred); err != nil {
		s.apply(func() { s.loading = false })
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	s.apply(func() {
		s.initialized = true
		s.authenticated = true
		s.user = user
		s.loading = false
	})

	return nil
}

// Logout ends the session. Local auth state is cleared regardless of the
// remote outcome; stale client-side auth is the worse failure mode. The
// remote error, if any, is returned so the caller can report it. Logging out
// an already unauthenticated store is a no-op that succeeds.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()

	if s.loading {
		s.mu.Unlock()
		return ErrOperationInFlight
	}

	if !s.authenticated {
		s.mu.Unlock()
		return nil
	}

	s.loading = true
	s.publishLocked()
	s.mu.Unlock()

	var remoteErr error

	cred, loadErr := s.creds.Load()
	if loadErr == nil && cred != nil {
		remoteErr = s.client.EndSession(ctx, cred)
	}

	clearErr := s.creds.Clear()

	s.apply(func() {
		s.authenticated = false
		s.user = nil
		s.loading = false
	})

	if remoteErr != nil {
		return fmt.Errorf("remote sign-out failed: %w", remoteErr)
	}

	if clearErr != nil {
		return fmt.Errorf("failed to clear credential: %w", clearErr)
	}

	return nil
}

// Refresh re-derives the auth state from the persisted credential without
// user interaction. After the first Refresh the store is initialized, no
// matter the outcome: a missing, expired or rejected credential resolves to
// unauthenticated without error, and only transient failures are returned.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}

	cred, err := s.creds.Load()
	if err != nil {
		s.settleUnauthenticated()
		return fmt.Errorf("failed to load credential: %w", err)
	}

	if cred == nil {
		s.settleUnauthenticated()
		return nil
	}

	user, err := s.client.Resolve(ctx, cred)
	if err != nil {
		s.settleUnauthenticated()

		if isAuthRejection(err) {
			// Dead credential, not a failure. Drop it so the next
			// refresh skips the round trip.
			_ = s.creds.Clear()
			return nil
		}

		return fmt.Errorf("failed to resolve credential: %w", err)
	}

	s.apply(func() {
		s.initialized = true
		s.authenticated = true
		s.user = user
		s.loading = false
	})

	return nil
}

// begin marks a mutating operation as in flight, rejecting concurrent ones.
func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return ErrOperationInFlight
	}

	s.loading = true
	s.publishLocked()

	return nil
}

// apply runs a state mutation under the lock and notifies watchers.
func (s *Store) apply(mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate()
	s.publishLocked()
}

func (s *Store) settleUnauthenticated() {
	s.apply(func() {
		s.initialized = true
		s.authenticated = false
		s.user = nil
		s.loading = false
	})
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Initialized:   s.initialized,
		Authenticated: s.authenticated,
		Loading:       s.loading,
		User:          s.user,
	}
}

// publishLocked pushes the current snapshot to every watcher, replacing an
// undelivered older snapshot so slow observers never block a transition.
func (s *Store) publishLocked() {
	snap := s.snapshotLocked()

	for _, ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// isAuthRejection reports whether a resolve error means "this credential is
// no longer valid" as opposed to a transient failure.
func isAuthRejection(err error) bool {
	return errors.Is(err, identity.ErrCredentialExpired) ||
		errors.Is(err, identity.ErrUserNotFound) ||
		errors.Is(err, identity.ErrUserAccountDisabled) ||
		errors.Is(err, identity.ErrUnknownCredentialSource)
}
