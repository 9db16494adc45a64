package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/gofiber/storage"

	"github.com/eventdeck/eventdeck/internal/identity"
)

// Manager hands out one Store per session ID. Stores are created lazily in
// the uninitialized state and live until Drop; the credential blobs behind
// them live in the shared storage backend.
type Manager struct {
	mu      sync.Mutex
	stores  map[string]*Store
	backend storage.Storage
	client  IdentityClient
	ttl     time.Duration
}

// NewManager creates a session manager over the given storage backend.
// ttl bounds how long persisted credentials outlive their last write.
func NewManager(backend storage.Storage, client IdentityClient, ttl time.Duration) (*Manager, error) {
	if backend == nil {
		return nil, ErrStorageNil
	}

	return &Manager{
		stores:  make(map[string]*Store),
		backend: backend,
		client:  client,
		ttl:     ttl,
	}, nil
}

// Store returns the store for the given session ID, creating an
// uninitialized one on first sight.
func (m *Manager) Store(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.stores[sessionID]; ok {
		return st
	}

	st := newStore(m.client, newCredentialStore(m.backend, sessionID, m.ttl))
	m.stores[sessionID] = st

	return st
}

// SaveCredential persists a credential for the session before its store has
// refreshed, e.g. right after the OAuth code exchange at the callback route.
func (m *Manager) SaveCredential(sessionID string, cred *identity.Credential) error {
	return newCredentialStore(m.backend, sessionID, m.ttl).Save(cred)
}

// Credential loads the persisted credential for a session, if any. Handlers
// use it to attach the bearer token to outbound API calls.
func (m *Manager) Credential(sessionID string) (*identity.Credential, error) {
	return newCredentialStore(m.backend, sessionID, m.ttl).Load()
}

// Drop forgets the store for a session ID. Its persisted credential is left
// to the store's own Logout/expiry handling.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stores, sessionID)
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
