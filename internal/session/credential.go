package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/storage"

	"github.com/eventdeck/eventdeck/internal/identity"
)

const credentialKeyPrefix = "cred:"

// credentialStore persists one session's credential blob in the shared
// storage backend under a key derived from the session ID.
type credentialStore struct {
	storage storage.Storage
	key     string
	ttl     time.Duration
}

func newCredentialStore(backend storage.Storage, sessionID string, ttl time.Duration) *credentialStore {
	return &credentialStore{
		storage: backend,
		key:     credentialKeyPrefix + sessionID,
		ttl:     ttl,
	}
}

// Load reads the persisted credential. A missing entry is (nil, nil).
func (c *credentialStore) Load() (*identity.Credential, error) {
	raw, err := c.storage.Get(c.key)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, nil
	}

	cred := new(identity.Credential)
	if err = json.Unmarshal(raw, cred); err != nil {
		// A blob we can't decode is as good as no credential.
		return nil, nil
	}

	return cred, nil
}

// Save writes the credential with the configured expiry.
func (c *credentialStore) Save(cred *identity.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	return c.storage.Set(c.key, raw, c.ttl)
}

// Clear removes the persisted credential.
func (c *credentialStore) Clear() error {
	return c.storage.Delete(c.key)
}
