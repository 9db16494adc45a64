package handler

import (
	"github.com/eventdeck/eventdeck/internal/session"
)

// BearerToken loads the persisted credential for a session and returns its
// access token. An absent credential yields an empty token, not an error;
// the remote API decides whether anonymous access is acceptable.
func BearerToken(manager *session.Manager, sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}

	cred, err := manager.Credential(sessionID)
	if err != nil {
		return "", err
	}

	if cred == nil {
		return "", nil
	}

	return cred.AccessToken, nil
}
