// Package notify carries user-visible notifications between requests.
//
// Handlers push notifications through the Notifier capability; templates pop
// and render them on the next page load. The rendering itself is left to the
// templates.
package notify

import (
	"encoding/json"
	"time"

	"github.com/gofiber/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Severity classifies a notification for rendering.
type Severity string

const (
	// SeverityInfo is a neutral informational message.
	SeverityInfo Severity = "info"
	// SeveritySuccess reports a completed action.
	SeveritySuccess Severity = "success"
	// SeverityDestructive reports a failure the user should act on.
	SeverityDestructive Severity = "destructive"
)

// Notification is a single user-visible message.
type Notification struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Notifier is the capability handlers use to surface a notification.
type Notifier interface {
	Notify(n Notification)
}

const flashKeyPrefix = "flash:"

// Flash queues notifications per session in the shared storage backend.
type Flash struct {
	storage storage.Storage
	ttl     time.Duration
}

// NewFlash creates a flash queue over the given storage backend.
func NewFlash(backend storage.Storage, ttl time.Duration) *Flash {
	return &Flash{storage: backend, ttl: ttl}
}

// For binds the flash queue to one session, yielding a Notifier.
func (f *Flash) For(sessionID string) Notifier {
	return &sessionNotifier{flash: f, sessionID: sessionID}
}

// Pop returns and clears the pending notifications for a session.
func (f *Flash) Pop(sessionID string) []Notification {
	key := flashKeyPrefix + sessionID

	raw, err := f.storage.Get(key)
	if err != nil || len(raw) == 0 {
		return nil
	}

	_ = f.storage.Delete(key)

	var pending []Notification
	if err = json.Unmarshal(raw, &pending); err != nil {
		return nil
	}

	return pending
}

func (f *Flash) push(sessionID string, n Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	key := flashKeyPrefix + sessionID

	var pending []Notification
	if raw, err := f.storage.Get(key); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &pending)
	}

	pending = append(pending, n)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}

	if err = f.storage.Set(key, raw, f.ttl); err != nil {
		log.Error().Err(err).Msg("failed to queue notification")
	}
}

type sessionNotifier struct {
	flash     *Flash
	sessionID string
}

func (s *sessionNotifier) Notify(n Notification) {
	s.flash.push(s.sessionID, n)
}
