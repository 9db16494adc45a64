package signout

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/eventdeck/eventdeck/internal/web/notify"
)

// ErrSignOutPending is returned when an activation arrives while a sign-out
// is already running. Duplicate activations are no-ops.
var ErrSignOutPending = errors.New("sign-out already pending")

// Control is the single-flight sign-out action for one session.
//
// From idle, an activation transitions to pending and runs the logout
// exactly once; activations while pending do nothing. A successful sign-out
// leaves the control pending, since the session is gone and the browser is
// navigated away. A failed sign-out surfaces a destructive notification and
// returns the control to idle so the user can retry; failure never leaves
// the control stuck disabled.
type Control struct {
	mu      sync.Mutex
	pending bool
	closed  bool

	logout   func(ctx context.Context) error
	notifier notify.Notifier
}

// NewControl creates an idle control around the given logout operation.
func NewControl(logout func(ctx context.Context) error, notifier notify.Notifier) *Control {
	return &Control{logout: logout, notifier: notifier}
}

// Trigger activates the control. It invokes the logout at most once per
// idle-to-pending transition, no matter how many concurrent activations
// race; the duplicates get ErrSignOutPending.
func (c *Control) Trigger(ctx context.Context) error {
	c.mu.Lock()

	if c.pending {
		c.mu.Unlock()
		return ErrSignOutPending
	}

	c.pending = true
	c.mu.Unlock()

	err := c.logout(ctx)
	if err == nil {
		return nil
	}

	log.Error().Err(err).Msg("sign-out failed")

	c.mu.Lock()
	closed := c.closed

	if !closed {
		c.pending = false
	}
	c.mu.Unlock()

	// The shared session state was already cleared by the store; only the
	// control's own state is skipped once it has been torn down.
	if !closed && c.notifier != nil {
		c.notifier.Notify(notify.Notification{
			Title:       "Sign-out failed",
			Description: "The server could not be reached to end your session. You have been signed out locally; try again to retry the server call.",
			Severity:    notify.SeverityDestructive,
		})
	}

	return err
}

// Pending reports whether a sign-out is currently running or has succeeded.
func (c *Control) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pending
}

// Close marks the control as torn down. A logout completing afterwards no
// longer mutates the control or emits notifications.
func (c *Control) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}
