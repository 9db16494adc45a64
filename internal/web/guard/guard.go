package guard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/eventdeck/eventdeck/internal/identity"
	"github.com/eventdeck/eventdeck/internal/session"
)

// Action is the outcome of evaluating a session snapshot against a route.
type Action int

const (
	// ActionWait means the store has not settled; render a placeholder and
	// issue no redirect.
	ActionWait Action = iota
	// ActionRedirectLogin means the principal is not authenticated.
	ActionRedirectLogin
	// ActionRedirectUnauthorized means the principal is authenticated but
	// holds none of the required roles.
	ActionRedirectUnauthorized
	// ActionAllow means the protected content may render.
	ActionAllow
)

// Locals keys populated for downstream handlers.
const (
	// LocalUser holds the *identity.User of the authenticated principal.
	LocalUser = "CurrentUser"
	// LocalSessionID holds the request's session ID.
	LocalSessionID = "SessionID"
)

// Config configures one guard instance.
type Config struct {
	// Manager resolves session stores by session ID.
	Manager *session.Manager
	// RequiredRoles restricts the route to users holding at least one of
	// these roles. Empty means authentication alone suffices.
	RequiredRoles []string
	// CookieName is the session cookie name. Default "session".
	CookieName string
	// LoginPath is the unauthenticated redirect target. Default "/login".
	LoginPath string
	// UnauthorizedPath is the insufficient-role redirect target.
	// Default "/unauthorized".
	UnauthorizedPath string
}

func (cfg *Config) setDefaults() {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	if cfg.UnauthorizedPath == "" {
		cfg.UnauthorizedPath = "/unauthorized"
	}
}

// Evaluate decides what to do with a request given a session snapshot and
// the route's role requirement. It never redirects while the store has not
// initialized, preventing a flash of "not authenticated" before the first
// determination completes.
func Evaluate(snap session.Snapshot, requiredRoles []string) Action {
	if !snap.Initialized || snap.Loading {
		return ActionWait
	}

	if !snap.Authenticated {
		return ActionRedirectLogin
	}

	if len(requiredRoles) > 0 && !snap.User.HasAnyRole(requiredRoles...) {
		return ActionRedirectUnauthorized
	}

	return ActionAllow
}

// New creates the guard middleware for the given config.
func New(cfg Config) fiber.Handler {
	cfg.setDefaults()

	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cfg.CookieName)
		if sessionID == "" {
			return c.Redirect(cfg.LoginPath)
		}

		st := cfg.Manager.Store(sessionID)

		snap := st.Snapshot()
		if !snap.Initialized && !snap.Loading {
			if err := st.Refresh(c.UserContext()); err != nil && !errors.Is(err, session.ErrOperationInFlight) {
				log.Warn().Err(err).Msg("session refresh failed")
			}

			snap = st.Snapshot()
		}

		switch Evaluate(snap, cfg.RequiredRoles) {
		case ActionWait:
			return c.Status(fiber.StatusAccepted).Render("processing", fiber.Map{
				"Title":   "Signing you in",
				"Refresh": c.OriginalURL(),
			})
		case ActionRedirectLogin:
			return c.Redirect(cfg.LoginPath)
		case ActionRedirectUnauthorized:
			return c.Redirect(cfg.UnauthorizedPath)
		case ActionAllow:
		}

		c.Locals(LocalUser, snap.User)
		c.Locals(LocalSessionID, sessionID)

		return c.Next()
	}
}

// UserFromCtx returns the authenticated user set by the guard, or nil when
// the request did not pass through it.
func UserFromCtx(c *fiber.Ctx) *identity.User {
	user, _ := c.Locals(LocalUser).(*identity.User)
	return user
}

// SessionIDFromCtx returns the session ID set by the guard.
func SessionIDFromCtx(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(LocalSessionID).(string)
	return sessionID
}

// RequireAuthenticated guards a route behind authentication only.
func RequireAuthenticated(m *session.Manager) fiber.Handler {
	return New(Config{Manager: m})
}

// RequireAnyRole guards a route behind authentication plus at least one of
// the given roles.
func RequireAnyRole(m *session.Manager, roles ...string) fiber.Handler {
	return New(Config{Manager: m, RequiredRoles: roles})
}
