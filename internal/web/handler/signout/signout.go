// Package signout ends the current session through the session store.
package signout

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/web/handler"
	"github.com/eventdeck/eventdeck/internal/web/handler/login"
	"github.com/eventdeck/eventdeck/internal/web/notify"
)

// Path is the sign-out route.
const Path = handler.RootPath + "logout"

// Service is the sign-out handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	flash   *notify.Flash

	mu       sync.Mutex
	controls map[string]*Control
}

// Handler is the sign-out handler.
var Handler = Service{
	controls: make(map[string]*Control),
}

// Init initializes the sign-out handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *session.Manager, flash *notify.Flash) {
	if app == nil || cfg == nil || manager == nil || flash == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager
	s.flash = flash

	// Sign-out must stay reachable without passing the route guard.
	app.Post(Path, s.SignOut)
	app.Get(Path, s.SignOut)
}

// SignOut runs the single-flight sign-out for the request's session and
// redirects to the login page. The local session is cleared even when the
// remote call fails; in that case a destructive notification is queued for
// the login page and the control is re-enabled for retry.
func (s *Service) SignOut(c *fiber.Ctx) error {
	sessionID := c.Cookies(handler.SessionCookie)
	if sessionID == "" {
		return c.Redirect(login.Path)
	}

	ctl := s.control(sessionID)

	err := ctl.Trigger(c.UserContext())

	switch {
	case errors.Is(err, ErrSignOutPending):
		// Duplicate activation; the first one owns the transition.
		return c.Redirect(login.Path)
	case err != nil:
		// Locally signed out, server not confirmed. The control queued the
		// notification; keep the cookie so the login page can show it.
		return c.Redirect(login.Path)
	}

	s.drop(sessionID)
	s.clearSessionCookie(c)

	return c.Redirect(login.Path)
}

// control returns the sign-out control for a session, creating it bound to
// the session store's logout on first activation.
func (s *Service) control(sessionID string) *Control {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctl, ok := s.controls[sessionID]; ok {
		return ctl
	}

	st := s.manager.Store(sessionID)

	ctl := NewControl(func(ctx context.Context) error {
		return st.Logout(ctx)
	}, s.flash.For(sessionID))

	s.controls[sessionID] = ctl

	return ctl
}

func (s *Service) drop(sessionID string) {
	s.mu.Lock()

	if ctl, ok := s.controls[sessionID]; ok {
		ctl.Close()
		delete(s.controls, sessionID)
	}
	s.mu.Unlock()

	s.manager.Drop(sessionID)
}

func (s *Service) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     handler.SessionCookie,
		Value:    "",
		MaxAge:   -1,
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
