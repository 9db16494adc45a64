// Package login provides the unauthenticated entry point of the console.
package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/identity"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/web/handler"
	"github.com/eventdeck/eventdeck/internal/web/notify"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the login page template.
	TemplateName = "login"
)

var validate = validator.New()

// Form is the submitted login form.
type Form struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	flash   *notify.Flash
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *session.Manager, flash *notify.Flash) {
	if app == nil || cfg == nil || manager == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager
	s.flash = flash

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)
}

// Get renders the login page, including notifications queued for the
// session, e.g. a failed sign-out report.
func (s *Service) Get(c *fiber.Ctx) error {
	var notifications []notify.Notification
	if sessionID := c.Cookies(handler.SessionCookie); sessionID != "" && s.flash != nil {
		notifications = s.flash.Pop(sessionID)
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":         s.cfg.Title,
		"LocalEnabled":  s.cfg.Auth.Local.Enabled,
		"OIDCEnabled":   s.cfg.Auth.OIDC.Enabled,
		"Notifications": notifications,
	}, handler.BaseLayout)
}

// Post handles the login form submission. Authentication goes through the
// session store so the single-flight and state rules hold for interactive
// logins too.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.cfg.Auth.Local.Enabled {
		return s.renderError(c, "Local sign-in is disabled")
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderError(c, "Invalid form data")
	}

	if err := validate.Struct(form); err != nil {
		return s.renderError(c, "Username and password are required")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, "Internal server error")
	}

	st := s.manager.Store(sessionID)

	err = st.Login(c.UserContext(), identity.Credentials{
		Username: form.Username,
		Password: form.Password,
	})

	switch {
	case err == nil:
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrUserAccountDisabled):
		s.manager.Drop(sessionID)
		return s.renderError(c, "Invalid username or password")
	default:
		log.Error().Err(err).Msg("login failed")
		s.manager.Drop(sessionID)

		return s.renderError(c, "Internal server error")
	}

	s.setSessionCookie(c, sessionID)

	log.Info().Str("username", form.Username).Msg("user logged in")

	return c.Redirect(handler.RootPath)
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Title":        s.cfg.Title,
		"LocalEnabled": s.cfg.Auth.Local.Enabled,
		"OIDCEnabled":  s.cfg.Auth.OIDC.Enabled,
		"Error":        msg,
	}, handler.BaseLayout)
}

func (s *Service) setSessionCookie(c *fiber.Ctx, sessionID string) {
	cookie := &fiber.Cookie{
		Name:     handler.SessionCookie,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)
}
