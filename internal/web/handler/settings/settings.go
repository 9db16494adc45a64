// Package settings provides the console settings page.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/db/controller/setting"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/web/guard"
	"github.com/eventdeck/eventdeck/internal/web/handler"
	"github.com/eventdeck/eventdeck/internal/web/navigation"
	"github.com/eventdeck/eventdeck/internal/web/notify"
)

const (
	// Path is the path to the settings page.
	Path = "/settings"

	// TemplateName is the settings page template.
	TemplateName = "settings/settings"
)

var validate = validator.New()

// Form is the submitted setting form.
type Form struct {
	Name  string `form:"name" validate:"required"`
	Value string `form:"value"`
}

// Service is the settings handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	db      *gorm.DB
	flash   *notify.Flash
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *session.Manager, db *gorm.DB, flash *notify.Flash) {
	if app == nil || cfg == nil || manager == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager
	s.db = db
	s.flash = flash

	adminOnly := guard.RequireAnyRole(manager, "admin")

	app.Get(Path, adminOnly, s.Get)
	app.Post(Path, adminOnly, s.Post)
	app.Post(Path+"/delete", adminOnly, s.Delete)
}

// Get renders the settings list.
func (s *Service) Get(c *fiber.Ctx) error {
	user := guard.UserFromCtx(c)

	nav := navigation.NewContext("Settings", navigation.SectionSettings, user.Roles).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Settings", Path, true)

	settings, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	var notifications []notify.Notification
	if s.flash != nil {
		notifications = s.flash.Pop(guard.SessionIDFromCtx(c))
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":         s.cfg.Title,
		"Navigation":    nav,
		"User":          user,
		"Settings":      settings,
		"Notifications": notifications,
	}, handler.BaseLayout)
}

// Post creates or updates a setting.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form data")
	}

	if err := validate.Struct(form); err != nil {
		s.notify(c, notify.SeverityDestructive, "Invalid setting", "A setting name is required")
		return c.Redirect(Path)
	}

	if _, err := setting.Set(s.db, form.Name, []byte(form.Value)); err != nil {
		log.Error().Err(err).Str("name", form.Name).Msg("failed to save setting")
		s.notify(c, notify.SeverityDestructive, "Save failed", err.Error())

		return c.Redirect(Path)
	}

	log.Info().Str("name", form.Name).Msg("setting saved")
	s.notify(c, notify.SeveritySuccess, "Setting saved", form.Name)

	return c.Redirect(Path)
}

// Delete removes a setting by name.
func (s *Service) Delete(c *fiber.Ctx) error {
	name := c.FormValue("name")

	err := setting.Delete(s.db, name)

	switch {
	case err == nil:
		s.notify(c, notify.SeveritySuccess, "Setting deleted", name)
	case errors.Is(err, setting.ErrSettingNotFound), errors.Is(err, setting.ErrSettingNameEmpty):
		s.notify(c, notify.SeverityDestructive, "Delete failed", "Setting not found")
	default:
		log.Error().Err(err).Str("name", name).Msg("failed to delete setting")
		s.notify(c, notify.SeverityDestructive, "Delete failed", err.Error())
	}

	return c.Redirect(Path)
}

func (s *Service) notify(c *fiber.Ctx, severity notify.Severity, title, description string) {
	if s.flash == nil {
		return
	}

	s.flash.For(guard.SessionIDFromCtx(c)).Notify(notify.Notification{
		Title:       title,
		Description: description,
		Severity:    severity,
	})
}
