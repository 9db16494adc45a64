// Package unauthorized renders the insufficient-role page.
package unauthorized

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/web/handler"
)

const (
	// Path is the path to the unauthorized page.
	Path = "/unauthorized"

	// TemplateName is the unauthorized page template.
	TemplateName = "unauthorized"
)

// Service is the unauthorized handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the unauthorized handler.
var Handler = Service{}

// Init initializes the unauthorized handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config) {
	if app == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg

	app.Get(Path, s.Get)
}

// Get renders the unauthorized page. The route sits outside the guard so a
// redirect here never loops back through role evaluation.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	}, handler.BaseLayout)
}
