// Package sponsorships provides the sponsorship pipeline page.
package sponsorships

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/eventsapi"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/web/badge"
	"github.com/eventdeck/eventdeck/internal/web/guard"
	"github.com/eventdeck/eventdeck/internal/web/handler"
	"github.com/eventdeck/eventdeck/internal/web/navigation"
)

const (
	// Path is the path to the sponsorships page.
	Path = "/sponsorships"

	// TemplateName is the sponsorships page template.
	TemplateName = "sponsorships/sponsorships"
)

// Roles allowed to view the sponsorship pipeline.
var requiredRoles = []string{"organizer", "admin"}

// Row is one sponsorship prepared for template rendering.
type Row struct {
	eventsapi.Sponsorship
	Badge badge.Badge
}

// Service is the sponsorships handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	api     *eventsapi.Client
}

// Handler is the sponsorships handler.
var Handler = Service{}

// Init initializes the sponsorships handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *session.Manager, api *eventsapi.Client) {
	if app == nil || cfg == nil || manager == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager
	s.api = api

	app.Get(Path, guard.RequireAnyRole(manager, requiredRoles...), s.Get)
}

// Get renders the sponsorship pipeline, optionally scoped to one event.
func (s *Service) Get(c *fiber.Ctx) error {
	user := guard.UserFromCtx(c)

	nav := navigation.NewContext("Sponsorships", navigation.SectionSponsorships, user.Roles).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Sponsorships", Path, true)

	token, err := handler.BearerToken(s.manager, guard.SessionIDFromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load credential")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load credential")
	}

	eventID := c.Query("event")

	sponsorships, err := s.api.Sponsorships(c.UserContext(), token, eventID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch sponsorships")
		return c.Status(fiber.StatusBadGateway).SendString("Failed to fetch sponsorships: " + err.Error())
	}

	// Largest commitments first.
	sort.Slice(sponsorships, func(i, j int) bool {
		return sponsorships[i].Amount > sponsorships[j].Amount
	})

	rows := make([]Row, 0, len(sponsorships))
	total := 0

	for _, sp := range sponsorships {
		rows = append(rows, Row{Sponsorship: sp, Badge: badge.ForSponsorship(sp.Status)})

		if sp.Status == "paid" || sp.Status == "committed" {
			total += sp.Amount
		}
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":        s.cfg.Title,
		"Navigation":   nav,
		"User":         user,
		"Sponsorships": rows,
		"Total":        total,
		"EventID":      eventID,
	}, handler.BaseLayout)
}
