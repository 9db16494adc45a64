// Package attendees provides the attendee roster page.
package attendees

import (
	"sort"
	"strings"

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
	// Path is the path to the attendees page.
	Path = "/attendees"

	// TemplateName is the attendees page template.
	TemplateName = "attendees/attendees"
)

// Row is one attendee prepared for template rendering.
type Row struct {
	eventsapi.Attendee
	Badge badge.Badge
}

// Service is the attendees handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	api     *eventsapi.Client
}

// Handler is the attendees handler.
var Handler = Service{}

// Init initializes the attendees handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *session.Manager, api *eventsapi.Client) {
	if app == nil || cfg == nil || manager == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager
	s.api = api

	app.Get(Path, guard.RequireAuthenticated(manager), s.Get)
}

// Get renders the attendee roster, optionally scoped to one event.
func (s *Service) Get(c *fiber.Ctx) error {
	user := guard.UserFromCtx(c)

	nav := navigation.NewContext("Attendees", navigation.SectionAttendees, user.Roles).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Attendees", Path, true)

	token, err := handler.BearerToken(s.manager, guard.SessionIDFromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load credential")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load credential")
	}

	eventID := c.Query("event")

	attendees, err := s.api.Attendees(c.UserContext(), token, eventID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch attendees")
		return c.Status(fiber.StatusBadGateway).SendString("Failed to fetch attendees: " + err.Error())
	}

	sort.Slice(attendees, func(i, j int) bool {
		return strings.ToLower(attendees[i].Name) < strings.ToLower(attendees[j].Name)
	})

	rows := make([]Row, 0, len(attendees))
	checkedIn := 0

	for _, att := range attendees {
		rows = append(rows, Row{Attendee: att, Badge: badge.ForCheckIn(att.CheckedIn)})

		if att.CheckedIn {
			checkedIn++
		}
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       user,
		"Attendees":  rows,
		"CheckedIn":  checkedIn,
		"EventID":    eventID,
	}, handler.BaseLayout)
}
