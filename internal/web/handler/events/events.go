// Package events provides the events overview page.
package events

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
	// Path is the path to the events page.
	Path = "/events"

	// TemplateName is the events page template.
	TemplateName = "events/events"
)

// Row is one event prepared for template rendering.
type Row struct {
	eventsapi.Event
	Badge badge.Badge
}

// Service is the events handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	api     *eventsapi.Client
}

// Handler is the events handler.
var Handler = Service{}

// Init initializes the events handler and registers its routes.
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

// Get renders the events overview.
func (s *Service) Get(c *fiber.Ctx) error {
	user := guard.UserFromCtx(c)

	nav := navigation.NewContext("Events", navigation.SectionEvents, user.Roles).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Events", Path, true)

	token, err := handler.BearerToken(s.manager, guard.SessionIDFromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load credential")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load credential")
	}

	events, err := s.api.Events(c.UserContext(), token)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch events")
		return c.Status(fiber.StatusBadGateway).SendString("Failed to fetch events: " + err.Error())
	}

	if search := c.Query("search"); search != "" {
		events = filterEvents(events, search)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.After(events[j].StartsAt)
	})

	rows := make([]Row, 0, len(events))
	for _, ev := range events {
		rows = append(rows, Row{Event: ev, Badge: badge.ForEvent(ev.Status)})
	}

	log.Debug().Int("events", len(rows)).Msg("events page rendered")

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       user,
		"Events":     rows,
		"Search":     c.Query("search"),
	}, handler.BaseLayout)
}

func filterEvents(events []eventsapi.Event, search string) []eventsapi.Event {
	search = strings.ToLower(search)
	filtered := make([]eventsapi.Event, 0, len(events))

	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Title), search) ||
			strings.Contains(strings.ToLower(ev.Location), search) {
			filtered = append(filtered, ev)
		}
	}

	return filtered
}
