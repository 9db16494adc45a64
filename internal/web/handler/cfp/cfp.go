// Package cfp provides the call-for-papers review page.
package cfp

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
	// Path is the path to the call-for-papers page.
	Path = "/cfp"

	// TemplateName is the call-for-papers page template.
	TemplateName = "cfp/cfp"
)

// Row is one submission prepared for template rendering.
type Row struct {
	eventsapi.Submission
	Badge badge.Badge
}

// Service is the call-for-papers handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	api     *eventsapi.Client
}

// Handler is the call-for-papers handler.
var Handler = Service{}

// Init initializes the call-for-papers handler and registers its routes.
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

// Get renders the submission list, optionally scoped to one event via the
// "event" query parameter.
func (s *Service) Get(c *fiber.Ctx) error {
	user := guard.UserFromCtx(c)

	nav := navigation.NewContext("Call for Papers", navigation.SectionCFP, user.Roles).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Call for Papers", Path, true)

	token, err := handler.BearerToken(s.manager, guard.SessionIDFromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load credential")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load credential")
	}

	eventID := c.Query("event")

	submissions, err := s.api.Submissions(c.UserContext(), token, eventID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch submissions")
		return c.Status(fiber.StatusBadGateway).SendString("Failed to fetch submissions: " + err.Error())
	}

	// Newest first.
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})

	rows := make([]Row, 0, len(submissions))
	for _, sub := range submissions {
		rows = append(rows, Row{Submission: sub, Badge: badge.ForSubmission(sub.Status)})
	}

	return c.Render(TemplateName, fiber.Map{
		"Title":       s.cfg.Title,
		"Navigation":  nav,
		"User":        user,
		"Submissions": rows,
		"EventID":     eventID,
	}, handler.BaseLayout)
}
