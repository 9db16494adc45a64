package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/eventsapi"
	"github.com/eventdeck/eventdeck/internal/identity"
	accesslog "github.com/eventdeck/eventdeck/internal/logger/adapter/fiber"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/web/handler/attendees"
	"github.com/eventdeck/eventdeck/internal/web/handler/callback"
	"github.com/eventdeck/eventdeck/internal/web/handler/cfp"
	"github.com/eventdeck/eventdeck/internal/web/handler/events"
	"github.com/eventdeck/eventdeck/internal/web/handler/login"
	"github.com/eventdeck/eventdeck/internal/web/handler/settings"
	"github.com/eventdeck/eventdeck/internal/web/handler/signout"
	"github.com/eventdeck/eventdeck/internal/web/handler/sponsorships"
	"github.com/eventdeck/eventdeck/internal/web/handler/unauthorized"
	"github.com/eventdeck/eventdeck/internal/web/notify"
)

// CheckAlivePath answers load balancer liveness probes.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, manager *session.Manager, flash *notify.Flash, oidc *identity.Client) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if manager == nil {
		panic("session manager cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := eventsapi.New(cfg.EventsAPI.BaseURL, cfg.EventsAPI.Timeout)

	// init handlers (they register their own routes with role checks)
	login.Handler.Init(app, cfg, manager, flash)
	callback.Handler.Init(app, cfg, manager, oidc)
	signout.Handler.Init(app, cfg, manager, flash)
	unauthorized.Handler.Init(app, cfg)
	events.Handler.Init(app, cfg, manager, api)
	cfp.Handler.Init(app, cfg, manager, api)
	attendees.Handler.Init(app, cfg, manager, api)
	sponsorships.Handler.Init(app, cfg, manager, api)
	settings.Handler.Init(app, cfg, manager, db, flash)

	// redirect root to the events overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(events.Path)
	})

	return service
}
