// Package daemon wires the console's storage, identity and web layers
// together and runs them.
package daemon

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/db/models"
	"github.com/eventdeck/eventdeck/internal/identity"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/storage/memory"
	"github.com/eventdeck/eventdeck/internal/storage/redis"
	"github.com/eventdeck/eventdeck/internal/web"
	"github.com/eventdeck/eventdeck/internal/web/notify"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service has shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.DB.Path), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	backend := newStorageBackend(cfg)

	var oidcClient *identity.Client

	if cfg.Auth.OIDC.Enabled {
		oidcClient, err = identity.NewClient(context.Background(), &identity.OIDCConfig{
			Enabled:      true,
			ProviderURL:  cfg.Auth.OIDC.ProviderURL,
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURL,
			Scopes:       cfg.Auth.OIDC.Scopes,
			RolesClaim:   cfg.Auth.OIDC.RolesClaim,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize the identity provider client")
			return nil
		}
	}

	var localProvider *identity.LocalProvider
	if cfg.Auth.Local.Enabled {
		localProvider = identity.NewLocalProvider(db)
	}

	idSvc := identity.NewService(localProvider, oidcClient, cfg.Webserver.Session.ExpiryTime)

	manager, err := session.NewManager(backend, idSvc, cfg.Webserver.Session.ExpiryTime)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize the session manager")
		return nil
	}

	flash := notify.NewFlash(backend, cfg.Webserver.Session.ExpiryTime)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, manager, flash, oidcClient),
	}
}

func newStorageBackend(cfg *config.Config) storage.Storage {
	if !cfg.Redis.Enabled {
		return memory.New()
	}

	backend, err := redis.New(redis.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: "eventdeck:",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
		return nil
	}

	return backend
}
