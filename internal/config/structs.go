package config

import (
	"time"

	"github.com/eventdeck/eventdeck/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration `toml:"expiryTime" env:"EXPIRY_TIME"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool   `toml:"devMode" env:"DEV_MODE"` // enable dev mode for development
	Title     string `toml:"title" env:"TITLE"`
	DB        DB     `toml:"db" envPrefix:"DB_"`
	Log       logger.Log
	Webserver Webserver `toml:"webserver" envPrefix:"WEBSERVER_"`
	Auth      Auth      `toml:"auth" envPrefix:"AUTH_"`
	EventsAPI EventsAPI `toml:"eventsApi" envPrefix:"EVENTS_API_"`
	Redis     Redis     `toml:"redis" envPrefix:"REDIS_"`
}

// DB holds the console database settings.
type DB struct {
	// Path to the sqlite database file.
	Path string `toml:"path" env:"PATH"`
}

// Webserver implements webserver settings.
type Webserver struct {
	Domain       string  `toml:"domain" env:"DOMAIN"`             // domain name for the webserver
	Port         int     `toml:"port" env:"PORT" validate:"gt=0"` // listening port for the webserver
	ShutDownTime int     `toml:"shutDownTime" env:"SHUTDOWN_TIME"`
	URL          string  `toml:"url" env:"URL" validate:"required"` // base url for the webserver
	Session      Session `toml:"session" envPrefix:"SESSION_"`
}

// Auth holds the authentication settings.
type Auth struct {
	Local LocalAuth `toml:"local" envPrefix:"LOCAL_"`
	OIDC  OIDCAuth  `toml:"oidc" envPrefix:"OIDC_"`
}

// LocalAuth enables username/password login against the console database.
type LocalAuth struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// OIDCAuth configures the redirect-based OIDC login flow.
type OIDCAuth struct {
	Enabled      bool     `toml:"enabled" env:"ENABLED"`
	ProviderURL  string   `toml:"providerUrl" env:"PROVIDER_URL"`
	ClientID     string   `toml:"clientId" env:"CLIENT_ID"`
	ClientSecret string   `toml:"clientSecret" env:"CLIENT_SECRET"`
	RedirectURL  string   `toml:"redirectUrl" env:"REDIRECT_URL"`
	Scopes       []string `toml:"scopes" env:"SCOPES"`
	RolesClaim   string   `toml:"rolesClaim" env:"ROLES_CLAIM"`
}

// EventsAPI points the console at the remote events API.
type EventsAPI struct {
	BaseURL string        `toml:"baseUrl" env:"BASE_URL" validate:"required"`
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// Redis configures the credential storage backend. When disabled the
// console falls back to in-process storage.
type Redis struct {
	Enabled  bool   `toml:"enabled" env:"ENABLED"`
	Addr     string `toml:"addr" env:"ADDR"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
}
