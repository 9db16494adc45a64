// Package config handles input from etc/*.toml files with environment overrides.
package config

import (
	"bytes"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const envPrefix = "EVENTDECK_"

var validate = validator.New()

// ReadConfig reads the config file and applies environment overrides.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	if _, err := toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, errors.Wrap(err, "failed to apply environment overrides")
	}

	applyDefaults(&c)

	if err := validate.Struct(c); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}

	return c, nil
}

func applyDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // seconds
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = 12 * time.Hour
	}

	if c.EventsAPI.Timeout == 0 {
		c.EventsAPI.Timeout = 30 * time.Second
	}

	if c.Title == "" {
		c.Title = "EventDeck"
	}

	if c.Log.LogLevel == "" {
		c.Log.LogLevel = "info"
	}

	if c.Log.AppName == "" {
		c.Log.AppName = "eventdeck"
	}

	if c.Log.ServiceName == "" {
		c.Log.ServiceName = "eventdeck"
	}

	if !c.Log.Console.Enabled && !c.Log.File.Enabled {
		c.Log.Console.Enabled = true
	}
}

// DumpConfig returns the config as a TOML string.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}
