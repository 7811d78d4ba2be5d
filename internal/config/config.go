package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Toggl TogglConfig
	HTTP  HTTPConfig
}

// TogglConfig carries the upstream endpoint and credentials. Either an API
// token or a username/password pair must be supplied.
type TogglConfig struct {
	APIToken string
	Username string
	Password string
	BaseURL  string // default: https://api.track.toggl.com
}

// HTTPConfig tunes the transport.
type HTTPConfig struct {
	Cooldown time.Duration // minimum spacing between requests
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	cfg.Toggl.APIToken = os.Getenv("TOGGL_API_TOKEN")
	cfg.Toggl.Username = os.Getenv("TOGGL_USERNAME")
	cfg.Toggl.Password = os.Getenv("TOGGL_PASSWORD")
	cfg.Toggl.BaseURL = os.Getenv("TOGGL_BASE_URL")
	if cfg.Toggl.BaseURL == "" {
		cfg.Toggl.BaseURL = "https://api.track.toggl.com"
	}

	cfg.HTTP.Cooldown = time.Second
	if v := os.Getenv("TOGGL_REQUEST_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("TOGGL_REQUEST_COOLDOWN: %w", err)
		}
		cfg.HTTP.Cooldown = d
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Toggl.Validate(); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// Validate checks that usable credentials are present.
func (c *TogglConfig) Validate() error {
	if c.APIToken == "" && (c.Username == "" || c.Password == "") {
		return fmt.Errorf("either TOGGL_API_TOKEN or TOGGL_USERNAME and TOGGL_PASSWORD are required")
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
	)
}

// Validate bounds the cooldown; anything past a minute is a misconfiguration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Cooldown, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
	)
}
