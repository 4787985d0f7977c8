// Package config loads automize settings.
//
// Settings are resolved in three layers: built-in defaults, the TOML file at
// $XDG_CONFIG_HOME/automize/config.toml (with ${VAR} expansion), then
// AUTOMIZE_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/automize/automize/internal/xdg"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides (AUTOMIZE_API_URL, ...).
const EnvPrefix = "AUTOMIZE"

// DefaultAPIURL is the Auth Service base URL used when nothing else is set.
const DefaultAPIURL = "http://localhost:4000/api/v1"

// Config holds the resolved settings.
type Config struct {
	// APIURL is the Auth Service base URL, including the version prefix.
	APIURL string `toml:"api_url" envconfig:"API_URL"`

	// Port is the web UI listen port.
	Port int `toml:"port" envconfig:"PORT"`

	// CookieSecret signs the session cookie. Generated per process when empty,
	// which logs every browser out on restart.
	CookieSecret string `toml:"cookie_secret" envconfig:"COOKIE_SECRET"`

	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool `toml:"cookie_secure" envconfig:"COOKIE_SECURE"`

	// DatabasePath is the saved-configuration library file.
	DatabasePath string `toml:"database_path" envconfig:"DATABASE_PATH"`

	// SentryDSN enables error reporting when set.
	SentryDSN string `toml:"sentry_dsn" envconfig:"SENTRY_DSN"`

	// LogLevel is the zerolog level name.
	LogLevel string `toml:"log_level" envconfig:"LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIURL:       DefaultAPIURL,
		Port:         8999,
		DatabasePath: xdg.LibraryPath(),
		LogLevel:     "warn",
	}
}

// Path returns the settings file location.
func Path() string {
	return xdg.SettingsPath()
}

// Load resolves settings from defaults, the settings file and the environment.
// A missing settings file is not an error.
func Load() (*Config, error) {
	cfg, err := LoadFile(Path())
	if err != nil {
		return nil, err
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadFile layers the settings file at path over the defaults without
// consulting the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if _, err := toml.Decode(expandEnvVars(string(data)), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("api_url must include a host")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// Keys lists the settings that can be read and written by name.
var Keys = []string{"api_url", "port", "cookie_secret", "cookie_secure", "database_path", "sentry_dsn", "log_level"}

// Get returns the setting named key formatted as text.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "port":
		return fmt.Sprint(c.Port), nil
	case "cookie_secret":
		return c.CookieSecret, nil
	case "cookie_secure":
		return fmt.Sprint(c.CookieSecure), nil
	case "database_path":
		return c.DatabasePath, nil
	case "sentry_dsn":
		return c.SentryDSN, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", unknownKey(key)
	}
}

// Set parses value into the setting named key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = strings.TrimRight(value, "/")
	case "port":
		var port int
		if _, err := fmt.Sscan(value, &port); err != nil {
			return fmt.Errorf("invalid port %q", value)
		}
		c.Port = port
	case "cookie_secret":
		c.CookieSecret = value
	case "cookie_secure":
		switch value {
		case "true":
			c.CookieSecure = true
		case "false":
			c.CookieSecure = false
		default:
			return fmt.Errorf("invalid cookie_secure %q: must be true or false", value)
		}
	case "database_path":
		c.DatabasePath = value
	case "sentry_dsn":
		c.SentryDSN = value
	case "log_level":
		c.LogLevel = value
	default:
		return unknownKey(key)
	}
	return c.Validate()
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (supported: %s)", key, strings.Join(Keys, ", "))
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(name)
	})
}
