// Package config loads the shop configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"

	devCookieSecret = "ninjacoders-dev-secret"
)

// Config represents the complete shop configuration
type Config struct {
	Service ServiceConfig `yaml:"service"`
	HTTP    HTTPConfig    `yaml:"http"`
	Session SessionConfig `yaml:"session"`
	Mail    MailConfig    `yaml:"mail"`
	Store   StoreConfig   `yaml:"store"`
	Events  EventsConfig  `yaml:"events"`
	Uploads UploadsConfig `yaml:"uploads"`
}

type ServiceConfig struct {
	// Name is reported in logs and as the tracer name
	Name string `yaml:"name"`
	// Env is development or production
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	// LogFile duplicates logs to a file for local debugging
	LogFile string `yaml:"log_file"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// PublicDir holds static assets served at /
	PublicDir string `yaml:"public_dir"`
	// AllowedOrigins configures CORS on /api routes
	AllowedOrigins []string `yaml:"allowed_origins"`
	// MaxUploadBytes caps multipart request bodies
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

type SessionConfig struct {
	CookieSecret string        `yaml:"cookie_secret"`
	SecureCookie bool          `yaml:"secure_cookie"`
	TTL          time.Duration `yaml:"ttl"`
}

type MailConfig struct {
	// SendGridAPIKey enables real delivery; empty logs mails instead
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
}

type StoreConfig struct {
	// Driver is memory or sqlite
	Driver       string `yaml:"driver"`
	DatabasePath string `yaml:"database_path"`
}

type EventsConfig struct {
	// NATSURL enables forwarding events to NATS when set
	NATSURL string `yaml:"nats_url"`
}

type UploadsConfig struct {
	// Dir is where contest photos are stored, partitioned by year/month
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with development defaults
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "ninjacoders",
			Env:      "development",
			LogLevel: "info",
		},
		HTTP: HTTPConfig{
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			PublicDir:       "public",
			MaxUploadBytes:  20 << 20,
		},
		Session: SessionConfig{
			CookieSecret: devCookieSecret,
			TTL:          24 * time.Hour,
		},
		Mail: MailConfig{
			From: "noreply@ninjacoders.dev",
		},
		Store: StoreConfig{
			Driver:       DriverMemory,
			DatabasePath: "ninjacoders.db",
		},
		Uploads: UploadsConfig{
			Dir: "public/contest-uploads",
		},
	}
}

// Load reads path (when non-empty) over the defaults and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.HTTP.Port = port
	}
	str("ENV", &c.Service.Env)
	str("SERVICE_NAME", &c.Service.Name)
	str("LOG_LEVEL", &c.Service.LogLevel)
	str("LOG_FILE", &c.Service.LogFile)
	str("COOKIE_SECRET", &c.Session.CookieSecret)
	str("SENDGRID_API_KEY", &c.Mail.SendGridAPIKey)
	str("MAIL_FROM", &c.Mail.From)
	str("NATS_URL", &c.Events.NATSURL)
	str("UPLOAD_DIR", &c.Uploads.Dir)
	if v, ok := lookup("DATABASE_PATH"); ok && v != "" {
		c.Store.DatabasePath = v
		c.Store.Driver = DriverSQLite
	}
	str("STORE_DRIVER", &c.Store.Driver)
	return nil
}

// Production reports whether the service runs in production mode.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Service.Env, "production")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.HTTP.Port)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var errs []error
	if c.Service.Name == "" {
		errs = append(errs, errors.New("service.name is required"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.Session.CookieSecret == "" {
		errs = append(errs, errors.New("session.cookie_secret is required"))
	}
	if c.Production() && c.Session.CookieSecret == devCookieSecret {
		errs = append(errs, errors.New("session.cookie_secret must be changed in production"))
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.DatabasePath == "" {
			errs = append(errs, errors.New("store.database_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %q or %q, got %q", DriverMemory, DriverSQLite, c.Store.Driver))
	}
	if c.Mail.SendGridAPIKey != "" && c.Mail.From == "" {
		errs = append(errs, errors.New("mail.from is required when sendgrid is enabled"))
	}
	if c.Uploads.Dir == "" {
		errs = append(errs, errors.New("uploads.dir is required"))
	}
	return errors.Join(errs...)
}
