package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration, read from the environment after an
// optional .env file.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"release"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// BackendURL is where the contact form posts. Empty means this process,
	// see LocalBackendURL.
	BackendURL    string        `envconfig:"BACKEND_URL"`
	SubmitTimeout time.Duration `envconfig:"SUBMIT_TIMEOUT" default:"15s"`

	ServeSite bool `envconfig:"SERVE_SITE" default:"true"`
	ServeAPI  bool `envconfig:"SERVE_API" default:"true"`

	DatabasePath       string        `envconfig:"DATABASE_PATH" default:"portfolio.db"`
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	VisitorRetention   time.Duration `envconfig:"VISITOR_RETENTION" default:"8760h"`
	CORSOrigins        []string      `envconfig:"CORS_ORIGINS" default:"*"`

	SMTP SMTP
}

// SMTP configures owner notifications. Notifications stay off unless both
// User and Pass are set.
type SMTP struct {
	Host string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port string `envconfig:"SMTP_PORT" default:"587"`
	User string `envconfig:"SMTP_USER"`
	Pass string `envconfig:"SMTP_PASS"`
	To   string `envconfig:"TO_EMAIL"`
}

// Enabled reports whether credentials are present.
func (s SMTP) Enabled() bool {
	return s.User != "" && s.Pass != ""
}

// Load reads .env files (when present) and then the environment.
func Load(files ...string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LocalBackendURL returns BackendURL, or the loopback address of this
// process on Port when none is configured.
func (c Config) LocalBackendURL() string {
	if c.BackendURL != "" {
		return c.BackendURL
	}
	return fmt.Sprintf("http://127.0.0.1:%d", c.Port)
}
