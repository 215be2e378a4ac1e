package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/time/rate"
)

const minCookieSecret = 32

// Config holds all application configuration
type Config struct {
	// Server
	Port      string `env:"PORT" envDefault:"8080"`
	BaseURL   string `env:"BASE_URL"` // empty: derived from each request
	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`

	// Security
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8080,http://localhost:3000"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecret   string        `env:"COOKIE_SECRET"` // empty: random per process

	// Rooms
	RoomGracePeriod    time.Duration `env:"ROOM_GRACE_PERIOD" envDefault:"60s"`
	NotificationBuffer int           `env:"NOTIFICATION_BUFFER" envDefault:"32"`

	// Rate Limiting (requests/sec)
	RateLimitAPI float64 `env:"RATE_LIMIT_API" envDefault:"10"`
	RateLimitWS  float64 `env:"RATE_LIMIT_WS" envDefault:"5"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"` // debug, info, warn, error, silent
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// WebSocket
	MaxMessageSize int64 `env:"MAX_MESSAGE_SIZE" envDefault:"4096"`

	// Theme
	ThemeFile string `env:"THEME_FILE"` // empty: user config dir
}

// Load parses the environment into a Config
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = cleanOrigins(cfg.AllowedOrigins)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimitAPI <= 0 || c.RateLimitWS <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.NotificationBuffer <= 0 {
		return fmt.Errorf("NOTIFICATION_BUFFER must be positive")
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("MAX_MESSAGE_SIZE must be positive")
	}
	if c.CookieSecret != "" && len(c.CookieSecret) < minCookieSecret {
		return fmt.Errorf("COOKIE_SECRET must be at least %d bytes", minCookieSecret)
	}
	return nil
}

// APILimit returns the form endpoint rate as a rate.Limit
func (c *Config) APILimit() rate.Limit {
	return rate.Limit(c.RateLimitAPI)
}

// WSLimit returns the WebSocket upgrade rate as a rate.Limit
func (c *Config) WSLimit() rate.Limit {
	return rate.Limit(c.RateLimitWS)
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}

// cleanOrigins trims entries and drops empty ones
func cleanOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			result = append(result, o)
		}
	}
	return result
}
