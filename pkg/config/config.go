package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMongo     = "mongodb"
	DriverFirestore = "firestore"
	DriverFile      = "file"
)

type Config struct {
	Port string `env:"PORT" envDefault:"10000"`

	StorageDriver string `env:"STORAGE_DRIVER"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"vmnc"`

	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`

	DataFile string `env:"DATA_FILE" envDefault:"./db.json"`

	CORSHosts []string `env:"CORS_HOSTS" envSeparator:"," envDefault:"*"`

	AdminPassword        string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash    string        `env:"ADMIN_PASSWORD_HASH"`
	AdminSessionTTL      time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"24h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`

	RegistrationWebhookURL string        `env:"REGISTRATION_WEBHOOK_URL"`
	ResendKey              string        `env:"RESEND_KEY"`
	NotifyEmailTo          []string      `env:"NOTIFY_EMAIL_TO" envSeparator:","`
	NotifyEmailFrom        string        `env:"NOTIFY_EMAIL_FROM"`
	NotifyTimeout          time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills the storage driver default and checks that the chosen
// driver and the admin gate have what they need.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if c.StorageDriver == "" {
		c.StorageDriver = DriverFile
		if c.MongoURI != "" {
			c.StorageDriver = DriverMongo
		}
	}

	switch c.StorageDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongodb driver")
		}
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
	case DriverFile:
		if c.DataFile == "" {
			return errors.New("DATA_FILE is required for the file driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	if c.AdminSessionTTL <= 0 {
		return errors.New("ADMIN_SESSION_TTL must be positive")
	}
	if c.SessionSweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.NotifyTimeout <= 0 {
		return errors.New("NOTIFY_TIMEOUT must be positive")
	}
	return nil
}

// AllowAllOrigins reports whether CORS_HOSTS is the wildcard.
func (c *Config) AllowAllOrigins() bool {
	for _, h := range c.CORSHosts {
		if strings.TrimSpace(h) == "*" {
			return true
		}
	}
	return len(c.Origins()) == 0
}

// Origins returns the configured CORS origins without blanks.
func (c *Config) Origins() []string {
	var out []string
	for _, h := range c.CORSHosts {
		if h = strings.TrimSpace(h); h != "" && h != "*" {
			out = append(out, h)
		}
	}
	return out
}
