// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	CatalogFirestore = "firestore"
	CatalogPostgres  = "postgres"
)

// Config holds the process-wide settings read from the environment.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// GCP
	FirestoreProjectID string `envconfig:"FIRESTORE_PROJECT_ID"`
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	GoogleCloudProject string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	GCPCreds           string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Catalog storage
	CatalogBackend string `envconfig:"CATALOG_BACKEND" default:"firestore"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`

	// Device-local cart mirror: "memory" or a sqlite DSN.
	LocalCartDSN   string        `envconfig:"LOCAL_CART_DSN" default:"memory"`
	CartSessionTTL time.Duration `envconfig:"CART_SESSION_TTL" default:"2h"`

	// Images
	GCSImageBucket string `envconfig:"GCS_IMAGE_BUCKET"`
	GCSSignedURLs  bool   `envconfig:"GCS_SIGNED_URLS" default:"false"`

	// Mail
	SendGridAPIKey       string `envconfig:"SENDGRID_API_KEY"`
	SendGridAPIKeySecret string `envconfig:"SENDGRID_API_KEY_SECRET"`
	MailFrom             string `envconfig:"MAIL_FROM"`
	MallBaseURL          string `envconfig:"MALL_BASE_URL"`

	// HTTP
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"40"`

	// Logging
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env files (if present) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.CatalogBackend = strings.ToLower(strings.TrimSpace(c.CatalogBackend))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
	c.MallBaseURL = strings.TrimRight(strings.TrimSpace(c.MallBaseURL), "/")
}

func (c *Config) Validate() error {
	switch c.CatalogBackend {
	case CatalogFirestore:
	case CatalogPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("config: DATABASE_URL is required when CATALOG_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("config: unknown CATALOG_BACKEND %q", c.CatalogBackend)
	}
	if c.RateLimitRPS < 0 {
		return errors.New("config: RATE_LIMIT_RPS must be >= 0")
	}
	if c.CartSessionTTL <= 0 {
		return errors.New("config: CART_SESSION_TTL must be positive")
	}
	return nil
}

// ProjectID resolves the GCP project in priority order:
// FIRESTORE_PROJECT_ID, GCP_PROJECT_ID, GOOGLE_CLOUD_PROJECT.
func (c *Config) ProjectID() string {
	for _, v := range []string{c.FirestoreProjectID, c.GCPProjectID, c.GoogleCloudProject} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
