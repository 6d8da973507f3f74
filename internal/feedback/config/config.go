// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Business logic never reads the
// environment directly; everything ambient (default webhook URL included)
// flows through here.
type Config struct {
	HTTPPort int `yaml:"HTTP_PORT"`

	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// DefaultWebhookURL is the process-wide notification sink used when a
	// company has no webhook of its own. Empty disables the fallback.
	DefaultWebhookURL     string `yaml:"DEFAULT_WEBHOOK_URL"`
	WebhookTimeoutSeconds int    `yaml:"WEBHOOK_TIMEOUT_SECONDS"`

	// Seed credentials for the initial platform admin, created only when the
	// user table is empty.
	AdminEmail    string `yaml:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"ADMIN_PASSWORD"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 3000
	}
	if cfg.WebhookTimeoutSeconds == 0 {
		cfg.WebhookTimeoutSeconds = 10
	}
	return cfg, nil
}
