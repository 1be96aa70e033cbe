// Package config handles resolving configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration. Values come from the
// defaults, then the YAML config file, then FILMSHELF_* environment
// variables, in increasing priority.
type Config struct {
	LogLevel    string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	WebAddress  string        `yaml:"web_address" validate:"required,hostname_port"`
	MongoURI    string        `yaml:"mongo_uri"`
	MongoDB     string        `yaml:"mongo_database" validate:"required"`
	PostgresDSN string        `yaml:"postgres_dsn"`
	SessionTTL  time.Duration `yaml:"session_ttl" validate:"required"`
	DevMode     bool          `yaml:"dev_mode"`
}

// Default returns a config with all default values populated. Note that this
// configuration is _not_ valid outside dev mode, as the user must set the
// Mongo and Postgres connection strings.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		WebAddress: "localhost:3000",
		MongoDB:    "sample_mflix",
		SessionTTL: 15 * time.Minute,
	}
}

// Load reads a YAML configuration file from path, merges it over the
// defaults, applies environment overrides, and validates the result. A
// missing config file surfaces os.ErrNotExist so callers can offer to create
// one.
func Load(path string) (*Config, error) {
	bytes, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err = yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	cfg.applyEnv()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for completeness. Outside dev mode both
// datastore connection strings must be present.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if !c.DevMode && (c.MongoURI == "" || c.PostgresDSN == "") {
		return fmt.Errorf("config validation failed: mongo_uri and postgres_dsn are required unless dev_mode is set")
	}
	return nil
}

// Level maps the configured log level string to a slog level.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// applyEnv overlays FILMSHELF_* environment variables. A .env file in the
// working directory is honored when present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("FILMSHELF_LOG_LEVEL", &c.LogLevel)
	setString("FILMSHELF_WEB_ADDRESS", &c.WebAddress)
	setString("FILMSHELF_MONGO_URI", &c.MongoURI)
	setString("FILMSHELF_MONGO_DATABASE", &c.MongoDB)
	setString("FILMSHELF_POSTGRES_DSN", &c.PostgresDSN)

	if v, ok := os.LookupEnv("FILMSHELF_SESSION_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = d
		}
	}
	if v, ok := os.LookupEnv("FILMSHELF_DEV_MODE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DevMode = b
		}
	}
}

// Write marshals the config to YAML at path with owner-only permissions.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil { //nolint:mnd // owner rw access
		return fmt.Errorf("failed to write config file to %s: %w", path, err)
	}
	return nil
}
