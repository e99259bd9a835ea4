// Package config loads server configuration from the environment and an optional YAML file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full server configuration.
type Config struct {
	Env    string       `yaml:"env" env:"AURA_ENV" env-default:"development" env-description:"development or production"`
	HTTP   HTTPConfig   `yaml:"http"`
	DB     DBConfig     `yaml:"db"`
	Admin  AdminConfig  `yaml:"admin"`
	Keys   KeyConfig    `yaml:"keys"`
	Limits LimitsConfig `yaml:"limits"`
	Site   SiteConfig   `yaml:"site"`
}

// HTTPConfig configures the listener.
type HTTPConfig struct {
	Addr           string        `yaml:"addr" env:"AURA_ADDR" env-default:":8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"AURA_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"AURA_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"AURA_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace" env:"AURA_SHUTDOWN_GRACE" env-default:"15s"`
	TrustedOrigins []string      `yaml:"trusted_origins" env:"AURA_TRUSTED_ORIGINS" env-separator:","`
}

// DBConfig configures the SQLite store.
type DBConfig struct {
	Path string `yaml:"path" env:"AURA_DB_PATH" env-default:"aura.db"`
}

// AdminConfig configures the admin gate.
// SecretHash takes precedence over Secret when both are set.
type AdminConfig struct {
	Secret     string        `yaml:"secret" env:"AURA_ADMIN_SECRET"`
	SecretHash string        `yaml:"secret_hash" env:"AURA_ADMIN_SECRET_HASH"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"AURA_SESSION_TTL" env-default:"12h"`
}

// KeyConfig holds hex-encoded 32-byte keys.
type KeyConfig struct {
	CSRF  string `yaml:"csrf" env:"AURA_CSRF_KEY"`
	Flash string `yaml:"flash" env:"AURA_FLASH_KEY"`
}

// LimitsConfig holds rate limiting and slow-operation thresholds.
type LimitsConfig struct {
	RatePerSecond int `yaml:"rate_per_second" env:"AURA_RATE_LIMIT" env-default:"10"`
	SlowRequestMs int `yaml:"slow_request_ms" env:"AURA_SLOW_REQUEST_MS" env-default:"500"`
	SlowQueryMs   int `yaml:"slow_query_ms" env:"AURA_SLOW_QUERY_MS" env-default:"50"`
}

// SiteConfig holds public page copy.
type SiteConfig struct {
	Name    string `yaml:"name" env:"AURA_SITE_NAME" env-default:"Aura Boxing"`
	Tagline string `yaml:"tagline" env:"AURA_SITE_TAGLINE" env-default:"Train hard. Box smart. Find a program near you."`
	About   string `yaml:"about" env:"AURA_SITE_ABOUT" env-default:"Aura Boxing runs **beginner-friendly** boxing programs across cities. Pick a date below and send an enquiry."`
}

var (
	ErrMissingAdminSecret = errors.New("AURA_ADMIN_SECRET or AURA_ADMIN_SECRET_HASH is required")
	ErrMissingCSRFKey     = errors.New("AURA_CSRF_KEY is required in production")
	ErrMissingFlashKey    = errors.New("AURA_FLASH_KEY is required in production")
	ErrInvalidKey         = errors.New("key must be 64 hex characters (32 bytes)")
	ErrInvalidEnv         = errors.New("AURA_ENV must be development or production")
)

// Load reads configuration from the YAML file named by AURA_CONFIG, if set, then the environment.
// PRE: none
// POST: Returns a validated Config
func Load() (*Config, error) {
	var cfg Config
	var err error
	if path := os.Getenv("AURA_CONFIG"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Usage returns the environment variable help text.
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate enforces the production requirements.
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return ErrInvalidEnv
	}
	if c.Admin.Secret == "" && c.Admin.SecretHash == "" {
		return ErrMissingAdminSecret
	}
	if c.IsProduction() {
		if c.Keys.CSRF == "" {
			return ErrMissingCSRFKey
		}
		if c.Keys.Flash == "" {
			return ErrMissingFlashKey
		}
	}
	for _, k := range []string{c.Keys.CSRF, c.Keys.Flash} {
		if k == "" {
			continue
		}
		if _, err := decodeKey(k); err != nil {
			return err
		}
	}
	return nil
}

// CSRFKey returns the configured CSRF key, or a random one outside production.
func (c *Config) CSRFKey() ([]byte, error) {
	return c.key(c.Keys.CSRF, "AURA_CSRF_KEY")
}

// FlashKey returns the configured flash signing key, or a random one outside production.
func (c *Config) FlashKey() ([]byte, error) {
	return c.key(c.Keys.Flash, "AURA_FLASH_KEY")
}

func (c *Config) key(hexKey, name string) ([]byte, error) {
	if hexKey != "" {
		return decodeKey(hexKey)
	}
	if c.IsProduction() {
		return nil, fmt.Errorf("%s is required in production", name)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}
	slog.Warn("config_warning", "event", "random_key", "key", name, "detail", "sessions won't survive restart")
	return key, nil
}

func decodeKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return key, nil
}
