package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// unsetEnv removes keys for the test so file values are not overridden.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// TestLoad_Defaults verifies defaults apply when only the secret is set.
func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "AURA_CONFIG", "AURA_ENV", "AURA_ADDR", "AURA_SESSION_TTL", "AURA_RATE_LIMIT", "AURA_SITE_NAME", "AURA_ADMIN_SECRET_HASH")
	t.Setenv("AURA_ADMIN_SECRET", "letmein")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Admin.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Admin.SessionTTL)
	}
	if cfg.Limits.RatePerSecond != 10 {
		t.Errorf("RatePerSecond = %d", cfg.Limits.RatePerSecond)
	}
	if cfg.Site.Name != "Aura Boxing" {
		t.Errorf("Site.Name = %q", cfg.Site.Name)
	}
}

// TestLoad_MissingSecret verifies the admin secret is mandatory.
func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AURA_CONFIG", "")
	t.Setenv("AURA_ADMIN_SECRET", "")
	t.Setenv("AURA_ADMIN_SECRET_HASH", "")
	if _, err := Load(); !errors.Is(err, ErrMissingAdminSecret) {
		t.Errorf("err = %v, want ErrMissingAdminSecret", err)
	}
}

// TestValidate_Production verifies production requires both keys.
func TestValidate_Production(t *testing.T) {
	tests := []struct {
		name string
		keys KeyConfig
		want error
	}{
		{"no csrf", KeyConfig{Flash: testKey}, ErrMissingCSRFKey},
		{"no flash", KeyConfig{CSRF: testKey}, ErrMissingFlashKey},
		{"short key", KeyConfig{CSRF: "abcd", Flash: testKey}, ErrInvalidKey},
		{"ok", KeyConfig{CSRF: testKey, Flash: testKey}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Env: EnvProduction, Admin: AdminConfig{Secret: "x"}, Keys: tt.keys}
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestValidate_UnknownEnv verifies typos in AURA_ENV are caught.
func TestValidate_UnknownEnv(t *testing.T) {
	cfg := Config{Env: "prod", Admin: AdminConfig{Secret: "x"}}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidEnv) {
		t.Errorf("err = %v, want ErrInvalidEnv", err)
	}
}

// TestKeys verifies configured keys decode and missing ones are generated in development.
func TestKeys(t *testing.T) {
	cfg := Config{Env: EnvDevelopment, Keys: KeyConfig{CSRF: testKey}}
	csrf, err := cfg.CSRFKey()
	if err != nil || len(csrf) != 32 || csrf[1] != 1 {
		t.Errorf("CSRFKey = %v, %v", csrf, err)
	}
	flash, err := cfg.FlashKey()
	if err != nil || len(flash) != 32 {
		t.Errorf("FlashKey = %v, %v", flash, err)
	}

	prod := Config{Env: EnvProduction}
	if _, err := prod.FlashKey(); err == nil {
		t.Error("expected missing production key to fail")
	}
}

// TestLoad_YAMLFile verifies AURA_CONFIG points at a YAML file.
func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aura.yml")
	body := "env: development\nhttp:\n  addr: \":9090\"\nadmin:\n  secret: fromfile\nsite:\n  tagline: Jab first\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AURA_CONFIG", path)
	unsetEnv(t, "AURA_ADMIN_SECRET", "AURA_ADDR", "AURA_SITE_TAGLINE", "AURA_ENV")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.Admin.Secret != "fromfile" || cfg.Site.Tagline != "Jab first" {
		t.Errorf("cfg = %+v", cfg)
	}
}

// TestUsage verifies the help text lists the environment variables.
func TestUsage(t *testing.T) {
	if !strings.Contains(Usage(), "AURA_ENV") {
		t.Error("expected usage to mention AURA_ENV")
	}
}
