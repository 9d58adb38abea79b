package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes a config file to a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "./data/telemetry.db" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Auth.AccessTokenTTL != 15 {
		t.Errorf("AccessTokenTTL = %d, want 15", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != 30*24*60 {
		t.Errorf("RefreshTokenTTL = %d, want 30 days in minutes", cfg.Auth.RefreshTokenTTL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/custom.db
api:
  port: 9090
auth:
  jwt_secret: test-secret
  access_token_ttl: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("Database.Path = %q, want /tmp/custom.db", cfg.Database.Path)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Auth.AccessTokenTTL != 5 {
		t.Errorf("AccessTokenTTL = %d, want 5", cfg.Auth.AccessTokenTTL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/from-file.db
auth:
  jwt_secret: from-file
`)

	t.Setenv("TELEMETRY_DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("TELEMETRY_AUTH_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want env override", cfg.Auth.JWTSecret)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() should fail for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "::: not yaml :::")

	_, err := Load(path)
	if err == nil {
		t.Error("Load() should fail for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(_ *Config) {}, false},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, true},
		{"invalid port", func(c *Config) { c.API.Port = 0 }, true},
		{"port too high", func(c *Config) { c.API.Port = 70000 }, true},
		{"zero access ttl", func(c *Config) { c.Auth.AccessTokenTTL = 0 }, true},
		{"zero refresh ttl", func(c *Config) { c.Auth.RefreshTokenTTL = 0 }, true},
		{"influx enabled without url", func(c *Config) { c.InfluxDB.Enabled = true }, true},
		{"ingest enabled with bad qos", func(c *Config) {
			c.Ingest.Enabled = true
			c.Ingest.QoS = 3
		}, true},
		{"ingest enabled valid", func(c *Config) { c.Ingest.Enabled = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.JWTSecret = "test-secret"
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
