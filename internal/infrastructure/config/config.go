package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Telemetry Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"auth"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// AuthConfig contains token signing and lifetime settings.
type AuthConfig struct {
	// JWTSecret signs access and refresh tokens. Loaded once at startup;
	// rotating it invalidates every outstanding token.
	JWTSecret string `yaml:"jwt_secret"`

	// AccessTokenTTL is the access token lifetime in minutes.
	AccessTokenTTL int `yaml:"access_token_ttl"`

	// RefreshTokenTTL is the refresh token lifetime in minutes.
	RefreshTokenTTL int `yaml:"refresh_token_ttl"`
}

// AccessTokenTTLDuration returns the access token lifetime as a duration.
func (a AuthConfig) AccessTokenTTLDuration() time.Duration {
	return time.Duration(a.AccessTokenTTL) * time.Minute
}

// RefreshTokenTTLDuration returns the refresh token lifetime as a duration.
func (a AuthConfig) RefreshTokenTTLDuration() time.Duration {
	return time.Duration(a.RefreshTokenTTL) * time.Minute
}

// InfluxDBConfig contains settings for the optional time-series mirror.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// IngestConfig contains settings for the optional MQTT reading ingest.
type IngestConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      int    `yaml:"qos"`

	// TopicPrefix is the root of the reading topic tree. Devices publish to
	// <prefix>/<device-id>/reading.
	TopicPrefix string `yaml:"topic_prefix"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default token lifetimes (minutes).
const (
	defaultAccessTokenTTL  = 15
	defaultRefreshTokenTTL = 30 * 24 * 60 // 30 days
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: TELEMETRY_SECTION_KEY
// For example: TELEMETRY_DATABASE_PATH, TELEMETRY_AUTH_JWT_SECRET
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/telemetry.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Auth: AuthConfig{
			AccessTokenTTL:  defaultAccessTokenTTL,
			RefreshTokenTTL: defaultRefreshTokenTTL,
		},
		Ingest: IngestConfig{
			Host:        "localhost",
			Port:        1883,
			ClientID:    "telemetryd",
			QoS:         1,
			TopicPrefix: "telemetry",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: TELEMETRY_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("TELEMETRY_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("TELEMETRY_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("TELEMETRY_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// Auth
	if v := os.Getenv("TELEMETRY_AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	// InfluxDB
	if v := os.Getenv("TELEMETRY_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("TELEMETRY_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Ingest
	if v := os.Getenv("TELEMETRY_INGEST_HOST"); v != "" {
		cfg.Ingest.Host = v
	}
	if v := os.Getenv("TELEMETRY_INGEST_USERNAME"); v != "" {
		cfg.Ingest.Username = v
	}
	if v := os.Getenv("TELEMETRY_INGEST_PASSWORD"); v != "" {
		cfg.Ingest.Password = v
	}

	// Logging
	if v := os.Getenv("TELEMETRY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// maxPort is the maximum valid TCP port number.
const maxPort = 65535

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must not be negative")
	}

	if c.API.Port < 1 || c.API.Port > maxPort {
		return fmt.Errorf("api.port must be between 1 and %d", maxPort)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (set TELEMETRY_AUTH_JWT_SECRET)")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("auth.refresh_token_ttl must be positive")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			return fmt.Errorf("influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			return fmt.Errorf("influxdb.bucket is required when influxdb is enabled")
		}
	}

	if c.Ingest.Enabled {
		if c.Ingest.Host == "" {
			return fmt.Errorf("ingest.host is required when ingest is enabled")
		}
		if c.Ingest.Port < 1 || c.Ingest.Port > maxPort {
			return fmt.Errorf("ingest.port must be between 1 and %d", maxPort)
		}
		if c.Ingest.QoS < 0 || c.Ingest.QoS > 2 {
			return fmt.Errorf("ingest.qos must be 0, 1, or 2")
		}
	}

	return nil
}
