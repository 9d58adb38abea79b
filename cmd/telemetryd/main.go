// telemetryd is the telemetry management backend.
//
// It serves the HTTP API for user accounts, monitored devices, and their
// readings, optionally mirrors readings to InfluxDB, and optionally
// accepts readings over MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/openfell/telemetry-core/migrations"

	"github.com/openfell/telemetry-core/internal/api"
	"github.com/openfell/telemetry-core/internal/auth"
	"github.com/openfell/telemetry-core/internal/device"
	"github.com/openfell/telemetry-core/internal/infrastructure/config"
	"github.com/openfell/telemetry-core/internal/infrastructure/database"
	"github.com/openfell/telemetry-core/internal/infrastructure/influxdb"
	"github.com/openfell/telemetry-core/internal/infrastructure/logging"
	"github.com/openfell/telemetry-core/internal/ingest"
	"github.com/openfell/telemetry-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting telemetryd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Repositories
	userRepo := auth.NewUserRepository(db.DB)
	deviceRepo := device.NewSQLiteRepository(db.DB)
	readingRepo := telemetry.NewSQLiteRepository(db.DB)

	// Seed an admin account on an empty database so the API is usable
	// before any registration has happened.
	if _, seedErr := auth.SeedAdmin(ctx, userRepo, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin user: %w", seedErr)
	}

	tokens := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTLDuration(),
		cfg.Auth.RefreshTokenTTLDuration(),
	)

	// Connect to InfluxDB (optional reading mirror)
	var recorder telemetry.Recorder
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		recorder = influxClient
	} else {
		log.Info("InfluxDB mirror disabled")
	}

	readings := telemetry.NewService(readingRepo, recorder, log.Logger)

	// Start MQTT ingest (optional)
	if cfg.Ingest.Enabled {
		consumer, ingestErr := ingest.Connect(cfg.Ingest, readings, log.Logger)
		if ingestErr != nil {
			return fmt.Errorf("starting MQTT ingest: %w", ingestErr)
		}
		defer func() {
			log.Info("stopping MQTT ingest")
			if closeErr := consumer.Close(); closeErr != nil {
				log.Error("error closing MQTT ingest", "error", closeErr)
			}
		}()
		log.Info("MQTT ingest connected",
			"broker", fmt.Sprintf("%s:%d", cfg.Ingest.Host, cfg.Ingest.Port),
			"client_id", cfg.Ingest.ClientID,
		)
	} else {
		log.Info("MQTT ingest disabled")
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Users:    userRepo,
		Tokens:   tokens,
		Devices:  deviceRepo,
		Readings: readings,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses TELEMETRY_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TELEMETRY_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
