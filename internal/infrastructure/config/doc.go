// Package config loads and validates the telemetryd configuration.
//
// Configuration is read from a YAML file, overlaid with TELEMETRY_* environment
// variables, and validated before any component starts. The loaded Config is
// read-only after startup; components receive the sections they need by value.
package config
