// Package telemetry stores and validates device readings.
//
// A reading carries the metric set for its device's kind: environmental
// sensors report temperature and humidity (pressure and light level
// optional), servers report CPU and memory usage. Readings are kept in
// SQLite and optionally mirrored to InfluxDB for time-series queries.
package telemetry
