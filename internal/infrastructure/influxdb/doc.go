// Package influxdb mirrors accepted device readings to InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. SQLite remains the
// source of truth; InfluxDB holds an append-only copy of reading metrics
// for time-series queries and dashboards. Writes are non-blocking and
// batched, with async errors delivered through a callback.
package influxdb
