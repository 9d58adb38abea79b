// Package ingest accepts device readings over MQTT.
//
// Devices publish JSON readings to <prefix>/<device-id>/reading. Payloads
// pass through the same validation as the HTTP API, so a sensor cannot
// sneak server metrics in over the broker. The consumer reconnects
// automatically and restores its subscription.
package ingest
