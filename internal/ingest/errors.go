package ingest

import "errors"

// Sentinel errors for the MQTT consumer.
var (
	ErrConnectionFailed = errors.New("ingest: connection failed")
	ErrNotConnected     = errors.New("ingest: not connected")
	ErrSubscribeFailed  = errors.New("ingest: subscribe failed")
	ErrBadTopic         = errors.New("ingest: malformed topic")
)
