package telemetry

import "errors"

// Sentinel errors for reading operations.
var (
	ErrReadingNotFound = errors.New("reading not found")
	ErrMissingMetric   = errors.New("required metric missing")
	ErrWrongMetric     = errors.New("metric not valid for device kind")
)
