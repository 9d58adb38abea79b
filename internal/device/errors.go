package device

import "errors"

// Sentinel errors for device operations.
var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrDuplicateIP    = errors.New("ip address already in use")
	ErrOwnerNotFound  = errors.New("owner not found")
	ErrValidation     = errors.New("invalid device")
)
