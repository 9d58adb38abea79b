package device

import (
	"fmt"
	"net"
)

// maxNameLength is the maximum allowed device name length.
const maxNameLength = 100

// Validate checks a device for well-formedness before persistence.
// Uniqueness of the IP address is enforced by the storage layer, not here.
func Validate(d *Device) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(d.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrValidation, maxNameLength)
	}
	if err := ValidateIP(d.IPAddress); err != nil {
		return err
	}
	if !IsValidKind(d.Kind) {
		return fmt.Errorf("%w: kind must be sensor or server", ErrValidation)
	}
	if d.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", ErrValidation)
	}
	return nil
}

// ValidateIP checks that s is a syntactically valid IPv4 or IPv6 address.
func ValidateIP(s string) error {
	if s == "" {
		return fmt.Errorf("%w: ip address is required", ErrValidation)
	}
	if net.ParseIP(s) == nil {
		return fmt.Errorf("%w: %q is not a valid ip address", ErrValidation, s)
	}
	return nil
}
