// Package device provides the monitored device model and its persistence.
//
// A device is either an environmental sensor or an infrastructure server,
// belongs to exactly one user, and carries a globally unique IP address.
// Deleting a device cascades to its readings; deleting a user cascades to
// their devices.
package device
