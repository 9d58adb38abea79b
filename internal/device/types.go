package device

import "time"

// Kind classifies a device by the metric set its readings carry.
type Kind string

const (
	// KindSensor is an environmental sensor reporting temperature, humidity,
	// pressure, and light level.
	KindSensor Kind = "sensor"

	// KindServer is an infrastructure host reporting CPU and memory usage.
	KindServer Kind = "server"
)

// ValidKinds is the set of accepted device kinds.
var ValidKinds = []Kind{KindSensor, KindServer}

// IsValidKind returns true if k is an accepted device kind.
func IsValidKind(k Kind) bool {
	for _, v := range ValidKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Device represents a monitored sensor or server.
type Device struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IPAddress string    `json:"ipAddress"`
	Kind      Kind      `json:"kind"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Detail is a device with its owner's display name resolved.
type Detail struct {
	Device
	OwnerName string `json:"ownerName"`
}

// Update describes a partial device update. Nil fields are left unchanged.
type Update struct {
	Name      *string `json:"name"`
	IPAddress *string `json:"ipAddress"`
}
