package telemetry

import "time"

// Reading is a single telemetry data point for a device.
// Metric fields are pointers so absent values stay out of the JSON
// representation and the database row alike.
type Reading struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"deviceId"`
	Temperature *float64  `json:"temperature,omitempty"`
	Humidity    *float64  `json:"humidity,omitempty"`
	Pressure    *float64  `json:"pressure,omitempty"`
	LightLevel  *float64  `json:"lightLevel,omitempty"`
	CPUUsage    *float64  `json:"cpuUsage,omitempty"`
	MemoryUsage *float64  `json:"memoryUsage,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Update describes a partial reading update. Nil fields are left unchanged.
type Update struct {
	Temperature *float64   `json:"temperature"`
	Humidity    *float64   `json:"humidity"`
	Pressure    *float64   `json:"pressure"`
	LightLevel  *float64   `json:"lightLevel"`
	CPUUsage    *float64   `json:"cpuUsage"`
	MemoryUsage *float64   `json:"memoryUsage"`
	Timestamp   *time.Time `json:"timestamp"`
}

// Fields returns the reading's set metrics as a field map, suitable for
// time-series export.
func (r *Reading) Fields() map[string]any {
	fields := make(map[string]any)
	if r.Temperature != nil {
		fields["temperature"] = *r.Temperature
	}
	if r.Humidity != nil {
		fields["humidity"] = *r.Humidity
	}
	if r.Pressure != nil {
		fields["pressure"] = *r.Pressure
	}
	if r.LightLevel != nil {
		fields["light_level"] = *r.LightLevel
	}
	if r.CPUUsage != nil {
		fields["cpu_usage"] = *r.CPUUsage
	}
	if r.MemoryUsage != nil {
		fields["memory_usage"] = *r.MemoryUsage
	}
	return fields
}
