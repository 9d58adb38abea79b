package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteReading mirrors a stored reading's metric fields to InfluxDB.
//
// The write is non-blocking; points are batched and sent asynchronously.
// Field keys follow the column names of the primary store (temperature,
// humidity, cpu_usage, ...) tagged with the device ID.
func (c *Client) WriteReading(deviceID string, fields map[string]any, timestamp time.Time) {
	if !c.IsConnected() || len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"readings",
		map[string]string{
			"device_id": deviceID,
		},
		fields,
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}
