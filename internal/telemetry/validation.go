package telemetry

import (
	"fmt"

	"github.com/openfell/telemetry-core/internal/device"
)

// ValidateForKind checks a reading's metric set against the device kind.
// Sensors must report temperature and humidity and may add pressure and
// light level; servers must report CPU and memory usage. Metrics from the
// other kind's set are rejected.
func ValidateForKind(r *Reading, kind device.Kind) error {
	switch kind {
	case device.KindSensor:
		if r.Temperature == nil {
			return fmt.Errorf("%w: temperature", ErrMissingMetric)
		}
		if r.Humidity == nil {
			return fmt.Errorf("%w: humidity", ErrMissingMetric)
		}
		if r.CPUUsage != nil {
			return fmt.Errorf("%w: cpuUsage on sensor", ErrWrongMetric)
		}
		if r.MemoryUsage != nil {
			return fmt.Errorf("%w: memoryUsage on sensor", ErrWrongMetric)
		}
	case device.KindServer:
		if r.CPUUsage == nil {
			return fmt.Errorf("%w: cpuUsage", ErrMissingMetric)
		}
		if r.MemoryUsage == nil {
			return fmt.Errorf("%w: memoryUsage", ErrMissingMetric)
		}
		if r.Temperature != nil || r.Humidity != nil || r.Pressure != nil || r.LightLevel != nil {
			return fmt.Errorf("%w: environmental metric on server", ErrWrongMetric)
		}
	default:
		return fmt.Errorf("%w: unknown device kind %q", ErrWrongMetric, kind)
	}
	return nil
}
