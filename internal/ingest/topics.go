package ingest

import (
	"fmt"
	"strings"
)

// readingSuffix is the final topic segment devices publish readings to.
const readingSuffix = "reading"

// readingTopic builds the wildcard subscription for all device readings,
// e.g. "telemetry/+/reading".
func readingTopic(prefix string) string {
	return prefix + "/+/" + readingSuffix
}

// deviceFromTopic extracts the device ID from a reading topic.
// Expects exactly <prefix>/<device-id>/reading.
func deviceFromTopic(prefix, topic string) (string, error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if !ok {
		return "", fmt.Errorf("%w: %q lacks prefix %q", ErrBadTopic, topic, prefix)
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != readingSuffix {
		return "", fmt.Errorf("%w: %q", ErrBadTopic, topic)
	}
	if parts[0] == "" {
		return "", fmt.Errorf("%w: %q has empty device segment", ErrBadTopic, topic)
	}

	return parts[0], nil
}
