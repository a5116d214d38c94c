package utils

import (
	"time"
)

// IsExpired checks whether timestamp+ttl lies in the past.
func IsExpired(timestamp time.Time, ttl time.Duration) bool {
	return time.Since(timestamp) > ttl
}

// TimeUntilExpiry returns the remaining lifetime, floored at zero.
func TimeUntilExpiry(timestamp time.Time, ttl time.Duration) time.Duration {
	remaining := time.Until(timestamp.Add(ttl))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatTimestamp formats a timestamp in ISO 8601.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTimestamp parses an ISO 8601 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
