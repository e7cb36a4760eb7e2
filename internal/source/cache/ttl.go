package cache

import (
	"fmt"
	"strconv"
	"time"
)

// TTL bounds and defaults.
const (
	// DefaultTTLSeconds is the default page TTL (5 minutes).
	DefaultTTLSeconds = 300

	// MinTTLSeconds is the minimum allowed TTL.
	MinTTLSeconds = 1

	// MaxTTLSeconds is the maximum allowed TTL (1 day).
	MaxTTLSeconds = 86400

	// DefaultMaxSizeMB is the default cache size cap.
	DefaultMaxSizeMB = 50

	bytesPerMB = 1024 * 1024
)

// ErrInvalidTTL is returned for TTLs outside the allowed range.
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ParseTTL parses integer seconds ("300") or a duration string ("5m").
func ParseTTL(s string) (time.Duration, error) {
	var seconds int
	if n, err := strconv.Atoi(s); err == nil {
		seconds = n
	} else {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", durErr)
		}
		seconds = int(d.Seconds())
	}

	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

// TTLFromSeconds converts seconds to a duration, using the default for zero.
func TTLFromSeconds(seconds int) (time.Duration, error) {
	if seconds == 0 {
		seconds = DefaultTTLSeconds
	}
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}
