// Package scheduler runs jobs on a fixed interval with an immediate first run.
package scheduler

import (
	"math"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultUpdateInterval is used when no valid interval is configured (600000ms)
	DefaultUpdateInterval = 10 * time.Minute

	// MinUpdateInterval guards against configurations that would hammer the oracle
	MinUpdateInterval = time.Second
)

// maxIntervalMillis is the largest millisecond count a time.Duration holds
const maxIntervalMillis = math.MaxInt64 / int64(time.Millisecond)

// ParseInterval parses raw as a millisecond count. Empty, non-numeric,
// non-positive and unrepresentable values yield fallback; positive values
// below MinUpdateInterval are raised to it.
func ParseInterval(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 || ms > maxIntervalMillis {
		return fallback
	}
	d := time.Duration(ms) * time.Millisecond
	if d < MinUpdateInterval {
		return MinUpdateInterval
	}
	return d
}

// IntervalFromEnv reads a millisecond interval from the environment variable key
func IntervalFromEnv(key string, fallback time.Duration) time.Duration {
	return ParseInterval(os.Getenv(key), fallback)
}
