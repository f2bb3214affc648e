package oracle

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Default configuration values
const (
	// DefaultRequestTimeout is the default timeout in seconds for oracle requests
	DefaultRequestTimeout = 10
	// DefaultRequestsPerSecond caps how often a single client hits the oracle
	DefaultRequestsPerSecond = 1.0
)

// Config holds the oracle client settings for one chain side.
// Environment variables (PREFIX is HOME or FOREIGN):
//   - PREFIX_GAS_PRICE_ORACLE_URL: oracle endpoint, empty disables the oracle
//   - PREFIX_GAS_PRICE_ORACLE_TIMEOUT: request timeout in seconds (default: 10)
//   - PREFIX_GAS_PRICE_ORACLE_RPS: maximum requests per second (default: 1)
type Config struct {
	// URL is the oracle endpoint returning the speed table
	URL string
	// Side is used for log fields and error context
	Side string
	// RequestTimeout bounds a single HTTP exchange
	RequestTimeout time.Duration
	// RequestsPerSecond limits request rate, zero or less disables limiting
	RequestsPerSecond float64
	// Logger is the logrus logger used by the client
	Logger *logrus.Logger
}

// NewConfig reads the oracle settings for side from the environment
func NewConfig(side string, logger *logrus.Logger) *Config {
	if logger == nil {
		logger = logrus.New()
	}
	prefix := strings.ToUpper(side)

	timeout := DefaultRequestTimeout
	if raw := os.Getenv(prefix + "_GAS_PRICE_ORACLE_TIMEOUT"); raw != "" {
		if t, err := strconv.Atoi(raw); err == nil && t > 0 {
			timeout = t
		} else {
			logger.WithFields(logrus.Fields{
				"chain_side": side,
				"value":      raw,
				"default":    DefaultRequestTimeout,
			}).Warn("Invalid oracle timeout, using default")
		}
	}

	rps := DefaultRequestsPerSecond
	if raw := os.Getenv(prefix + "_GAS_PRICE_ORACLE_RPS"); raw != "" {
		if r, err := strconv.ParseFloat(raw, 64); err == nil {
			rps = r
		} else {
			logger.WithFields(logrus.Fields{
				"chain_side": side,
				"value":      raw,
				"default":    DefaultRequestsPerSecond,
			}).Warn("Invalid oracle request rate, using default")
		}
	}

	return &Config{
		URL:               os.Getenv(prefix + "_GAS_PRICE_ORACLE_URL"),
		Side:              side,
		RequestTimeout:    time.Duration(timeout) * time.Second,
		RequestsPerSecond: rps,
		Logger:            logger,
	}
}

// Enabled reports whether an oracle endpoint is configured
func (c *Config) Enabled() bool {
	return c != nil && c.URL != ""
}

// Validate checks the configuration before a client is built
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("oracle: URL is required")
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("oracle: invalid URL %q: %w", c.URL, err)
	}
	if c.RequestTimeout < time.Second {
		return fmt.Errorf("oracle: request timeout must be at least 1 second, got %v", c.RequestTimeout)
	}
	if c.Logger == nil {
		return fmt.Errorf("oracle: logger is required")
	}
	return nil
}
