package gasprice

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/scheduler"
)

// DefaultFactor leaves oracle readings unscaled
var DefaultFactor = decimal.NewFromInt(1)

// SideConfig holds the resolution settings for one chain side.
// Environment variables (PREFIX is HOME or FOREIGN):
//   - PREFIX_GAS_PRICE_UPDATE_INTERVAL: refresh interval in ms (default: 600000)
//   - PREFIX_GAS_PRICE_FACTOR: multiplier applied to oracle values (default: 1)
//   - PREFIX_GAS_PRICE_SPEED_TYPE: oracle tier used by default (default: standard)
//   - GAS_PRICE_MIN, GAS_PRICE_MAX: clamp range in gwei (default: 1 and 250)
type SideConfig struct {
	Side       Side
	Interval   time.Duration
	Speed      oracle.Speed
	Factor     decimal.Decimal
	Boundaries Boundaries
}

// NewSideConfig reads the settings for side from the environment. Invalid
// optional values are logged and replaced by defaults.
func NewSideConfig(side Side, logger *logrus.Logger) (*SideConfig, error) {
	if logger == nil {
		logger = logrus.New()
	}
	prefix := strings.ToUpper(string(side))

	cfg := &SideConfig{
		Side:     side,
		Interval: scheduler.IntervalFromEnv(prefix+"_GAS_PRICE_UPDATE_INTERVAL", scheduler.DefaultUpdateInterval),
		Speed:    oracle.SpeedStandard,
		Factor:   DefaultFactor,
	}

	if raw := os.Getenv(prefix + "_GAS_PRICE_SPEED_TYPE"); raw != "" {
		speed, ok := oracle.ParseSpeed(raw)
		if !ok {
			return nil, fmt.Errorf("invalid %s_GAS_PRICE_SPEED_TYPE %q", prefix, raw)
		}
		cfg.Speed = speed
	}

	if raw := os.Getenv(prefix + "_GAS_PRICE_FACTOR"); raw != "" {
		factor, err := decimal.NewFromString(raw)
		if err != nil || !factor.IsPositive() {
			logger.WithFields(logrus.Fields{
				"chain_side": side,
				"value":      raw,
				"default":    DefaultFactor.String(),
			}).Warn("Invalid gas price factor, using default")
		} else {
			cfg.Factor = factor
		}
	}

	bounds, err := BoundariesFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Boundaries = bounds

	return cfg, nil
}

// Normalizer returns the normalizer for this side
func (c *SideConfig) Normalizer() Normalizer {
	return Normalizer{Factor: c.Factor, Bounds: c.Boundaries}
}

// BoundariesFromEnv reads GAS_PRICE_MIN and GAS_PRICE_MAX (gwei), falling back
// to the defaults for unset variables.
func BoundariesFromEnv() (Boundaries, error) {
	bounds := DefaultBoundaries()

	if raw := os.Getenv("GAS_PRICE_MIN"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return Boundaries{}, fmt.Errorf("invalid GAS_PRICE_MIN %q: %w", raw, err)
		}
		bounds.Min = v
	}
	if raw := os.Getenv("GAS_PRICE_MAX"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return Boundaries{}, fmt.Errorf("invalid GAS_PRICE_MAX %q: %w", raw, err)
		}
		bounds.Max = v
	}

	return NewBoundaries(bounds.Min, bounds.Max)
}
